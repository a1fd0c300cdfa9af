package tui

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted   = ac("240", "243")
	colorAccent  = ac("25", "111")
	colorError   = ac("160", "203")
	colorSuccess = ac("28", "114")
	colorSelBg   = ac("#e9e9e9", "#262626")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	statNumStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)

	filterStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	filterActiveStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(colorAccent)

	itemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	itemSelectedStyle = lipgloss.NewStyle().PaddingLeft(1).Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(colorAccent).Background(colorSelBg)
	itemDoneTitle  = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	checkDoneStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	confirmStyle   = lipgloss.NewStyle().Foreground(colorError)

	formBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorMuted).Padding(0, 1)
	formFocusBox = formBoxStyle.BorderForeground(colorAccent)
)
