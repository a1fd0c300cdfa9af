// Package tui is the interactive todo screen. It renders the store and turns
// key presses into store calls made on bubbletea command goroutines.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"todoctl/internal/service"
	"todoctl/internal/state"
)

type focusArea int

const (
	focusList focusArea = iota
	focusForm
	focusEdit
)

type loadedMsg struct{ err error }

type addedMsg struct {
	todo service.Todo
	err  error
}

type updatedMsg struct {
	id   int64
	save bool
	err  error
}

type removedMsg struct {
	id  int64
	err error
}

// storeChangedMsg is sent by the store subscription so the screen redraws
// after a change made off the event loop.
type storeChangedMsg struct{}

type tickMsg time.Time

const clockInterval = 30 * time.Second

// App is the root model.
type App struct {
	ctx   context.Context
	store *state.Store
	log   *log.Logger

	keys     keyMap
	formKeys formKeys
	help     help.Model
	spinner  spinner.Model

	form      Form
	items     map[int64]*Item
	cursor    int
	focus     focusArea
	editingID int64
	loading   bool
	showHelp  bool

	width  int
	height int
	now    time.Time
	clock  func() time.Time
}

// New creates the root model over store. It loads on Init.
func New(ctx context.Context, store *state.Store, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	m := &App{
		ctx:      ctx,
		store:    store,
		log:      logger,
		keys:     defaultKeys(),
		formKeys: defaultFormKeys(),
		help:     help.New(),
		spinner:  sp,
		form:     NewForm(),
		items:    make(map[int64]*Item),
		loading:  true,
		clock:    time.Now,
		width:    80,
	}
	m.now = m.clock()
	m.form.SetWidth(m.width)
	return m
}

// Init starts the first load.
func (m *App) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick, tickEvery())
}

func tickEvery() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *App) loadCmd() tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: store.Load(ctx)}
	}
}

func (m *App) addCmd(in service.TodoInput) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		t, err := store.AddTask(ctx, in)
		return addedMsg{todo: t, err: err}
	}
}

func (m *App) updateCmd(id int64, rec service.Todo, save bool) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		_, err := store.EditTask(ctx, id, rec)
		return updatedMsg{id: id, save: save, err: err}
	}
}

func (m *App) removeCmd(id int64) tea.Cmd {
	store, ctx := m.store, m.ctx
	return func() tea.Msg {
		return removedMsg{id: id, err: store.RemoveTask(ctx, id)}
	}
}

// item returns the row state for id, creating it on first use.
func (m *App) item(id int64) *Item {
	it, ok := m.items[id]
	if !ok {
		it = NewItem(id)
		it.SetWidth(m.width)
		m.items[id] = it
	}
	return it
}

// selected returns the todo under the cursor in the current view.
func (m *App) selected() (service.Todo, bool) {
	v := m.store.View()
	if m.cursor < 0 || m.cursor >= len(v.Tasks) {
		return service.Todo{}, false
	}
	return v.Tasks[m.cursor], true
}

// sync drops row state for records no longer in the store and keeps the
// cursor inside the view.
func (m *App) sync() {
	live := make(map[int64]bool)
	for _, t := range m.store.Tasks() {
		live[t.ID] = true
	}
	for id := range m.items {
		if !live[id] {
			delete(m.items, id)
		}
	}
	if m.focus == focusEdit && !live[m.editingID] {
		m.focus = focusList
		m.editingID = 0
	}

	n := len(m.store.View().Tasks)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update implements tea.Model.
func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.form.SetWidth(msg.Width)
		for _, it := range m.items {
			it.SetWidth(msg.Width)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickEvery()

	case loadedMsg:
		m.loading = false
		m.now = m.clock()
		m.sync()
		return m, nil

	case addedMsg:
		m.form.FinishSubmit(msg.err)
		m.now = m.clock()
		return m, nil

	case updatedMsg:
		if it, ok := m.items[msg.id]; ok {
			it.FinishUpdate(msg.err, msg.save)
			if msg.save && msg.err == nil && m.editingID == msg.id {
				m.focus = focusList
				m.editingID = 0
			}
		}
		m.now = m.clock()
		m.sync()
		return m, nil

	case removedMsg:
		if msg.err != nil {
			if it, ok := m.items[msg.id]; ok {
				it.FinishUpdate(msg.err, false)
			}
		}
		m.sync()
		return m, nil

	case storeChangedMsg:
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case focusForm:
		action, cmd := m.form.Update(msg)
		switch action {
		case actionSubmit:
			return m, m.submitForm()
		case actionCancel:
			m.form.Blur()
			m.focus = focusList
		}
		return m, cmd

	case focusEdit:
		return m.handleEditKey(msg)
	}

	if t, ok := m.selected(); ok {
		if it := m.items[t.ID]; it != nil && it.Confirming() {
			return m.handleConfirmKey(t, it, msg)
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case msg.String() == "esc":
		if m.store.Err() != "" {
			m.store.ClearError()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.store.View().Tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		it := m.item(t.ID)
		rec, ok := it.ToggleRecord(t)
		if !ok {
			return m, nil
		}
		it.BeginUpdate()
		return m, m.updateCmd(t.ID, rec, false)

	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		it := m.item(t.ID)
		cmd := it.StartEdit(t)
		if it.Editing() {
			m.focus = focusEdit
			m.editingID = t.ID
		}
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.item(t.ID).AskDelete()
		}

	case key.Matches(msg, m.keys.New):
		m.focus = focusForm
		return m, m.form.Focus()

	case key.Matches(msg, m.keys.Filter):
		m.setFilter(m.store.Filter().Next())
	case key.Matches(msg, m.keys.All):
		m.setFilter(state.FilterAll)
	case key.Matches(msg, m.keys.Active):
		m.setFilter(state.FilterActive)
	case key.Matches(msg, m.keys.Done):
		m.setFilter(state.FilterCompleted)

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.loadCmd(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func (m *App) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, ok := m.store.Find(m.editingID)
	it := m.items[m.editingID]
	if !ok || it == nil {
		m.focus = focusList
		m.editingID = 0
		return m, nil
	}

	action, cmd := it.Update(msg)
	switch action {
	case actionSubmit:
		rec, ok := it.SaveRecord(t)
		if !ok {
			return m, nil
		}
		it.BeginUpdate()
		return m, m.updateCmd(t.ID, rec, true)
	case actionCancel:
		it.CancelEdit(t)
		m.focus = focusList
		m.editingID = 0
		return m, nil
	}
	return m, cmd
}

func (m *App) handleConfirmKey(t service.Todo, it *Item, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if it.ResolveDelete(true) {
			it.BeginUpdate()
			return m, m.removeCmd(t.ID)
		}
	case "n", "N", "esc":
		it.ResolveDelete(false)
	}
	return m, nil
}

func (m *App) submitForm() tea.Cmd {
	in, ok := m.form.BeginSubmit()
	if !ok {
		return nil
	}
	return m.addCmd(in)
}

func (m *App) setFilter(f state.Filter) {
	if m.store.Filter() == f {
		return
	}
	m.store.SetFilter(f)
	m.cursor = 0
}

// View implements tea.Model.
func (m *App) View() string {
	var b strings.Builder
	v := m.store.View()

	b.WriteString(titleStyle.Render("todoctl") + "  " + subtitleStyle.Render("Keep track of what needs doing") + "\n")
	b.WriteString(renderStats(v.Stats) + "\n")

	if msg := m.store.Err(); msg != "" {
		b.WriteString("\n" + errorStyle.Render(msg) + mutedStyle.Render("  press r to retry, esc to dismiss") + "\n")
	}

	b.WriteString("\n" + m.form.View() + "\n")
	b.WriteString(sectionStyle.Render("Todos") + "  " + renderFilterBar(v) + "\n")

	switch {
	case m.loading && len(m.store.Tasks()) == 0:
		b.WriteString(m.spinner.View() + " Loading todos...\n")
	case len(v.Tasks) == 0:
		b.WriteString(mutedStyle.Render(emptyState(v.Filter)) + "\n")
	default:
		if m.loading {
			b.WriteString(m.spinner.View() + mutedStyle.Render(" Refreshing...") + "\n")
		}
		rows := make([]string, 0, len(v.Tasks))
		for i, t := range v.Tasks {
			rows = append(rows, m.rowView(t, i == m.cursor))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n")
	}

	b.WriteString("\n")
	switch m.focus {
	case focusForm, focusEdit:
		b.WriteString(m.help.View(m.formKeys))
	default:
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *App) rowView(t service.Todo, selected bool) string {
	if it, ok := m.items[t.ID]; ok {
		return it.View(t, selected, m.now)
	}
	return NewItem(t.ID).View(t, selected, m.now)
}

func renderStats(s state.Stats) string {
	return fmt.Sprintf("%s total  %s active  %s completed",
		statNumStyle.Render(fmt.Sprint(s.Total)),
		statNumStyle.Render(fmt.Sprint(s.Active)),
		statNumStyle.Render(fmt.Sprint(s.Completed)))
}

func renderFilterBar(v state.View) string {
	counts := map[state.Filter]int{
		state.FilterAll:       v.Stats.Total,
		state.FilterActive:    v.Stats.Active,
		state.FilterCompleted: v.Stats.Completed,
	}
	parts := make([]string, 0, len(state.Filters))
	for _, f := range state.Filters {
		label := fmt.Sprintf("%s (%d)", filterLabel(f), counts[f])
		if f == v.Filter {
			parts = append(parts, filterActiveStyle.Render(label))
		} else {
			parts = append(parts, filterStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func filterLabel(f state.Filter) string {
	switch f {
	case state.FilterActive:
		return "Active"
	case state.FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

func emptyState(f state.Filter) string {
	switch f {
	case state.FilterActive:
		return "No active todos."
	case state.FilterCompleted:
		return "No completed todos yet."
	default:
		return "No todos yet. Add your first one above."
	}
}

// Run shows the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, store *state.Store, logger *log.Logger) error {
	model := New(ctx, store, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the event loop reads it, and store changes also happen
	// inside Update, so deliver from a fresh goroutine.
	unsubscribe := store.Subscribe(func() { go program.Send(storeChangedMsg{}) })
	defer unsubscribe()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
