package output

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// Markdown styles. NoTTYStyle renders plain text.
const (
	DarkStyle  = "dark"
	NoTTYStyle = "notty"
)

const markdownWidth = 80

var (
	mdMu        sync.Mutex
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StyleFor picks the markdown style for output written to w.
func StyleFor(w io.Writer) string {
	if IsTerminal(w) {
		return DarkStyle
	}
	return NoTTYStyle
}

// RenderMarkdown renders md in the given style. On a renderer error the
// trimmed source is returned unchanged.
func RenderMarkdown(md, style string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}

	mdMu.Lock()
	defer mdMu.Unlock()

	r := mdRenderers[style]
	if r == nil {
		// WithAutoStyle queries the terminal and can block, so the style is fixed.
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(markdownWidth),
		)
		if err != nil {
			return md
		}
		mdRenderers[style] = rr
		r = rr
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}
