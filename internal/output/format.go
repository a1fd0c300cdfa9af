// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"todoctl/internal/service"
	"todoctl/internal/state"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned position, two spaces, checkbox, title)
func FormatTask(w io.Writer, num int, task service.Todo) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), NormalizeTitle(task.Title))
}

// FormatStats formats the counts line.
func FormatStats(w io.Writer, stats state.Stats) {
	fmt.Fprintf(w, "total: %d  active: %d  completed: %d\n", stats.Total, stats.Active, stats.Completed)
}

// FormatDetail formats the header block of the show command.
// Timestamps are relative to now; "updated" is only shown when the todo was edited.
func FormatDetail(w io.Writer, task service.Todo, now time.Time) {
	fmt.Fprintf(w, "#%d %s\n", task.ID, NormalizeTitle(task.Title))
	fmt.Fprintf(w, "status:  %s\n", Status(task.Completed))
	fmt.Fprintf(w, "created: %s\n", RelativeTime(task.CreatedAt, now))
	if task.Edited() {
		fmt.Fprintf(w, "updated: %s\n", RelativeTime(task.UpdatedAt, now))
	}
}

// EmptyMessage returns what to print when the filtered list is empty.
func EmptyMessage(f state.Filter) string {
	switch f {
	case state.FilterActive:
		return "no active todos"
	case state.FilterCompleted:
		return "no completed todos yet"
	default:
		return "no todos yet"
	}
}

// Checkbox renders the completion flag.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// Status names the completion flag.
func Status(completed bool) string {
	if completed {
		return "completed"
	}
	return "active"
}

// RelativeTime renders ts relative to now, e.g. "3 minutes ago".
func RelativeTime(ts service.Timestamp, now time.Time) string {
	if ts.IsZero() {
		return "unknown"
	}
	return humanize.RelTime(ts.Time, now, "ago", "from now")
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
