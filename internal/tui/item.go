package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todoctl/internal/output"
	"todoctl/internal/service"
)

// Item holds the transient UI state of one todo row.
// The record itself always comes from the store.
type Item struct {
	id         int64
	editing    bool
	updating   bool
	confirming bool

	title       textinput.Model
	description textarea.Model
	focus       field
	keys        formKeys
}

// NewItem creates the row state for the todo with the given ID.
func NewItem(id int64) *Item {
	return &Item{
		id:          id,
		title:       newTitleInput(),
		description: newDescriptionInput(2),
		keys:        defaultFormKeys(),
	}
}

// Editing reports whether the row is in edit mode.
func (it *Item) Editing() bool { return it.editing }

// Updating reports whether an update call for the row is in flight.
func (it *Item) Updating() bool { return it.updating }

// Confirming reports whether the row is asking to confirm a delete.
func (it *Item) Confirming() bool { return it.confirming }

// SetWidth resizes the edit inputs.
func (it *Item) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	it.title.Width = w - 8
	it.description.SetWidth(w - 6)
}

// StartEdit enters edit mode with drafts seeded from t.
func (it *Item) StartEdit(t service.Todo) tea.Cmd {
	if it.updating {
		return nil
	}
	it.editing = true
	it.confirming = false
	it.seed(t)
	return it.focusField(fieldTitle)
}

// CancelEdit drops the drafts and leaves edit mode without a server call.
func (it *Item) CancelEdit(t service.Todo) {
	it.seed(t)
	it.editing = false
	it.title.Blur()
	it.description.Blur()
}

func (it *Item) seed(t service.Todo) {
	it.title.SetValue(t.Title)
	it.title.CursorEnd()
	it.description.SetValue(t.Description)
}

// ToggleRecord returns t with Completed flipped.
// It is not ok while the row is updating or editing.
func (it *Item) ToggleRecord(t service.Todo) (service.Todo, bool) {
	if it.updating || it.editing {
		return service.Todo{}, false
	}
	t.Completed = !t.Completed
	return t, true
}

// SaveRecord returns t with title and description replaced by the trimmed drafts.
// It is not ok while the trimmed title is blank or an update is in flight.
func (it *Item) SaveRecord(t service.Todo) (service.Todo, bool) {
	if it.updating {
		return service.Todo{}, false
	}
	title := strings.TrimSpace(it.title.Value())
	if title == "" {
		return service.Todo{}, false
	}
	t.Title = title
	t.Description = strings.TrimSpace(it.description.Value())
	return t, true
}

// BeginUpdate marks an update call as in flight.
func (it *Item) BeginUpdate() {
	it.updating = true
}

// FinishUpdate ends an update call. A successful save leaves edit mode;
// a failed one keeps the drafts for another try.
func (it *Item) FinishUpdate(err error, save bool) {
	it.updating = false
	if save && err == nil {
		it.editing = false
		it.title.Blur()
		it.description.Blur()
	}
}

// AskDelete starts the delete confirmation.
func (it *Item) AskDelete() bool {
	if it.updating || it.editing {
		return false
	}
	it.confirming = true
	return true
}

// ResolveDelete ends the confirmation and reports whether it was accepted.
func (it *Item) ResolveDelete(accept bool) bool {
	if !it.confirming {
		return false
	}
	it.confirming = false
	return accept
}

func (it *Item) focusField(fl field) tea.Cmd {
	it.focus = fl
	if fl == fieldTitle {
		it.description.Blur()
		return it.title.Focus()
	}
	it.title.Blur()
	return it.description.Focus()
}

// Update handles a key press while the row is in edit mode.
func (it *Item) Update(msg tea.KeyMsg) (formAction, tea.Cmd) {
	switch {
	case key.Matches(msg, it.keys.Cancel):
		if it.updating {
			return actionNone, nil
		}
		return actionCancel, nil
	case key.Matches(msg, it.keys.Save):
		return actionSubmit, nil
	case key.Matches(msg, it.keys.Submit) && it.focus == fieldTitle:
		return actionSubmit, nil
	case key.Matches(msg, it.keys.Next):
		if it.focus == fieldTitle {
			return actionNone, it.focusField(fieldDescription)
		}
		return actionNone, it.focusField(fieldTitle)
	}

	if it.updating {
		return actionNone, nil
	}

	var cmd tea.Cmd
	if it.focus == fieldTitle {
		it.title, cmd = it.title.Update(msg)
	} else {
		it.description, cmd = it.description.Update(msg)
	}
	return actionNone, cmd
}

// View renders the row for t.
func (it *Item) View(t service.Todo, selected bool, now time.Time) string {
	var b strings.Builder

	check := output.Checkbox(t.Completed)
	if t.Completed {
		check = checkDoneStyle.Render(check)
	}

	if it.editing {
		b.WriteString(check + " " + it.title.View() + "\n")
		b.WriteString(it.description.View() + "\n")
		switch {
		case it.updating:
			b.WriteString(mutedStyle.Render("Saving..."))
		case strings.TrimSpace(it.title.Value()) == "":
			b.WriteString(errorStyle.Render("Title is required") + mutedStyle.Render("  esc cancel"))
		default:
			b.WriteString(mutedStyle.Render("enter/ctrl+s save  tab switch field  esc cancel"))
		}
		return it.frame(b.String(), selected)
	}

	plain := output.NormalizeTitle(t.Title)
	title := plain
	if t.Completed {
		title = itemDoneTitle.Render(title)
	}
	b.WriteString(check + " " + title)
	if it.updating {
		b.WriteString(mutedStyle.Render("  updating..."))
	}
	if t.Description != "" {
		b.WriteString("\n    " + t.Description)
	}

	meta := "created " + output.RelativeTime(t.CreatedAt, now)
	if t.Edited() {
		meta += " · updated " + output.RelativeTime(t.UpdatedAt, now)
	}
	b.WriteString("\n    " + mutedStyle.Render(meta))

	if it.confirming {
		b.WriteString("\n    " + confirmStyle.Render(fmt.Sprintf("Delete %q? (y/n)", plain)))
	}
	return it.frame(b.String(), selected)
}

func (it *Item) frame(s string, selected bool) string {
	if selected {
		return itemSelectedStyle.Render(s)
	}
	return itemStyle.Render(s)
}
