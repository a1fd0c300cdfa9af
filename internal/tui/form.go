package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoctl/internal/service"
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
)

// cursorMode is applied to every input the package creates.
var cursorMode = cursor.CursorBlink

func newTitleInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursorMode)
	return ti
}

func newDescriptionInput(height int) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.SetHeight(height)
	ta.CharLimit = 1000
	ta.Cursor.SetMode(cursorMode)
	ta.Blur()
	return ta
}

// formAction tells the parent what a key press asked for.
type formAction int

const (
	actionNone formAction = iota
	actionSubmit
	actionCancel
)

// Form is the todo creation form. It owns the draft until a create succeeds.
type Form struct {
	title       textinput.Model
	description textarea.Model
	focus       field
	focused     bool
	submitting  bool
	keys        formKeys
}

// NewForm creates an empty form.
func NewForm() Form {
	title := newTitleInput()
	title.Placeholder = "What needs to be done?"

	desc := newDescriptionInput(3)
	desc.Placeholder = "Description (optional)"

	return Form{title: title, description: desc, keys: defaultFormKeys()}
}

// SetWidth resizes the inputs.
func (f *Form) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.title.Width = w - 4
	f.description.SetWidth(w - 2)
}

// Focus moves keyboard focus into the form, starting at the title.
func (f *Form) Focus() tea.Cmd {
	f.focused = true
	return f.focusField(fieldTitle)
}

// Blur releases keyboard focus.
func (f *Form) Blur() {
	f.focused = false
	f.title.Blur()
	f.description.Blur()
}

// Focused reports whether the form has keyboard focus.
func (f Form) Focused() bool { return f.focused }

// Submitting reports whether a create call is in flight.
func (f Form) Submitting() bool { return f.submitting }

// Draft returns the trimmed draft. It is not ok while the title is blank.
func (f Form) Draft() (service.TodoInput, bool) {
	in := service.TodoInput{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.description.Value()),
	}
	return in, in.Title != ""
}

// BeginSubmit validates the draft and marks the form as submitting.
// It refuses while another submission is in flight.
func (f *Form) BeginSubmit() (service.TodoInput, bool) {
	if f.submitting {
		return service.TodoInput{}, false
	}
	in, ok := f.Draft()
	if !ok {
		return service.TodoInput{}, false
	}
	f.submitting = true
	return in, true
}

// FinishSubmit ends a submission. The draft is cleared only on success.
func (f *Form) FinishSubmit(err error) {
	f.submitting = false
	if err != nil {
		return
	}
	f.title.Reset()
	f.description.Reset()
	if f.focused {
		f.focusField(fieldTitle)
	}
}

func (f *Form) focusField(fl field) tea.Cmd {
	f.focus = fl
	if fl == fieldTitle {
		f.description.Blur()
		return f.title.Focus()
	}
	f.title.Blur()
	return f.description.Focus()
}

// Update handles a key press while the form is focused.
func (f *Form) Update(msg tea.KeyMsg) (formAction, tea.Cmd) {
	switch {
	case key.Matches(msg, f.keys.Cancel):
		return actionCancel, nil
	case key.Matches(msg, f.keys.Save):
		return actionSubmit, nil
	case key.Matches(msg, f.keys.Submit) && f.focus == fieldTitle:
		return actionSubmit, nil
	case key.Matches(msg, f.keys.Next):
		if f.focus == fieldTitle {
			return actionNone, f.focusField(fieldDescription)
		}
		return actionNone, f.focusField(fieldTitle)
	}

	if f.submitting {
		return actionNone, nil
	}

	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.description, cmd = f.description.Update(msg)
	}
	return actionNone, cmd
}

// View renders the form.
func (f Form) View() string {
	var button string
	_, ok := f.Draft()
	switch {
	case f.submitting:
		button = mutedStyle.Render("Adding...")
	case !ok:
		button = mutedStyle.Render("[ Add todo ]")
	default:
		button = titleStyle.Render("[ Add todo ]")
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		f.title.View(),
		f.description.View(),
		button,
	)
	if f.focused {
		return formFocusBox.Render(body)
	}
	return formBoxStyle.Render(body)
}
