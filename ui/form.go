package ui

import (
	"strings"

	"cmdref/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldCommand = iota
	fieldDescription
	fieldTags
	fieldCount
)

var fieldLabels = [fieldCount]string{"Command", "Description", "Tags"}

// listingForm edits the three user-supplied fields of a listing. When editing
// an existing listing the command is its identity and stays locked.
type listingForm struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	editing *model.Listing
}

func newListingForm(l *model.Listing) *listingForm {
	f := &listingForm{editing: l}
	placeholders := [fieldCount]string{
		"Command (use {{param}} for dynamic values)",
		"Description",
		"Tags (space separated)",
	}
	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].Placeholder = placeholders[i]
	}
	if l != nil {
		f.inputs[fieldCommand].SetValue(l.Command())
		f.inputs[fieldDescription].SetValue(l.Description())
		f.inputs[fieldTags].SetValue(strings.Join(l.Tags(), " "))
		f.focus = fieldDescription
	}
	return f
}

func (f *listingForm) locked(field int) bool {
	return f.editing != nil && field == fieldCommand
}

// move shifts focus by step, wrapping around and skipping locked fields.
func (f *listingForm) move(step int) tea.Cmd {
	next := f.focus
	for {
		next = (next + step + fieldCount) % fieldCount
		if !f.locked(next) {
			break
		}
	}
	f.focus = next
	return f.focusCurrent()
}

func (f *listingForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *listingForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// values returns the command as typed, the trimmed description and the
// whitespace-separated tags.
func (f *listingForm) values() (command, desc string, tags []string) {
	return f.inputs[fieldCommand].Value(),
		strings.TrimSpace(f.inputs[fieldDescription].Value()),
		strings.Fields(f.inputs[fieldTags].Value())
}

func (f *listingForm) view(width int) string {
	var b strings.Builder

	title := "Add Listing"
	if f.editing != nil {
		title = "Edit Listing"
	}
	b.WriteString(labelStyle.Render(title) + "\n\n")

	for i, input := range f.inputs {
		box := inputStyle
		switch {
		case i == f.focus:
			box = focusedInputStyle
		case f.locked(i):
			box = lockedInputStyle
		}
		b.WriteString(labelStyle.Render(fieldLabels[i]+": ") + box.Width(width-20).Render(input.View()) + "\n\n")
	}

	b.WriteString(helpStyle.Render("tab: next field • enter: save • esc: cancel") + "\n")
	return b.String()
}
