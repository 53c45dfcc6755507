// Package ui holds the terminal browser and the lipgloss renderers shared with
// the command line.
package ui

import (
	"errors"

	"cmdref/model"
	"cmdref/store"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeNormal mode = iota
	modeAdd
	modeEdit
	modeDelete
	modeParam
)

// App is the bubbletea model of the browser. All changes go through the
// store, so the file on disk follows every edit.
type App struct {
	store *store.Store
	shell string

	all     []*model.Listing
	visible []*model.Listing
	cursor  int

	mode   mode
	width  int
	height int
	err    string
	status string

	search textinput.Model
	form   *listingForm
	prompt *paramPrompt

	pane  viewport.Model
	lines []string
	run   *session
}

// NewApp builds the browser over s. Commands run through shell.
func NewApp(s *store.Store, shell string) *App {
	search := textinput.New()
	search.Placeholder = "Search listings..."
	search.Focus()

	a := &App{
		store:  s,
		shell:  shell,
		search: search,
		pane:   viewport.New(80, 10),
	}
	a.reload()
	return a
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// appStyle pads by two cells on each side and one line top and bottom.
		a.width, a.height = msg.Width-4, msg.Height-2
		a.pane.Width = a.width - 4
		a.pane.Height = a.height / 3
		return a, nil

	case outputMsg:
		return a, a.handleOutput(msg)

	case tea.KeyMsg:
		a.err, a.status = "", ""
		switch a.mode {
		case modeAdd, modeEdit:
			return a, a.updateForm(msg)
		case modeDelete:
			a.updateDelete(msg)
			return a, nil
		case modeParam:
			return a, a.updatePrompt(msg)
		default:
			return a, a.updateNormal(msg)
		}
	}
	return a, nil
}

func (a *App) selected() *model.Listing {
	if len(a.visible) == 0 {
		return nil
	}
	return a.visible[a.cursor]
}

func (a *App) updateNormal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "q":
		a.stopRun()
		return tea.Quit
	case "up", "k":
		a.cursor = max(a.cursor-1, 0)
	case "down", "j":
		a.cursor = max(min(a.cursor+1, len(a.visible)-1), 0)
	case "enter":
		if l := a.selected(); l != nil && !a.running() {
			return a.startListing(l)
		}
	case "ctrl+x":
		if a.running() {
			a.run.cancel()
			a.status = "Stopping..."
		}
	case "a":
		a.mode = modeAdd
		a.form = newListingForm(nil)
		return a.form.focusCurrent()
	case "e":
		if l := a.selected(); l != nil {
			a.mode = modeEdit
			a.form = newListingForm(l.Clone())
			return a.form.focusCurrent()
		}
	case "d":
		if a.selected() != nil {
			a.mode = modeDelete
		}
	case "esc":
		a.search.SetValue("")
		a.applyFilter()
	default:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.applyFilter()
		return cmd
	}
	return nil
}

func (a *App) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		a.backToList()
		return nil
	case "tab", "down":
		return a.form.move(1)
	case "shift+tab", "up":
		return a.form.move(-1)
	case "enter":
		a.submitForm()
		return nil
	}
	return a.form.update(msg)
}

func (a *App) submitForm() {
	command, desc, tags := a.form.values()

	if a.form.editing == nil {
		l, err := model.NewListing(command, desc, tags)
		if err != nil {
			a.err = err.Error()
			return
		}
		if err := a.store.Add(l); err != nil {
			if errors.Is(err, store.ErrConflict) {
				a.err = "A listing with this exact command already exists"
			} else {
				a.err = err.Error()
			}
			return
		}
		a.status = "Added!"
	} else {
		l := a.form.editing
		if err := l.SetDescription(desc); err != nil {
			a.err = err.Error()
			return
		}
		l.SetTags(tags)
		if err := a.store.Update(l); err != nil {
			a.err = err.Error()
			return
		}
		a.status = "Updated!"
	}

	a.reload()
	a.backToList()
}

func (a *App) updateDelete(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "Y":
		if l := a.selected(); l != nil {
			if err := a.store.Delete(l.HashID()); err != nil {
				a.err = err.Error()
			} else {
				a.status = "Deleted!"
				a.reload()
			}
		}
		a.mode = modeNormal
	case "n", "N", "esc":
		a.mode = modeNormal
	}
}

func (a *App) backToList() {
	a.mode = modeNormal
	a.form = nil
	a.prompt = nil
	a.search.Focus()
}

// reload re-reads the store and re-applies the current filter.
func (a *App) reload() {
	a.all = a.store.List()
	a.applyFilter()
}

func (a *App) applyFilter() {
	if q := a.search.Value(); q != "" {
		a.visible = store.Filter(a.all, q)
	} else {
		a.visible = a.all
	}
	a.cursor = max(min(a.cursor, len(a.visible)-1), 0)
}
