package ui

import (
	"context"
	"strings"

	"cmdref/model"
	"cmdref/runner"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// paramPrompt collects a value for each {{param}} of a listing, one at a time.
type paramPrompt struct {
	listing *model.Listing
	names   []string
	values  map[string]string
	index   int
	input   textinput.Model
}

func newParamPrompt(l *model.Listing, names []string) *paramPrompt {
	p := &paramPrompt{
		listing: l,
		names:   names,
		values:  make(map[string]string, len(names)),
		input:   textinput.New(),
	}
	p.input.Placeholder = names[0]
	p.input.Focus()
	return p
}

func (p *paramPrompt) current() string { return p.names[p.index] }

// accept stores the typed value and reports whether every param has one.
func (p *paramPrompt) accept() bool {
	p.values[p.current()] = p.input.Value()
	p.index++
	if p.index == len(p.names) {
		return true
	}
	p.input.SetValue("")
	p.input.Placeholder = p.current()
	return false
}

// session is one running command.
type session struct {
	out    chan runner.OutputMsg
	cancel context.CancelFunc
}

type outputMsg runner.OutputMsg

func (a *App) running() bool { return a.run != nil }

// startListing prompts for params when the command has any, otherwise runs it.
func (a *App) startListing(l *model.Listing) tea.Cmd {
	names := runner.ExtractParams(l.Command())
	if len(names) == 0 {
		return a.execute(l.Command())
	}
	a.mode = modeParam
	a.prompt = newParamPrompt(l, names)
	return nil
}

func (a *App) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		a.backToList()
		return nil
	case "enter":
		if !a.prompt.accept() {
			return nil
		}
		p := a.prompt
		return a.execute(runner.SubstituteParams(p.listing.Command(), p.values))
	}
	var cmd tea.Cmd
	a.prompt.input, cmd = a.prompt.input.Update(msg)
	return cmd
}

func (a *App) execute(command string) tea.Cmd {
	a.mode = modeNormal
	a.search.Focus()

	ctx, cancel := context.WithCancel(context.Background())
	a.run = &session{out: make(chan runner.OutputMsg), cancel: cancel}
	a.setOutput(cmdPreviewStyle.Render("$ "+command), "")
	go runner.Run(ctx, a.shell, command, a.run.out)

	return a.run.next()
}

func (s *session) next() tea.Cmd {
	ch := s.out
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return outputMsg{Done: true}
		}
		return outputMsg(msg)
	}
}

func (a *App) handleOutput(msg outputMsg) tea.Cmd {
	if !a.running() {
		return nil
	}
	if msg.Done {
		a.stopRun()
		if msg.ErrMsg != "" {
			a.appendOutput(errorStyle.Render("Error: " + msg.ErrMsg))
		}
		return nil
	}
	line := msg.Line
	if msg.IsErr {
		line = errorStyle.Render(line)
	}
	a.appendOutput(line)
	return a.run.next()
}

func (a *App) stopRun() {
	if a.run != nil {
		a.run.cancel()
		a.run = nil
	}
}

func (a *App) setOutput(lines ...string) {
	a.lines = lines
	a.refreshPane()
}

func (a *App) appendOutput(line string) {
	a.lines = append(a.lines, line)
	a.refreshPane()
}

func (a *App) refreshPane() {
	a.pane.SetContent(strings.Join(a.lines, "\n"))
	a.pane.GotoBottom()
}
