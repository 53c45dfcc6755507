package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

type helpKey struct{ key, desc string }

var normalKeys = []helpKey{
	{"enter", "run"},
	{"a", "add"},
	{"e", "edit"},
	{"d", "delete"},
	{"q", "quit"},
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteString("\n")
	}

	line(titleStyle.Render("cmdref") + mutedStyle.Render(fmt.Sprintf(" %d listings", len(a.all))))
	line("")
	line(a.search.View())
	line("")

	switch a.mode {
	case modeAdd, modeEdit:
		b.WriteString(a.form.view(a.width))
	default:
		b.WriteString(a.listView(max((a.height-a.pane.Height-10)/2, 3)))
	}

	switch {
	case a.mode == modeDelete && a.selected() != nil:
		line("")
		line(warningStyle.Render(fmt.Sprintf("Delete '%s'? (y/n)", truncate(a.selected().Command(), 40))))
	case a.mode == modeParam:
		line("")
		line(labelStyle.Render(fmt.Sprintf("Enter value for {{%s}}: ", a.prompt.current())) + a.prompt.input.View())
	}

	line("")
	line(outputTitleStyle.Render("OUTPUT"))
	line(borderStyle.Width(a.width - 4).Render(a.pane.View()))

	if a.err != "" {
		line(errorStyle.Render("Error: " + a.err))
	}
	if a.status != "" {
		line(successStyle.Render(a.status))
	}
	b.WriteString(a.helpView())

	return appStyle.Render(b.String())
}

// listView shows height listings, two lines each, scrolled to keep the cursor
// on screen.
func (a *App) listView(height int) string {
	if len(a.visible) == 0 {
		return mutedStyle.Render("No listings found. Press 'a' to add one.\n")
	}

	first := max(a.cursor-height+1, 0)
	last := min(first+height, len(a.visible))
	width := a.width - 20

	var rows []string
	for i, l := range a.visible[first:last] {
		marker, style := "  ", normalStyle
		if first+i == a.cursor {
			marker, style = "▸ ", selectedStyle
		}
		rows = append(rows,
			style.Render(marker+truncate(l.Command(), width))+" "+RenderTags(l.Tags()),
			cmdPreviewStyle.Render("  "+ShortID(l.HashID())+"  "+truncate(l.Description(), width)),
		)
	}
	return strings.Join(rows, "\n") + "\n"
}

func (a *App) helpView() string {
	if a.mode != modeNormal {
		return ""
	}
	keys := normalKeys
	if a.running() {
		keys = append(keys[:len(keys):len(keys)], helpKey{"ctrl+x", "stop"})
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+helpStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}

// truncate shortens s to at most n terminal cells, marking the cut with "...".
func truncate(s string, n int) string {
	return runewidth.Truncate(s, max(n, 4), "...")
}
