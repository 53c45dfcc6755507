package ui

import (
	"fmt"
	"strings"
	"time"

	"cmdref/model"
	"cmdref/store"
)

// ShortIDLen is how much of a hash id the listings show.
const ShortIDLen = 12

func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

func RenderTags(tags []string) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = tagStyle.Render("#" + t)
	}
	return strings.Join(parts, " ")
}

// RenderListing is the detail view used by `get`.
func RenderListing(l *model.Listing) string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render(l.Command()))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(len(l.Command()), 20), 70)))
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(fieldLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}
	row("ID", idStyle.Render(l.HashID()))
	row("About", l.Description())
	if tags := l.Tags(); len(tags) > 0 {
		row("Tags", RenderTags(tags))
	}
	row("Created", l.CreationDate().Format(time.RFC3339))
	row("Updated", l.LastUpdated().Format(time.RFC3339))
	return b.String()
}

// RenderList is the compact view used by `list` and `search`.
func RenderList(ls []*model.Listing) string {
	if len(ls) == 0 {
		return mutedStyle.Render("No listings found.") + "\n"
	}

	var b strings.Builder
	for _, l := range ls {
		b.WriteString(idStyle.Render(ShortID(l.HashID())))
		b.WriteString("  ")
		b.WriteString(normalStyle.Render(l.Command()))
		if tags := l.Tags(); len(tags) > 0 {
			b.WriteString("  ")
			b.WriteString(RenderTags(tags))
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", ShortIDLen+2))
		b.WriteString(cmdPreviewStyle.Render(l.Description()))
		b.WriteString("\n")
	}
	return b.String()
}

func RenderTagCounts(tags []store.TagCount) string {
	if len(tags) == 0 {
		return mutedStyle.Render("No tags.") + "\n"
	}
	var b strings.Builder
	for _, t := range tags {
		fmt.Fprintf(&b, "%s %s\n", tagStyle.Render("#"+t.Name), mutedStyle.Render(fmt.Sprintf("(%d)", t.Count)))
	}
	return b.String()
}

func RenderStatus(msg string) string { return successStyle.Render(msg) }

func RenderError(msg string) string { return errorStyle.Render("Error: " + msg) }

// Prompt styles a question asked on the terminal.
func Prompt(label string) string { return labelStyle.Render(label + ": ") }
