package ui

import "github.com/charmbracelet/lipgloss"

// Palette, in 256-color codes.
var (
	colorBrand = lipgloss.Color("99")
	colorDim   = lipgloss.Color("240")
	colorFaint = lipgloss.Color("245")
	colorText  = lipgloss.Color("252")
	colorOK    = lipgloss.Color("86")
	colorBad   = lipgloss.Color("196")
	colorTag   = lipgloss.Color("214")
)

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func plain(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// field is the boxed look shared by the form inputs.
func field(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border).Padding(0, 1)
}

var (
	appStyle    = lipgloss.NewStyle().Padding(1, 2)
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	titleStyle  = bold(colorBrand).Padding(0, 1)

	selectedStyle   = bold(colorOK)
	normalStyle     = plain(colorText)
	mutedStyle      = plain(colorFaint)
	cmdPreviewStyle = plain(colorFaint).Italic(true)

	outputTitleStyle = bold(colorDim)

	helpStyle    = plain(colorFaint)
	helpKeyStyle = bold(colorBrand)

	labelStyle        = bold(colorBrand)
	inputStyle        = field(colorDim)
	focusedInputStyle = field(colorBrand)
	lockedInputStyle  = field(colorDim).Foreground(colorFaint)

	tagStyle        = plain(colorTag)
	idStyle         = plain(colorDim)
	fieldLabelStyle = bold(colorBrand).Width(10)

	successStyle = bold(colorOK)
	warningStyle = bold(colorTag)
	errorStyle   = plain(colorBad)
)
