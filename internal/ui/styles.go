package ui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	Foreground lipgloss.Color
	Background lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Selected   lipgloss.Color
}

var lightPalette = palette{
	Foreground: lipgloss.Color("#2D3436"),
	Background: lipgloss.Color("#FFFFFF"),
	Primary:    lipgloss.Color("#6C5CE7"),
	Muted:      lipgloss.Color("#636E72"),
	Success:    lipgloss.Color("#00B894"),
	Error:      lipgloss.Color("#D63031"),
	Selected:   lipgloss.Color("#0984E3"),
}

var darkPalette = palette{
	Foreground: lipgloss.Color("#DFE6E9"),
	Background: lipgloss.Color("#2D3436"),
	Primary:    lipgloss.Color("#A29BFE"),
	Muted:      lipgloss.Color("#B2BEC3"),
	Success:    lipgloss.Color("#55EFC4"),
	Error:      lipgloss.Color("#FF7675"),
	Selected:   lipgloss.Color("#FFEAA7"),
}

// Styles is the set of lipgloss styles for one display mode.
type Styles struct {
	Dark bool

	App      lipgloss.Style
	Title    lipgloss.Style
	Bar      lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Due      lipgloss.Style
	Label    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func NewStyles(dark bool) Styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	return Styles{
		Dark:     dark,
		App:      lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Background).Padding(0, 1),
		Title:    lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Bar:      lipgloss.NewStyle().Foreground(p.Muted),
		Item:     lipgloss.NewStyle().Foreground(p.Foreground),
		Selected: lipgloss.NewStyle().Foreground(p.Selected).Bold(true),
		Done:     lipgloss.NewStyle().Foreground(p.Muted).Faint(true),
		Due:      lipgloss.NewStyle().Foreground(p.Muted),
		Label:    lipgloss.NewStyle().Foreground(p.Primary),
		Status:   lipgloss.NewStyle().Foreground(p.Success),
		Error:    lipgloss.NewStyle().Foreground(p.Error),
		Help:     lipgloss.NewStyle().Foreground(p.Muted),
	}
}
