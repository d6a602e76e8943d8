package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Modal       lipgloss.Style
	Prompt      lipgloss.Style
	Match       lipgloss.Style
	ResultTitle lipgloss.Style
	Link        lipgloss.Style
	Tag         lipgloss.Style
	Date        lipgloss.Style
	Empty       lipgloss.Style
	NoResults   lipgloss.Style
	Scroll      lipgloss.Style
	SelectionBg lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Help:        lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Match:       lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ResultTitle: lipgloss.NewStyle().Bold(true),
		Link:        lipgloss.NewStyle().Foreground(lipgloss.Color("33")), // blue
		Tag:         lipgloss.NewStyle().Foreground(lipgloss.Color("78")), // green
		Date:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Empty:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		NoResults:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
	}
}
