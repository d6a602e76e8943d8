package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"blogsearch/internal/anchor"
)

// helpTarget labels the help page in pager errors
const helpTarget = "help"

// helpContent renders the full key reference shown in the pager
func helpContent(home homeKeys, search searchKeys, basePath string) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	noteStyle := lipgloss.NewStyle().
		Italic(true).
		Foreground(lipgloss.Color("241"))

	var b strings.Builder
	section := func(name string, groups [][]key.Binding) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, group := range groups {
			for _, k := range group {
				h := k.Help()
				if h.Key == "" {
					continue
				}
				b.WriteString("  ")
				b.WriteString(keyStyle.Render(h.Key))
				b.WriteString(descStyle.Render(h.Desc))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("blogsearch help"))
	b.WriteString("\n")

	section("Browsing", home.FullHelp())
	section("Search", search.FullHelp())

	b.WriteString(noteStyle.Render("  Titles and bodies are matched case-insensitively, as typed."))
	b.WriteString("\n")
	b.WriteString(noteStyle.Render("  Opening a result jumps to " + anchor.PostPath(basePath, "{slug}") + "#{section}."))
	b.WriteString("\n")

	return b.String()
}
