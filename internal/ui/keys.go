package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"blogsearch/internal/domain"
)

// homeKeys are active while the search modal is closed
type homeKeys struct {
	Open key.Binding
	Up   key.Binding
	Down key.Binding
	Read key.Binding
	Help key.Binding
	Quit key.Binding
}

func newHomeKeys(openKeys []string) homeKeys {
	if len(openKeys) == 0 {
		openKeys = []string{"/", "ctrl+k"}
	}
	return homeKeys{
		Open: key.NewBinding(key.WithKeys(openKeys...), key.WithHelp(openKeys[0], "search")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Read: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k homeKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Up, k.Down, k.Read, k.Help, k.Quit}
}

func (k homeKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Open, k.Up, k.Down, k.Read}, {k.Help, k.Quit}}
}

// searchKeys are active inside the modal. Everything else goes to the
// query field.
type searchKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
	Quit   key.Binding
}

func newSearchKeys() searchKeys {
	return searchKeys{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Close}
}

func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

// sessionKey maps a terminal key to the session's navigation keys
func (k searchKeys) sessionKey(msg tea.KeyMsg) (domain.Key, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return domain.KeyArrowUp, true
	case key.Matches(msg, k.Down):
		return domain.KeyArrowDown, true
	case key.Matches(msg, k.Select):
		return domain.KeyEnter, true
	case key.Matches(msg, k.Close):
		return domain.KeyEscape, true
	}
	return "", false
}
