package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// viewport is a scrolling window of rows
type viewport struct {
	offset int // first visible row
	height int // visible rows
}

// ScrollIntoView moves the window the smallest distance that shows index
func (v *viewport) ScrollIntoView(index int) {
	if v.height <= 0 {
		return
	}
	if index < v.offset {
		v.offset = index
	} else if index >= v.offset+v.height {
		v.offset = index - v.height + 1
	}
}

// visible returns the half-open row range shown for n rows
func (v *viewport) visible(n int) (int, int) {
	h := max(v.height, 1)
	if v.offset > max(0, n-h) {
		v.offset = max(0, n-h)
	}
	return v.offset, min(n, v.offset+h)
}

// modal is the session's surface: the query field plus the result window
type modal struct {
	viewport
	input *textinput.Model
}

func (s *modal) Focus() {
	s.input.Focus()
}

func (s *modal) reset() {
	s.offset = 0
	s.input.Reset()
}

// renderMarked styles the spans between open and close marks. Unbalanced
// marks are left as text.
func renderMarked(s, open, close string, style func(string) string) string {
	if open == "" || close == "" {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, open)
		if i < 0 {
			break
		}
		rest := s[i+len(open):]
		j := strings.Index(rest, close)
		if j < 0 {
			break
		}
		b.WriteString(s[:i])
		b.WriteString(style(rest[:j]))
		s = rest[j+len(close):]
	}
	b.WriteString(s)
	return b.String()
}
