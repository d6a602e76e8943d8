package search

import "blogsearch/internal/config"

// DefaultExcerptWidth is the total excerpt window, in runes, around a match
const DefaultExcerptWidth = 80

// Options controls excerpt extraction and highlight markers
type Options struct {
	ExcerptWidth int
	Ellipsis     string
	MarkOpen     string
	MarkClose    string
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		ExcerptWidth: DefaultExcerptWidth,
		Ellipsis:     "...",
		MarkOpen:     "<mark>",
		MarkClose:    "</mark>",
	}
}

// OptionsFromConfig maps search settings onto Options
func OptionsFromConfig(s config.SearchSettings) Options {
	return Options{
		ExcerptWidth: s.ExcerptWidth,
		Ellipsis:     s.Ellipsis,
		MarkOpen:     s.MarkOpen,
		MarkClose:    s.MarkClose,
	}
}

func (o Options) wrap(s string) string {
	return o.MarkOpen + s + o.MarkClose
}
