// Package locale picks which content locale serves a reader.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// Negotiator matches requested languages against the available locales.
// The first available locale is the fallback.
type Negotiator struct {
	available []string
	matcher   language.Matcher
}

// NewNegotiator creates a negotiator. available[0] is the default.
// Entries that are not valid BCP 47 tags are dropped.
func NewNegotiator(available []string) *Negotiator {
	n := &Negotiator{}
	var tags []language.Tag
	for _, a := range available {
		t, err := language.Parse(a)
		if err != nil {
			continue
		}
		n.available = append(n.available, a)
		tags = append(tags, t)
	}
	if len(tags) > 0 {
		n.matcher = language.NewMatcher(tags)
	}
	return n
}

// Default returns the fallback locale, or "" with nothing available
func (n *Negotiator) Default() string {
	if len(n.available) == 0 {
		return ""
	}
	return n.available[0]
}

// Available locales, default first
func (n *Negotiator) Available() []string {
	return append([]string(nil), n.available...)
}

// Match returns the available locale closest to one tag, such as a ?lang=
// query parameter. Unknown or empty input yields the default.
func (n *Negotiator) Match(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" || n.matcher == nil {
		return n.Default()
	}
	t, err := language.Parse(tag)
	if err != nil {
		return n.Default()
	}
	return n.pick(t)
}

// FromAcceptLanguage negotiates an Accept-Language header value
func (n *Negotiator) FromAcceptLanguage(header string) string {
	if n.matcher == nil {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return n.Default()
	}
	return n.pick(tags...)
}

// FromEnv negotiates the POSIX locale variables, LC_ALL first
func (n *Negotiator) FromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := posixToBCP47(os.Getenv(key)); v != "" {
			return n.Match(v)
		}
	}
	return n.Default()
}

func (n *Negotiator) pick(tags ...language.Tag) string {
	_, index, conf := n.matcher.Match(tags...)
	if conf == language.No {
		return n.Default()
	}
	return n.available[index]
}

// posixToBCP47 turns "de_DE.UTF-8@euro" into "de-DE". C and POSIX mean no
// preference.
func posixToBCP47(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}
