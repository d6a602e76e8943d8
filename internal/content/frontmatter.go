package content

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Matches a leading --- fenced YAML block
var frontmatterPattern = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---[ \t]*(?:\r?\n|\z)`)

// Frontmatter is the YAML header of a post
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Author      string   `yaml:"author"`
	Date        postDate `yaml:"date"`
	Tags        tagList  `yaml:"tags"`
	Slug        string   `yaml:"slug"`
	Draft       bool     `yaml:"draft"`
}

// SplitFrontmatter separates the YAML header from the body.
// A file without a header yields an empty Frontmatter.
func SplitFrontmatter(data []byte) (Frontmatter, []byte, error) {
	var fm Frontmatter

	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	loc := frontmatterPattern.FindSubmatchIndex(data)
	if loc == nil {
		return fm, data, nil
	}

	if err := yaml.Unmarshal(data[loc[2]:loc[3]], &fm); err != nil {
		return fm, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return fm, data[loc[1]:], nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// postDate accepts the date spellings found in blog frontmatter
type postDate struct {
	time.Time
}

func (d *postDate) UnmarshalYAML(value *yaml.Node) error {
	raw := strings.TrimSpace(value.Value)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("line %d: unrecognized date %q", value.Line, raw)
}

// tagList accepts either a YAML sequence or a comma separated string
type tagList []string

func (t *tagList) UnmarshalYAML(value *yaml.Node) error {
	var tags []string
	switch value.Kind {
	case yaml.SequenceNode:
		if err := value.Decode(&tags); err != nil {
			return err
		}
	case yaml.ScalarNode:
		tags = strings.Split(value.Value, ",")
	default:
		return fmt.Errorf("line %d: tags must be a list or a string", value.Line)
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	*t = out
	return nil
}
