package content

import (
	"fmt"
	"path/filepath"
	"strings"

	"blogsearch/internal/domain"
)

// Extensions recognized as posts
var Extensions = []string{".md", ".mdx", ".markdown"}

// IsPostFile reports whether path has a post extension
func IsPostFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParsePost builds a PostRecord from a post file's bytes
func ParsePost(path string, data []byte, locale string) (domain.PostRecord, error) {
	fm, body, err := SplitFrontmatter(data)
	if err != nil {
		return domain.PostRecord{}, fmt.Errorf("%s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".mdx") {
		body = StripMDX(body)
	}
	plain, headings := Render(body)

	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		base := filepath.Base(path)
		slug = strings.TrimSuffix(base, filepath.Ext(base))
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" && len(headings) > 0 && headings[0].Level == 1 {
		title = headings[0].Text
	}
	if title == "" {
		title = slug
	}

	return domain.PostRecord{
		Metadata: domain.PostMetadata{
			Slug:        slug,
			Title:       title,
			Description: strings.TrimSpace(fm.Description),
			Author:      strings.TrimSpace(fm.Author),
			Date:        fm.Date.Time,
			Tags:        []string(fm.Tags),
			Locale:      locale,
			Draft:       fm.Draft,
		},
		PlainText: plain,
		Headings:  headings,
	}, nil
}
