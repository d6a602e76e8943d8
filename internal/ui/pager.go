package ui

import (
	"fmt"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"blogsearch/internal/anchor"
	"blogsearch/internal/domain"
)

// pagerRequest is a post to show, starting at one section
type pagerRequest struct {
	target string
	post   domain.PostRecord
	offset int // byte offset into post.PlainText where the page starts
}

// resolveTarget finds the post and section a /base/{slug}#{id} target names
func resolveTarget(posts []domain.PostRecord, target string) (pagerRequest, error) {
	p, id := anchor.Split(target)
	slug := path.Base(p)
	for _, post := range posts {
		if post.Metadata.Slug != slug {
			continue
		}
		req := pagerRequest{target: target, post: post}
		for _, h := range post.Headings {
			if h.ID == id {
				req.offset = h.Offset
				break
			}
		}
		return req, nil
	}
	return pagerRequest{}, fmt.Errorf("no post for %s", target)
}

// pagerContent renders the page: the deep link, the post header, then the
// body from the requested section onward
func pagerContent(req pagerRequest) string {
	meta := req.post.Metadata
	var b strings.Builder

	b.WriteString(req.target)
	b.WriteString("\n\n")
	b.WriteString(meta.Title)
	b.WriteString("\n")

	var info []string
	if !meta.Date.IsZero() {
		info = append(info, meta.Date.Format("2006-01-02"))
	}
	if meta.Author != "" {
		info = append(info, meta.Author)
	}
	if len(meta.Tags) > 0 {
		info = append(info, strings.Join(meta.Tags, ", "))
	}
	if len(info) > 0 {
		b.WriteString(strings.Join(info, " · "))
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", max(len(meta.Title), 20)))
	b.WriteString("\n\n")

	body := req.post.PlainText
	if req.offset > 0 && req.offset <= len(body) {
		body = body[req.offset:]
	}
	b.WriteString(body)
	b.WriteString("\n")
	return b.String()
}

// terminalPager runs ov on the terminal the program releases for it
type terminalPager struct {
	program *tea.Program
}

func (p *terminalPager) show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Do not write the page back to the terminal on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
