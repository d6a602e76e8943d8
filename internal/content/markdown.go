package content

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"

	"blogsearch/internal/domain"
)

var (
	// MDX module lines at the top level of a document
	mdxModulePattern = regexp.MustCompile(`^(import|export)\s`)

	// JSX component tags: <Callout type="x">, </Callout>, <Chart data={d} />
	mdxTagPattern = regexp.MustCompile(`</?[A-Z][A-Za-z0-9.]*(\s[^<>]*)?/?>`)

	fencePattern = regexp.MustCompile("^\\s*(```|~~~)")
)

var markdown = goldmark.New(
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
	),
)

// StripMDX removes MDX import/export lines and JSX component tags outside
// fenced code blocks. Text between component tags is kept.
func StripMDX(src []byte) []byte {
	lines := bytes.Split(src, []byte("\n"))
	out := make([][]byte, 0, len(lines))
	inFence := false

	for _, line := range lines {
		if fencePattern.Match(line) {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		if mdxModulePattern.Match(line) {
			continue
		}
		out = append(out, mdxTagPattern.ReplaceAll(line, nil))
	}
	return bytes.Join(out, []byte("\n"))
}

// Render converts a Markdown body to plain text and its heading list.
// Each heading's Offset is the byte index in the returned text where the
// heading's own text starts.
func Render(src []byte) (string, []domain.HeadingEntry) {
	doc := markdown.Parser().Parse(text.NewReader(src))

	r := &plainRenderer{src: src}
	_ = ast.Walk(doc, r.walk)
	return strings.TrimRight(r.buf.String(), "\n "), r.headings
}

type plainRenderer struct {
	src      []byte
	buf      strings.Builder
	headings []domain.HeadingEntry
	heading  *domain.HeadingEntry
}

func (r *plainRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.blockBreak()
			r.heading = &domain.HeadingEntry{
				ID:     headingID(node),
				Level:  node.Level,
				Offset: r.buf.Len(),
			}
		} else if r.heading != nil {
			r.heading.Text = strings.TrimSpace(r.buf.String()[r.heading.Offset:])
			r.headings = append(r.headings, *r.heading)
			r.heading = nil
		}

	case *ast.Paragraph, *ast.TextBlock, *ast.ListItem, *ast.Blockquote, *ast.ThematicBreak:
		if entering {
			r.blockBreak()
		}

	case *ast.Text:
		if entering {
			r.buf.Write(node.Segment.Value(r.src))
			switch {
			case node.HardLineBreak():
				r.buf.WriteByte('\n')
			case node.SoftLineBreak():
				r.buf.WriteByte(' ')
			}
		}

	case *ast.String:
		if entering {
			r.buf.Write(node.Value)
		}

	case *ast.AutoLink:
		if entering {
			r.buf.Write(node.Label(r.src))
		}

	case *ast.Image:
		// alt text is not part of the readable body
		return ast.WalkSkipChildren, nil

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			r.blockBreak()
			r.writeLines(n)
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		if entering {
			var raw bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				raw.Write(seg.Value(r.src))
			}
			if node.HasClosure() {
				raw.Write(node.ClosureLine.Value(r.src))
			}
			if t := htmlText(raw.Bytes()); t != "" {
				r.blockBreak()
				r.buf.WriteString(t)
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			var raw bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				raw.Write(seg.Value(r.src))
			}
			r.buf.WriteString(htmlText(raw.Bytes()))
		}
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (r *plainRenderer) writeLines(n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		r.buf.Write(seg.Value(r.src))
	}
}

// blockBreak starts a new line unless the buffer is empty or already at one
func (r *plainRenderer) blockBreak() {
	s := r.buf.String()
	if s == "" || strings.HasSuffix(s, "\n") {
		return
	}
	r.buf.WriteByte('\n')
}

func headingID(n *ast.Heading) string {
	v, ok := n.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// htmlText returns the visible text of an HTML fragment with whitespace
// collapsed. Script and style bodies are dropped.
func htmlText(raw []byte) string {
	z := html.NewTokenizer(bytes.NewReader(raw))
	var parts []string
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		case html.StartTagToken:
			if name, _ := z.TagName(); isHiddenTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isHiddenTag(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				parts = append(parts, string(z.Text()))
			}
		}
	}
}

func isHiddenTag(name []byte) bool {
	switch string(name) {
	case "script", "style", "template":
		return true
	}
	return false
}
