package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdpreview/internal/slug"
)

var (
	decorationPattern = regexp.MustCompile(`\{[^{}\n]*\}`)
	customIDPattern   = regexp.MustCompile(`\{#([^}\s]+)\}`)
	ignorePattern     = regexp.MustCompile(`\{ignore=true\}`)
)

// headingIDTransformer assigns anchor ids to headings and records them on
// the render environment. Slug computation and duplicate numbering go
// through the same shared code as the standalone TOC scan, so the two
// always agree.
type headingIDTransformer struct{}

func (t *headingIDTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	env := envFrom(pc)
	src := reader.Source()
	idx := newLineIndex(src)
	dedup := slug.NewDeduper()

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		raw := headingText(heading, src)
		ignore := ignorePattern.MatchString(raw)
		explicit := ""
		if m := customIDPattern.FindStringSubmatch(raw); m != nil {
			explicit = m[1]
		}
		display := strings.TrimSpace(decorationPattern.ReplaceAllString(raw, ""))

		id := slug.ResolveID(dedup, display, explicit, env.InboundLinks)
		heading.SetAttributeString("id", []byte(id))

		stripDecorations(heading, src)

		line := -1
		if heading.Lines().Len() > 0 {
			line = idx.lineOf(heading.Lines().At(0).Start) + env.LineOffset
		}
		env.Headings = append(env.Headings, Heading{
			Level:  heading.Level,
			Text:   display,
			ID:     id,
			Line:   line,
			Ignore: ignore,
		})
		return ast.WalkSkipChildren, nil
	})
}

// headingText concatenates the raw source text of a heading's children.
func headingText(heading *ast.Heading, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(heading, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// stripDecorations removes {...} groups from the heading's rendered text
// nodes so decorations never reach the output. Only text nodes containing
// a brace group are rewritten; inline formatting elsewhere is untouched.
func stripDecorations(heading *ast.Heading, src []byte) {
	var dirty []*ast.Text
	_ = ast.Walk(heading, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			if strings.Contains(string(t.Segment.Value(src)), "{") {
				dirty = append(dirty, t)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, t := range dirty {
		cleaned := decorationPattern.ReplaceAllString(string(t.Segment.Value(src)), "")
		cleaned = strings.TrimRight(cleaned, " \t")
		parent := t.Parent()
		if parent == nil {
			continue
		}
		if cleaned == "" {
			parent.RemoveChild(parent, t)
			continue
		}
		parent.ReplaceChild(parent, t, ast.NewString([]byte(cleaned)))
	}
}
