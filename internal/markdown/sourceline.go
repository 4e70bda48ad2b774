package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// sourceLineTransformer annotates every block-opening node that has a
// known source span with data-line = first source line + front-matter
// offset. The host's scroll synchronization consumes these attributes.
type sourceLineTransformer struct{}

func (t *sourceLineTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	env := envFrom(pc)
	src := reader.Source()
	idx := newLineIndex(src)

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		line, ok := nodeLine(node, idx)
		if !ok {
			return ast.WalkContinue, nil
		}
		node.SetAttributeString("data-line", []byte(strconv.Itoa(line+env.LineOffset)))
		return ast.WalkContinue, nil
	})
}

// nodeLine finds the 0-indexed source line a block node starts on.
// Fenced code blocks report their opening fence line, one above the
// first content line. Containers fall back to their first descendant
// with a known span.
func nodeLine(node ast.Node, idx lineIndex) (int, bool) {
	if fc, ok := node.(*ast.FencedCodeBlock); ok {
		if fc.Info != nil {
			return idx.lineOf(fc.Info.Segment.Start), true
		}
		if fc.Lines().Len() > 0 {
			line := idx.lineOf(fc.Lines().At(0).Start)
			if line > 0 {
				return line - 1, true
			}
			return line, true
		}
		return 0, false
	}

	if node.Lines().Len() > 0 {
		return idx.lineOf(node.Lines().At(0).Start), true
	}

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if line, ok := nodeLine(child, idx); ok {
			return line, ok
		}
	}
	return 0, false
}
