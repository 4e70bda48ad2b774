package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Subscript/superscript inline syntax: ~text~ and ^text^, pandoc style.
// The span must close on the same line and cannot contain whitespace,
// which keeps "5 ~ 6 ~ 7" and GFM ~~strikethrough~~ unambiguous.

var (
	kindSubscript   = ast.NewNodeKind("Subscript")
	kindSuperscript = ast.NewNodeKind("Superscript")
)

type subSupNode struct {
	ast.BaseInline
	kind ast.NodeKind
}

func (n *subSupNode) Kind() ast.NodeKind { return n.kind }

func (n *subSupNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type subSupExtension struct{}

func (e *subSupExtension) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithInlineParsers(
			// ahead of GFM strikethrough, which also claims single
			// tildes; doubled delimiters are rejected below so
			// ~~...~~ still reaches it
			util.Prioritized(&subSupParser{trigger: '~', kind: kindSubscript}, 499),
			util.Prioritized(&subSupParser{trigger: '^', kind: kindSuperscript}, 500),
		),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&subSupRenderer{}, 600),
		),
	)
}

type subSupParser struct {
	trigger byte
	kind    ast.NodeKind
}

func (p *subSupParser) Trigger() []byte {
	return []byte{p.trigger}
}

func (p *subSupParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) < 3 || line[1] == p.trigger {
		return nil
	}

	end := -1
	for i := 1; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' {
			return nil
		}
		if c == p.trigger {
			end = i
			break
		}
	}
	if end <= 1 {
		return nil
	}

	node := &subSupNode{kind: p.kind}
	content := text.NewSegment(seg.Start+1, seg.Start+end)
	node.AppendChild(node, ast.NewTextSegment(content))
	block.Advance(end + 1)
	return node
}

type subSupRenderer struct{}

func (r *subSupRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindSubscript, r.renderTag("sub"))
	reg.Register(kindSuperscript, r.renderTag("sup"))
}

func (r *subSupRenderer) renderTag(tag string) renderer.NodeRendererFunc {
	return func(w util.BufWriter, src []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			_, _ = w.WriteString("<" + tag + ">")
		} else {
			_, _ = w.WriteString("</" + tag + ">")
		}
		return ast.WalkContinue, nil
	}
}
