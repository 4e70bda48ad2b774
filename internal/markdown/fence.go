package markdown

import (
	"bytes"
	"encoding/json"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// fenceMode selects how a dispatched fence renders.
type fenceMode int

const (
	modePlain   fenceMode = iota // line-numbered, highlighter-ready block
	modeChunk                    // interactive code-chunk container
	modeKroki                    // external rendering service image
	modeDiagram                  // client-side diagram container
)

var kindFence = ast.NewNodeKind("PreviewFence")

// fenceBlock replaces every fenced (and indented) code block so one
// renderer controls the output and data-line survives all dispatch modes.
type fenceBlock struct {
	ast.BaseBlock

	mode        fenceMode
	info        FenceInfo
	content     []byte
	line        string // data-line value, empty when unknown
	chunkID     string // modeChunk
	diagramKind string // modeDiagram: "source" or "json"
	krokiSrc    string // modeKroki: full image URL
}

func (b *fenceBlock) Kind() ast.NodeKind { return kindFence }

func (b *fenceBlock) Dump(source []byte, level int) {
	ast.DumpHelper(b, source, level, nil, nil)
}

// fenceExtension wires the dispatcher's renderer; the transformer is
// registered with the parser options in New so it runs after the
// source-line pass.
type fenceExtension struct {
	cfg Config
}

func (e *fenceExtension) Extend(md goldmark.Markdown) {
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&fenceRenderer{}, 500),
		),
	)
}

// fenceTransformer rewrites code blocks into fenceBlock nodes, choosing
// the mode by the dispatch order: cmd, code_block override, kroki,
// diagram table, plain.
type fenceTransformer struct {
	cfg Config
}

func (t *fenceTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	env := envFrom(pc)
	src := reader.Source()

	var blocks []ast.Node
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			blocks = append(blocks, node)
		}
		return ast.WalkContinue, nil
	})

	for _, old := range blocks {
		fb := t.dispatch(old, src, env)
		parent := old.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, old, fb)
	}
}

func (t *fenceTransformer) dispatch(old ast.Node, src []byte, env *Env) *fenceBlock {
	fb := &fenceBlock{content: rawContent(old, src)}

	if fc, ok := old.(*ast.FencedCodeBlock); ok && fc.Info != nil {
		fb.info = parseInfoString(string(fc.Info.Segment.Value(src)))
	} else {
		fb.info = FenceInfo{Attrs: map[string]string{}}
	}
	if v, ok := old.AttributeString("data-line"); ok {
		if b, ok := v.([]byte); ok {
			fb.line = string(b)
		}
	}

	a := fb.info.Attrs
	switch {
	case a["cmd"] != "" && a["cmd"] != "false":
		fb.mode = modeChunk
		fb.chunkID = a["id"]
		if fb.chunkID == "" {
			fb.chunkID = env.NextChunkID()
		}
	case a["code_block"] == "true" || a["cmd"] == "false":
		fb.mode = modePlain
	case a["kroki"] == "true" && t.cfg.KrokiLanguages[fb.info.Language]:
		fb.mode = modeKroki
		url, err := krokiURL(t.cfg.KrokiServer, fb.info.Language, string(fb.content))
		if err != nil {
			fb.mode = modePlain
			break
		}
		fb.krokiSrc = url
	default:
		if kind, ok := t.cfg.DiagramLanguages[fb.info.Language]; ok {
			fb.mode = modeDiagram
			fb.diagramKind = kind
			break
		}
		fb.mode = modePlain
	}

	return fb
}

// rawContent joins the source lines of a code block.
func rawContent(node ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.Bytes()
}

type fenceRenderer struct{}

func (r *fenceRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindFence, r.render)
}

func (r *fenceRenderer) render(w util.BufWriter, src []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	fb := node.(*fenceBlock)

	switch fb.mode {
	case modeChunk:
		r.renderChunk(w, fb)
	case modeKroki:
		r.renderKroki(w, fb)
	case modeDiagram:
		r.renderDiagram(w, fb)
	default:
		r.renderPlain(w, fb)
	}
	return ast.WalkSkipChildren, nil
}

// renderPlain emits the highlighter-ready form the post-processing step
// looks for: <pre data-role="codeBlock"><code class="language-X">.
func (r *fenceRenderer) renderPlain(w util.BufWriter, fb *fenceBlock) {
	_, _ = w.WriteString(`<pre data-role="codeBlock"`)
	writeAttr(w, "data-line", fb.line)
	if cls := fb.info.Attrs["class"]; cls != "" {
		writeAttr(w, "class", cls)
	}
	_, _ = w.WriteString(">")
	_, _ = w.WriteString("<code")
	if fb.info.Language != "" {
		writeAttr(w, "class", "language-"+fb.info.Language)
	}
	_, _ = w.WriteString(">")
	_, _ = w.WriteString(html.EscapeString(string(fb.content)))
	_, _ = w.WriteString("</code></pre>\n")
}

// renderChunk emits the interactive code-chunk container. Execution
// happens out of pipeline; everything the runner needs travels as
// data attributes.
func (r *fenceRenderer) renderChunk(w util.BufWriter, fb *fenceBlock) {
	a := fb.info.Attrs

	_, _ = w.WriteString(`<div class="code-chunk"`)
	writeAttr(w, "data-id", fb.chunkID)
	writeAttr(w, "data-cmd", a["cmd"])
	writeAttr(w, "data-lang", fb.info.Language)
	writeAttr(w, "data-line", fb.line)
	writeAttr(w, "data-args", a["args"])
	writeAttr(w, "data-output", a["output"])
	if meta, err := json.Marshal(a); err == nil {
		writeAttr(w, "data-attributes", string(meta))
	}
	_, _ = w.WriteString(">")

	if a["hide"] != "true" {
		_, _ = w.WriteString(`<pre data-role="codeBlock" class="line-numbers"><code`)
		if fb.info.Language != "" {
			writeAttr(w, "class", "language-"+fb.info.Language)
		}
		_, _ = w.WriteString(">")
		_, _ = w.WriteString(html.EscapeString(string(fb.content)))
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}

func (r *fenceRenderer) renderKroki(w util.BufWriter, fb *fenceBlock) {
	_, _ = w.WriteString(`<img class="kroki-diagram"`)
	writeAttr(w, "data-line", fb.line)
	writeAttr(w, "alt", fb.info.Language)
	writeAttr(w, "src", fb.krokiSrc)
	_, _ = w.WriteString(" />\n")
}

// renderDiagram emits a typed container for client-side rendering.
// JSON-spec engines carry their source in an embedded script tag so the
// client can parse it without HTML entity decoding.
func (r *fenceRenderer) renderDiagram(w util.BufWriter, fb *fenceBlock) {
	_, _ = w.WriteString(`<div class="mdp-diagram"`)
	writeAttr(w, "data-diagram", fb.info.Language)
	writeAttr(w, "data-line", fb.line)
	_, _ = w.WriteString(">")

	if fb.diagramKind == "json" {
		_, _ = w.WriteString(`<script type="application/json">`)
		_, _ = w.WriteString(strings.ReplaceAll(string(fb.content), "</script", `<\/script`))
		_, _ = w.WriteString("</script>")
	} else {
		_, _ = w.WriteString(html.EscapeString(string(fb.content)))
	}
	_, _ = w.WriteString("</div>\n")
}

func writeAttr(w util.BufWriter, name, value string) {
	if value == "" {
		return
	}
	_, _ = w.WriteString(" " + name + `="` + html.EscapeString(value) + `"`)
}
