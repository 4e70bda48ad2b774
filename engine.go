package mdpreview

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-mdpreview/internal/fileutil"
	"github.com/alnah/go-mdpreview/internal/frontmatter"
	"github.com/alnah/go-mdpreview/internal/importer"
	"github.com/alnah/go-mdpreview/internal/markdown"
	"github.com/alnah/go-mdpreview/internal/mdx"
	"github.com/alnah/go-mdpreview/internal/posthtml"
	"github.com/alnah/go-mdpreview/internal/toc"
)

// Compile-time interface implementation checks.
var (
	_ posthtml.Processor = (*posthtml.TOCSubstituter)(nil)
	_ posthtml.Processor = (*posthtml.MatterRenderer)(nil)
	_ posthtml.Processor = (*posthtml.CalloutTransformer)(nil)
	_ posthtml.Processor = (*posthtml.MathSubstituter)(nil)
	_ posthtml.Processor = (*posthtml.Highlighter)(nil)
	_ posthtml.Processor = (*posthtml.ImageResolver)(nil)
)

// Engine renders markdown documents to preview HTML. One Engine owns an
// immutable configuration snapshot and is safe for concurrent renders;
// all per-document state lives in the render pass.
type Engine struct {
	cfg       engineConfig
	converter *markdown.Converter
	guard     *mathGuard
}

// NewEngine creates an Engine with the default preview configuration,
// customized by options.
func NewEngine(opts ...Option) *Engine {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	mdCfg := markdown.Default()
	mdCfg.Emoji = cfg.emoji
	mdCfg.WikiLinks = cfg.wiki
	if cfg.krokiServer != "" {
		mdCfg.KrokiServer = cfg.krokiServer
	}
	if cfg.diagrams != nil {
		mdCfg.DiagramLanguages = cfg.diagrams
	}

	e := &Engine{cfg: cfg, converter: markdown.New(mdCfg)}
	if cfg.math.Mode != MathNone {
		e.guard = newMathGuard(cfg.math)
	}
	return e
}

// mathGuard shields backslash math delimiters from markdown conversion.
// CommonMark treats \( and \[ as punctuation escapes, so by the time the
// math post-processor scans the HTML only a bare ( or [ remains. Each
// guarded sequence maps to a Private Use Area rune for the trip through
// the converter and is restored verbatim before post-processing. Code
// spans and fences never interpret escapes, so the round trip is a no-op
// there.
type mathGuard struct {
	protect *strings.Replacer
	restore *strings.Replacer
}

func newMathGuard(cfg posthtml.MathConfig) *mathGuard {
	inline, block := cfg.Resolved()
	next := rune(0xE060)
	seen := make(map[string]bool)
	var prot, rest []string
	add := func(s string) {
		if !strings.HasPrefix(s, `\`) || seen[s] {
			return
		}
		seen[s] = true
		hold := string(next)
		next++
		prot = append(prot, s, hold)
		rest = append(rest, hold, s)
	}
	for _, d := range block {
		add(d.Open)
		add(d.Close)
	}
	for _, d := range inline {
		add(d.Open)
		add(d.Close)
	}
	if len(prot) == 0 {
		return nil
	}
	return &mathGuard{
		protect: strings.NewReplacer(prot...),
		restore: strings.NewReplacer(rest...),
	}
}

// Render runs the full pipeline over one document: front-matter
// extraction, import expansion, embedded-expression processing, markdown
// conversion, and HTML post-processing, with the TOC generated from the
// same expanded source.
func (e *Engine) Render(ctx context.Context, in Input) (*Result, error) {
	source := in.Markdown
	if source == "" && in.SourcePath != "" {
		data, err := fileutil.ReadBounded(in.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
		}
		source = string(data)
	}
	if source == "" && in.SourcePath == "" {
		return nil, ErrNoInput
	}

	result := &Result{}

	doc := frontmatter.Extract(source)
	result.LineOffset = doc.LineOffset
	result.FrontMatter = toMeta(doc.Matter)
	result.IsPresentation = isPresentation(doc.Matter)
	if doc.Warning != "" {
		result.Warnings = append(result.Warnings, Warning{Stage: "front-matter", Message: doc.Warning})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolver := importer.New()
	resolver.MaxDepth = e.cfg.maxImportDepth
	body := resolver.Expand(doc.Body, in.SourcePath, nil)
	for _, w := range resolver.Warnings {
		result.Warnings = append(result.Warnings, Warning{Stage: "import", Message: w})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if e.cfg.expressions {
		proc := mdx.NewProcessor()
		body = proc.Process(body)
		for _, w := range proc.Warnings {
			result.Warnings = append(result.Warnings, Warning{Stage: "expression", Message: w})
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inbound := inboundLinks(body)
	env := &markdown.Env{LineOffset: doc.LineOffset, InboundLinks: inbound}
	source = body
	if e.guard != nil {
		source = e.guard.protect.Replace(source)
	}
	html, err := e.converter.Convert(ctx, source, env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if e.guard != nil {
		html = e.guard.restore.Replace(html)
	}

	result.TOCHTML = toc.Generate(body, tocOptions(doc.Matter, inbound))
	result.HTML = posthtml.Apply(html, e.postProcessors(in, doc, result.TOCHTML)...)
	return result, nil
}

// postProcessors assembles the fixed post-processing chain for one render.
func (e *Engine) postProcessors(in Input, doc frontmatter.Document, outline string) []posthtml.Processor {
	procs := []posthtml.Processor{
		&posthtml.TOCSubstituter{Outline: outline},
		&posthtml.MatterRenderer{Mode: e.cfg.frontMatter, Items: doc.Matter, Raw: doc.Raw},
		&posthtml.CalloutTransformer{},
		posthtml.NewMathSubstituter(e.cfg.math),
	}
	if e.cfg.highlight {
		procs = append(procs, &posthtml.Highlighter{
			Style:       e.cfg.highlightStyle,
			LineNumbers: e.cfg.lineNumbers,
		})
	}
	procs = append(procs, &posthtml.ImageResolver{
		SourcePath: in.SourcePath,
		Inline:     e.cfg.inlineImages,
	})
	return procs
}

var inboundLinkPattern = regexp.MustCompile(`\[([^\]\n]+)\]\(#([^)\s]+)\)`)

// inboundLinks scans the expanded source for document-internal fragment
// links. The first link per display text wins, matching how readers find
// the first occurrence.
func inboundLinks(body string) map[string]string {
	matches := inboundLinkPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make(map[string]string, len(matches))
	for _, m := range matches {
		key := strings.ToLower(strings.TrimSpace(m[1]))
		if _, seen := out[key]; !seen {
			out[key] = m[2]
		}
	}
	return out
}

// tocOptions reads the toc.* front-matter keys.
func tocOptions(m frontmatter.Matter, inbound map[string]string) toc.Options {
	opts := toc.Options{InboundLinks: inbound}
	if v, ok := m.Int("toc.depth_from"); ok {
		opts.DepthFrom = v
	}
	if v, ok := m.Int("toc.depth_to"); ok {
		opts.DepthTo = v
	}
	if v, ok := m.Bool("toc.ordered"); ok {
		opts.Ordered = v
	}
	return opts
}

// isPresentation detects the front-matter markers that select a slide
// renderer downstream. Any non-false value counts; authors write
// "marp: true" but also "slideshow: reveal".
func isPresentation(m frontmatter.Matter) bool {
	for _, key := range []string{"marp", "slideshow", "presentation"} {
		v, ok := m.Lookup(key)
		if !ok {
			continue
		}
		if b, isBool := v.(bool); isBool {
			if b {
				return true
			}
			continue
		}
		return true
	}
	return false
}
