package mdpreview

import (
	"github.com/alnah/go-mdpreview/internal/importer"
	"github.com/alnah/go-mdpreview/internal/markdown"
	"github.com/alnah/go-mdpreview/internal/posthtml"
)

// engineConfig holds the resolved engine configuration. One snapshot is
// taken at construction and read-only during renders.
type engineConfig struct {
	emoji          bool
	expressions    bool
	highlight      bool
	highlightStyle string
	lineNumbers    bool
	inlineImages   bool
	frontMatter    string
	math           posthtml.MathConfig
	wiki           markdown.WikiConfig
	krokiServer    string
	diagrams       map[string]string
	maxImportDepth int
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		emoji:       true,
		expressions: true,
		highlight:   true,
		frontMatter: FrontMatterNone,
		math:        posthtml.MathConfig{Mode: posthtml.MathKatex},
		wiki:        markdown.DefaultWikiConfig(),
		// empty krokiServer and diagrams keep the markdown defaults

		maxImportDepth: importer.DefaultMaxDepth,
	}
}

// Option customizes an Engine at construction time.
type Option func(*engineConfig)

// WithMathMode selects MathKatex, MathMathJax or MathNone.
func WithMathMode(mode string) Option {
	return func(c *engineConfig) { c.math.Mode = mode }
}

// WithMathDelimiters replaces the default inline and block delimiter
// pairs ($...$, \(...\) and $$...$$, \[...\]).
func WithMathDelimiters(inline, block []MathDelimiter) Option {
	return func(c *engineConfig) {
		c.math.Inline = toDelims(inline)
		c.math.Block = toDelims(block)
	}
}

// WithMathRenderer installs a custom math-rendering collaborator for
// the katex mode.
func WithMathRenderer(r MathRenderer) Option {
	return func(c *engineConfig) { c.math.Renderer = r }
}

// WithFrontMatterRendering prepends the decoded front matter to the
// document as FrontMatterTable or FrontMatterCode.
func WithFrontMatterRendering(mode string) Option {
	return func(c *engineConfig) { c.frontMatter = mode }
}

// WithWikiLinks replaces the default wiki-link behavior.
func WithWikiLinks(opts WikiLinkOptions) Option {
	return func(c *engineConfig) {
		c.wiki = markdown.WikiConfig{
			Enabled:       opts.Enabled,
			SwapPair:      opts.SwapPair,
			Extension:     opts.Extension,
			CaseTransform: opts.CaseTransform,
		}
	}
}

// WithoutEmoji disables :shortcode: emoji substitution.
func WithoutEmoji() Option {
	return func(c *engineConfig) { c.emoji = false }
}

// WithoutExpressions disables the embedded-expression phases; export
// lines and {...} expressions render as literal text.
func WithoutExpressions() Option {
	return func(c *engineConfig) { c.expressions = false }
}

// WithoutHighlighting skips syntax coloring; code blocks keep their
// plain escaped form.
func WithoutHighlighting() Option {
	return func(c *engineConfig) { c.highlight = false }
}

// WithHighlightStyle selects a chroma style by name.
func WithHighlightStyle(name string) Option {
	return func(c *engineConfig) { c.highlightStyle = name }
}

// WithLineNumbers turns on the highlighter's line-number column.
func WithLineNumbers() Option {
	return func(c *engineConfig) { c.lineNumbers = true }
}

// WithImageInlining embeds local images as data URIs, for rendering
// surfaces that cannot fetch files from disk.
func WithImageInlining() Option {
	return func(c *engineConfig) { c.inlineImages = true }
}

// WithKrokiServer points kroki=true fences at a different rendering
// service endpoint.
func WithKrokiServer(url string) Option {
	return func(c *engineConfig) { c.krokiServer = url }
}

// WithDiagramLanguages replaces the built-in fence-language table for
// client-side diagram containers. Values are "source" or "json".
func WithDiagramLanguages(langs map[string]string) Option {
	return func(c *engineConfig) { c.diagrams = langs }
}

// WithMaxImportDepth bounds @import recursion on acyclic chains.
func WithMaxImportDepth(depth int) Option {
	return func(c *engineConfig) {
		if depth > 0 {
			c.maxImportDepth = depth
		}
	}
}

func toDelims(in []MathDelimiter) []posthtml.Delimiter {
	if in == nil {
		return nil
	}
	out := make([]posthtml.Delimiter, len(in))
	for i, d := range in {
		out[i] = posthtml.Delimiter{Open: d.Open, Close: d.Close}
	}
	return out
}
