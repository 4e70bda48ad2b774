package mdpreview

import (
	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// Math rendering modes.
const (
	MathKatex   = "katex"
	MathMathJax = "mathjax"
	MathNone    = "none"
)

// Front-matter rendering modes.
const (
	FrontMatterNone  = "none"
	FrontMatterTable = "table"
	FrontMatterCode  = "code"
)

// Wiki-link target case-transform conventions.
const (
	CaseNone     = "none"
	CaseCamel    = "camel"
	CasePascal   = "pascal"
	CaseKebab    = "kebab"
	CaseSnake    = "snake"
	CaseConstant = "constant"
	CaseLower    = "lower"
	CaseUpper    = "upper"
)

// Input is one document to render.
type Input struct {
	// Markdown is the raw source text. When empty and SourcePath is
	// set, the file is read from disk.
	Markdown string
	// SourcePath locates the document on disk. It anchors relative
	// @import paths and image resolution; rendering in-memory text
	// without a path disables both.
	SourcePath string
}

// Warning is a recoverable-local failure surfaced on the result. The
// document around the failure still rendered.
type Warning struct {
	Stage   string // "front-matter", "import", "expression"
	Message string
}

// Meta is one front-matter entry. Document key order is preserved;
// nested mappings appear as []Meta values.
type Meta struct {
	Key   string
	Value any
}

// Result is the output of one render pass.
type Result struct {
	// HTML is the post-processed document fragment.
	HTML string
	// TOCHTML is the generated outline, "" when the document has no
	// eligible headings. It is also substituted for [TOC] paragraphs
	// inside HTML.
	TOCHTML string
	// FrontMatter is the decoded metadata mapping, nil when absent or
	// undecodable.
	FrontMatter []Meta
	// LineOffset is the number of source lines consumed by front
	// matter; every data-line attribute already includes it.
	LineOffset int
	// IsPresentation reports a front-matter presentation marker (marp,
	// slideshow, presentation). The document still rendered normally;
	// hosts reroute to a slide renderer when they support one.
	IsPresentation bool
	Warnings       []Warning
}

// WikiLinkOptions configures [[target]] resolution.
type WikiLinkOptions struct {
	Enabled bool
	// SwapPair selects the [[display|target]] convention instead of the
	// default [[target|display]].
	SwapPair bool
	// Extension is appended to targets without one (default ".md").
	Extension string
	// CaseTransform is one of the Case* constants.
	CaseTransform string
}

// MathDelimiter is one open/close pair scanned during math substitution.
type MathDelimiter struct {
	Open  string
	Close string
}

// MathRenderer is the math-rendering collaborator. Render failures
// appear as styled inline errors at the formula's position, never as
// render errors.
type MathRenderer interface {
	Render(tex string, display bool) (string, error)
}

// toMeta converts the internal ordered mapping into the public form.
func toMeta(items []yamlutil.MapItem) []Meta {
	if items == nil {
		return nil
	}
	out := make([]Meta, len(items))
	for i, it := range items {
		out[i] = Meta{Key: it.Key, Value: metaValue(it.Value)}
	}
	return out
}

func metaValue(v any) any {
	switch t := v.(type) {
	case []yamlutil.MapItem:
		return toMeta(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = metaValue(e)
		}
		return out
	default:
		return v
	}
}
