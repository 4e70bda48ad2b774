// Package markdown wraps goldmark with the preview-specific extensions:
// source-line annotation, heading-ID assignment, wiki links, and the
// fenced-code dispatcher that routes diagram, math-adjacent and
// interactive-code languages to specialized containers.
package markdown

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	emoji "github.com/yuin/goldmark-emoji"
)

// ErrConversion indicates the embedded markdown parser itself failed,
// which is a pipeline bug rather than expected input-driven failure.
var ErrConversion = errors.New("markdown conversion failed")

// Heading is one heading record collected during rendering.
type Heading struct {
	Level  int
	Text   string // display text with {...} decorations stripped
	ID     string // assigned anchor id, unique within the render
	Line   int    // data-line value (source line + front-matter offset)
	Ignore bool   // {ignore=true} marker, excluded from the TOC
}

// Env is the mutable render-scoped side channel threaded through one
// conversion: the front-matter line offset, the interactive code-chunk
// counter, inbound fragment links, and collected heading records.
// Never share an Env between renders.
type Env struct {
	LineOffset   int
	InboundLinks map[string]string // lowercased link text -> fragment id
	Headings     []Heading

	chunkSeq int
}

// NextChunkID returns the next auto-assigned interactive chunk identifier,
// stable within this render pass.
func (e *Env) NextChunkID() string {
	e.chunkSeq++
	return fmt.Sprintf("chunk-%d", e.chunkSeq)
}

// envKey carries the *Env through goldmark's parser context.
var envKey = parser.NewContextKey()

func envFrom(pc parser.Context) *Env {
	if v := pc.Get(envKey); v != nil {
		if env, ok := v.(*Env); ok {
			return env
		}
	}
	return &Env{}
}

// Config selects the feature set of a Converter. The zero value is a
// plain GFM renderer; Default() enables everything the preview uses.
type Config struct {
	Emoji     bool
	WikiLinks WikiConfig

	// KrokiServer is the base URL of the external diagram-rendering
	// service used for fences carrying kroki=true.
	KrokiServer string
	// KrokiLanguages is the supported-diagram-service set.
	KrokiLanguages map[string]bool
	// DiagramLanguages maps fence languages to container payload kinds
	// ("source" carries raw text in a data attribute, "json" embeds the
	// spec in a script tag). Treated as data, not logic: hosts extend it.
	DiagramLanguages map[string]string
}

// Default returns the stock preview configuration.
func Default() Config {
	return Config{
		Emoji:            true,
		WikiLinks:        DefaultWikiConfig(),
		KrokiServer:      "https://kroki.io",
		KrokiLanguages:   defaultKrokiLanguages(),
		DiagramLanguages: DefaultDiagramLanguages(),
	}
}

// DefaultDiagramLanguages is the built-in fence-language table for
// client-side rendered diagram containers.
func DefaultDiagramLanguages() map[string]string {
	return map[string]string{
		"mermaid":   "source",
		"wavedrom":  "source",
		"viz":       "source",
		"dot":       "source",
		"vega":      "json",
		"vega-lite": "json",
		"plotly":    "json",
		"chart":     "json",
		"recharts":  "json",
	}
}

func defaultKrokiLanguages() map[string]bool {
	langs := []string{
		"blockdiag", "seqdiag", "actdiag", "nwdiag", "packetdiag", "rackdiag",
		"bpmn", "bytefield", "c4plantuml", "d2", "dbml", "ditaa", "erd",
		"excalidraw", "graphviz", "mermaid", "nomnoml", "pikchr", "plantuml",
		"structurizr", "svgbob", "symbolator", "tikz", "vega", "vegalite",
		"wavedrom", "wireviz",
	}
	set := make(map[string]bool, len(langs))
	for _, l := range langs {
		set[l] = true
	}
	return set
}

// Converter renders markdown to an HTML fragment with the preview
// extensions applied. One Converter is safe for concurrent renders as
// long as each render gets its own Env.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Converter for the given configuration.
func New(cfg Config) *Converter {
	exts := []goldmark.Extender{
		extension.GFM,      // tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
		&subSupExtension{},
		&wikiLinkExtension{cfg: cfg.WikiLinks},
		&fenceExtension{cfg: cfg},
	}
	if cfg.Emoji {
		exts = append(exts, emoji.Emoji)
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				// heading IDs run before source lines so both see the
				// original tree; fence dispatch runs last.
				util.Prioritized(&headingIDTransformer{}, 100),
				util.Prioritized(&sourceLineTransformer{}, 200),
				util.Prioritized(&fenceTransformer{cfg: cfg}, 300),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Imports and evaluated expressions inject local markup; the
			// preview surface treats the document author as trusted.
			html.WithUnsafe(),
		),
	)
	return &Converter{md: md}
}

// Convert renders source to an HTML fragment. Goldmark has no native
// context support, so cancellation uses the goroutine + select pattern.
func (c *Converter) Convert(ctx context.Context, source string, env *Env) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if env == nil {
		env = &Env{}
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: parser panic: %v", ErrConversion, r)}
			}
		}()

		src := []byte(source)
		pc := parser.NewContext()
		pc.Set(envKey, env)

		doc := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

		var buf bytes.Buffer
		if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// lineIndex precomputes byte offsets of line starts so node segments can
// be mapped back to 0-indexed source lines.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// lineOf returns the 0-indexed line containing byte offset.
func (li lineIndex) lineOf(offset int) int {
	lo, hi := 0, len(li)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
