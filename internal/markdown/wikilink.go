package markdown

import (
	"bytes"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Case-transform conventions for wiki-link targets.
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

// WikiConfig controls [[target]] link resolution.
type WikiConfig struct {
	Enabled bool
	// SwapPair selects the [[display|target]] convention instead of the
	// default [[target|display]].
	SwapPair bool
	// Extension is appended when the target has none (default ".md").
	Extension string
	// CaseTransform is applied to the target's file name.
	CaseTransform string
}

// DefaultWikiConfig enables wiki links with markdown targets.
func DefaultWikiConfig() WikiConfig {
	return WikiConfig{
		Enabled:       true,
		Extension:     ".md",
		CaseTransform: CaseNone,
	}
}

type wikiLinkExtension struct {
	cfg WikiConfig
}

func (e *wikiLinkExtension) Extend(md goldmark.Markdown) {
	if !e.cfg.Enabled {
		return
	}
	md.Parser().AddOptions(
		parser.WithInlineParsers(
			// ahead of the standard link parser, which also triggers on '['
			util.Prioritized(&wikiLinkParser{cfg: e.cfg}, 199),
		),
	)
}

type wikiLinkParser struct {
	cfg WikiConfig
}

func (p *wikiLinkParser) Trigger() []byte {
	return []byte{'['}
}

func (p *wikiLinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, []byte("[[")) {
		return nil
	}
	end := bytes.Index(line, []byte("]]"))
	if end < 0 {
		return nil
	}
	inner := string(line[2:end])
	if inner == "" {
		return nil
	}

	target, display := splitPair(inner, p.cfg.SwapPair)
	dest := p.resolveTarget(target)

	block.Advance(end + 2)

	link := ast.NewLink()
	link.Destination = []byte(dest)
	link.AppendChild(link, ast.NewString([]byte(display)))
	return link
}

// splitPair separates "a|b" into target and display text according to the
// configured pairing convention. Without a pipe both are the same.
func splitPair(inner string, swap bool) (target, display string) {
	before, after, found := strings.Cut(inner, "|")
	before = strings.TrimSpace(before)
	if !found {
		return before, before
	}
	after = strings.TrimSpace(after)
	if swap {
		return after, before
	}
	return before, after
}

// resolveTarget applies the case transform to the target's file name and
// appends the configured extension when the target has none.
func (p *wikiLinkParser) resolveTarget(target string) string {
	dir, name := path.Split(target)
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = transformCase(base, p.cfg.CaseTransform)

	if ext == "" && p.cfg.Extension != "" {
		ext = p.cfg.Extension
	}
	return dir + base + ext
}

func transformCase(s, convention string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return s
	}

	switch convention {
	case CaseCamel:
		out := strings.ToLower(words[0])
		for _, w := range words[1:] {
			out += capitalize(w)
		}
		return out
	case CasePascal:
		var out string
		for _, w := range words {
			out += capitalize(w)
		}
		return out
	case CaseKebab:
		return strings.ToLower(strings.Join(words, "-"))
	case CaseSnake:
		return strings.ToLower(strings.Join(words, "_"))
	case CaseConstant:
		return strings.ToUpper(strings.Join(words, "_"))
	case CaseLower:
		return strings.ToLower(s)
	case CaseUpper:
		return strings.ToUpper(s)
	default:
		return s
	}
}

// splitWords splits on spaces, hyphens and underscores.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
