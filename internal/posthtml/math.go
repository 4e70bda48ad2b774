package posthtml

import (
	"html"
	"strings"
)

// Math rendering modes.
const (
	MathKatex   = "katex"
	MathMathJax = "mathjax"
	MathNone    = "none"
)

// MathRenderer is the math-rendering collaborator. A failing render
// surfaces as a styled inline error, never as a pipeline failure.
type MathRenderer interface {
	Render(tex string, display bool) (string, error)
}

// Delimiter is one open/close pair for math detection.
type Delimiter struct {
	Open  string
	Close string
}

// MathConfig selects delimiters and the rendering backend.
type MathConfig struct {
	Mode   string
	Inline []Delimiter // defaults: $...$ and \(...\)
	Block  []Delimiter // defaults: $$...$$ and \[...\]
	// Renderer overrides the built-in backend for the katex mode.
	Renderer MathRenderer
}

// Resolved returns the delimiter sets with defaults filled in. The engine
// needs the effective sets before conversion to shield backslash openers
// from markdown escape processing.
func (c MathConfig) Resolved() (inline, block []Delimiter) {
	inline, block = c.Inline, c.Block
	if inline == nil {
		inline = []Delimiter{{"$", "$"}, {`\(`, `\)`}}
	}
	if block == nil {
		block = []Delimiter{{"$$", "$$"}, {`\[`, `\]`}}
	}
	return inline, block
}

// MathSubstituter scans text outside tags and code containers for math
// spans and replaces them with the collaborator's markup. Delimiter
// boundary rules are explicit character checks, so "price is $5" never
// opens an inline span that a later "$" would close badly.
type MathSubstituter struct {
	inline   []Delimiter
	block    []Delimiter
	renderer MathRenderer
}

func NewMathSubstituter(cfg MathConfig) *MathSubstituter {
	s := &MathSubstituter{}
	s.inline, s.block = cfg.Resolved()

	switch cfg.Mode {
	case MathKatex:
		s.renderer = cfg.Renderer
		if s.renderer == nil {
			s.renderer = katexRenderer{}
		}
	case MathMathJax:
		s.renderer = mathjaxRenderer{}
	}
	return s
}

// skipElements are containers whose text must never be scanned for math.
var skipElements = map[string]bool{
	"pre": true, "code": true, "script": true, "style": true, "textarea": true,
}

func (s *MathSubstituter) Process(fragment string) string {
	if s.renderer == nil {
		return fragment
	}

	var b strings.Builder
	i := 0
	for i < len(fragment) {
		c := fragment[i]

		if c == '<' {
			end := strings.IndexByte(fragment[i:], '>')
			if end < 0 {
				b.WriteString(fragment[i:])
				break
			}
			tag := fragment[i : i+end+1]
			b.WriteString(tag)
			i += end + 1

			if name := openTagName(tag); name != "" && skipElements[name] {
				closeTag := "</" + name
				rest := fragment[i:]
				ci := strings.Index(strings.ToLower(rest), closeTag)
				if ci < 0 {
					b.WriteString(rest)
					i = len(fragment)
					continue
				}
				b.WriteString(rest[:ci])
				i += ci
			}
			continue
		}

		if out, consumed, ok := s.matchMath(fragment, i); ok {
			b.WriteString(out)
			i += consumed
			continue
		}

		b.WriteByte(c)
		i++
	}
	return b.String()
}

// matchMath tries the block delimiters first, then inline, at offset i.
func (s *MathSubstituter) matchMath(text string, i int) (out string, consumed int, ok bool) {
	for _, d := range s.block {
		if tex, n, ok := matchSpan(text, i, d, false); ok {
			return s.render(tex, true), n, true
		}
	}
	for _, d := range s.inline {
		if tex, n, ok := matchSpan(text, i, d, true); ok {
			return s.render(tex, false), n, true
		}
	}
	return "", 0, false
}

// matchSpan matches d.Open at offset i and searches for d.Close in the
// same text run (stopping at the next tag). Inline spans additionally
// require a non-space character right after the opener, a non-space
// before the closer, and no digit after the closer.
func matchSpan(text string, i int, d Delimiter, inline bool) (tex string, consumed int, ok bool) {
	if !strings.HasPrefix(text[i:], d.Open) {
		return "", 0, false
	}
	start := i + len(d.Open)

	if inline {
		if start >= len(text) || text[start] == ' ' || text[start] == '\t' || text[start] == '\n' {
			return "", 0, false
		}
		// $$ is a block opener, never an empty inline span
		if d.Open == "$" && text[start] == '$' {
			return "", 0, false
		}
	}

	for j := start; j < len(text); j++ {
		if text[j] == '<' {
			break
		}
		if !strings.HasPrefix(text[j:], d.Close) {
			continue
		}
		if j == start {
			return "", 0, false
		}
		if inline {
			prev := text[j-1]
			if prev == ' ' || prev == '\t' || prev == '\n' {
				return "", 0, false
			}
			if next := j + len(d.Close); next < len(text) && text[next] >= '0' && text[next] <= '9' {
				return "", 0, false
			}
		}
		return html.UnescapeString(text[start:j]), j + len(d.Close) - i, true
	}
	return "", 0, false
}

func (s *MathSubstituter) render(tex string, display bool) string {
	out, err := s.renderer.Render(tex, display)
	if err != nil {
		return `<span class="mdp-math-error">` + html.EscapeString(err.Error()) + `</span>`
	}
	return out
}

// openTagName returns the lowercased element name when tag is an opening
// tag, "" for closing and self-closing tags.
func openTagName(tag string) string {
	if len(tag) < 3 || tag[1] == '/' || strings.HasSuffix(tag, "/>") {
		return ""
	}
	name := tag[1 : len(tag)-1]
	if sp := strings.IndexAny(name, " \t\n"); sp >= 0 {
		name = name[:sp]
	}
	return strings.ToLower(name)
}

// katexRenderer wraps TeX source for client-side auto-rendering.
type katexRenderer struct{}

func (katexRenderer) Render(tex string, display bool) (string, error) {
	if display {
		return `<div class="math display">` + html.EscapeString(tex) + `</div>`, nil
	}
	return `<span class="math inline">` + html.EscapeString(tex) + `</span>`, nil
}

// mathjaxRenderer re-emits the TeX with MathJax's expected delimiters so
// the client library picks it up.
type mathjaxRenderer struct{}

func (mathjaxRenderer) Render(tex string, display bool) (string, error) {
	if display {
		return `<div class="math">\[` + html.EscapeString(tex) + `\]</div>`, nil
	}
	return `<span class="math">\(` + html.EscapeString(tex) + `\)</span>`, nil
}
