// Package mdx evaluates MDX-like embedded expressions inside markdown:
// exported bindings, XML-like templating blocks, and inline/block `{...}`
// expressions. Every phase is total: a failing construct degrades to its
// original source text, never to an aborted render.
//
// Expressions run in the expr-lang interpreter against an environment
// holding only the accumulated exports and the h() tree-builder, so
// evaluated code can never reach process or filesystem state.
package mdx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	exprlang "github.com/expr-lang/expr"
)

// Placeholder delimiters use Unicode Private Use Area characters, the
// same technique the highlight pass uses: they cannot occur in real
// documents and pass through every phase untouched.
const (
	tokenStart = ""
	tokenEnd   = ""
)

var exportPattern = regexp.MustCompile(`^export\s+(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(.*)$`)

// Processor runs the embedded-expression phases for one render pass.
// Scope and placeholder counters are per-instance; concurrent documents
// each get their own Processor.
type Processor struct {
	scope        map[string]any
	placeholders []string // index n -> original text for token n
	Warnings     []string
}

// NewProcessor creates a Processor with an empty export scope.
func NewProcessor() *Processor {
	return &Processor{scope: make(map[string]any)}
}

// Process runs all phases in order: protect code, extract exports,
// transpile tag blocks, evaluate block then inline expressions, restore
// protected code verbatim.
func (p *Processor) Process(content string) string {
	content = p.protect(content)
	content = p.extractExports(content)
	content = p.processTagBlocks(content)
	content = p.processBlockExpressions(content)
	content = p.processInlineExpressions(content)
	return p.restore(content)
}

// protect replaces fenced code blocks and inline code spans with opaque
// placeholder tokens so no later phase can alter code content.
func (p *Processor) protect(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			marker := trimmed[:3]
			j := i + 1
			for ; j < len(lines); j++ {
				if strings.HasPrefix(strings.TrimSpace(lines[j]), marker) {
					break
				}
			}
			if j < len(lines) {
				block := strings.Join(lines[i:j+1], "\n")
				out = append(out, p.stash(block))
				i = j
				continue
			}
			// Unterminated fence: protect to end of document.
			block := strings.Join(lines[i:], "\n")
			out = append(out, p.stash(block))
			i = len(lines)
			continue
		}
		out = append(out, p.protectInlineCode(lines[i]))
	}

	return strings.Join(out, "\n")
}

// protectInlineCode stashes `code` spans on one line. Double-backtick
// spans are honored so a span carrying a literal backtick survives.
func (p *Processor) protectInlineCode(line string) string {
	var b strings.Builder
	i := 0
	for i < len(line) {
		if line[i] != '`' {
			b.WriteByte(line[i])
			i++
			continue
		}
		open := i
		for i < len(line) && line[i] == '`' {
			i++
		}
		marker := line[open:i]
		end := strings.Index(line[i:], marker)
		if end < 0 {
			b.WriteString(marker)
			continue
		}
		span := line[open : i+end+len(marker)]
		b.WriteString(p.stash(span))
		i += end + len(marker)
	}
	return b.String()
}

func (p *Processor) stash(original string) string {
	token := tokenStart + strconv.Itoa(len(p.placeholders)) + tokenEnd
	p.placeholders = append(p.placeholders, original)
	return token
}

// restore replaces every placeholder token with its original text.
// Restoration loops because protected content may itself have been
// spliced into evaluated output.
func (p *Processor) restore(content string) string {
	for n := 0; n < 8; n++ {
		if !strings.Contains(content, tokenStart) {
			break
		}
		for i, original := range p.placeholders {
			token := tokenStart + strconv.Itoa(i) + tokenEnd
			content = strings.ReplaceAll(content, token, original)
		}
	}
	return content
}

// extractExports finds `export const NAME = EXPR` declarations, evaluates
// them against the accumulating scope, and removes them from the output.
// EXPR may span lines; continuation is determined by brace balance.
func (p *Processor) extractExports(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		m := exportPattern.FindStringSubmatch(lines[i])
		if m == nil {
			out = append(out, lines[i])
			continue
		}

		name, expr := m[1], m[2]
		var st scanState
		done := st.feed(expr)
		for !done && i+1 < len(lines) {
			i++
			expr += "\n" + lines[i]
			done = st.feed(lines[i])
		}

		expr = strings.TrimSuffix(strings.TrimSpace(expr), ";")
		val, err := p.eval(expr)
		if err != nil {
			// Binding stays undefined; the declaration still disappears.
			p.warn("export %s: %v", name, err)
			continue
		}
		p.scope[name] = val
	}

	return strings.Join(out, "\n")
}

// processTagBlocks finds multi-line blocks opening with a tag and carrying
// templating markers, transpiles them to h() calls, evaluates, and splices
// the serialized tree. Non-qualifying or failing blocks pass through.
func (p *Processor) processTagBlocks(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !startsWithTag(trimmed) {
			out = append(out, lines[i])
			continue
		}

		// Gather until the tag structure balances (bounded lookahead).
		end := i
		block := lines[i]
		for end < len(lines) && tagDepth(block) > 0 && end-i < 200 {
			end++
			if end < len(lines) {
				block += "\n" + lines[end]
			}
		}

		if end >= len(lines) || !hasTemplateMarkers(block) {
			out = append(out, lines[i])
			continue
		}

		src, err := transpile(strings.TrimSpace(block))
		if err != nil {
			out = append(out, lines[i])
			continue
		}
		val, err := p.eval(src)
		if err != nil {
			p.warn("tag block: %v", err)
			out = append(out, lines[i])
			continue
		}

		out = append(out, Render(val))
		i = end
	}

	return strings.Join(out, "\n")
}

// processBlockExpressions evaluates `{ ... }` expressions standing alone
// on a line, possibly spanning lines under brace balance.
func (p *Processor) processBlockExpressions(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "{") || isAttrSyntax(trimmed) {
			out = append(out, lines[i])
			continue
		}

		block := trimmed
		end := i
		for matchBrace(block) < 0 && end+1 < len(lines) && end-i < 100 {
			end++
			block += "\n" + lines[end]
		}

		if !balanced(block) {
			out = append(out, lines[i])
			continue
		}

		inner := block[1 : len(block)-1]
		val, err := p.eval(inner)
		if err != nil {
			p.warn("block expression: %v", err)
			out = append(out, lines[i])
			continue
		}

		out = append(out, p.render(val))
		i = end
	}

	return strings.Join(out, "\n")
}

// processInlineExpressions substitutes single-line, non-nested `{ ... }`
// occurrences in remaining text.
func (p *Processor) processInlineExpressions(content string) string {
	lines := strings.Split(content, "\n")
	for li, line := range lines {
		if !strings.Contains(line, "{") {
			continue
		}
		var b strings.Builder
		i := 0
		for i < len(line) {
			if line[i] != '{' {
				b.WriteByte(line[i])
				i++
				continue
			}
			rest := line[i:]
			if isAttrSyntax(rest) {
				b.WriteByte(line[i])
				i++
				continue
			}
			end := matchBrace(rest)
			if end < 0 {
				b.WriteByte(line[i])
				i++
				continue
			}
			inner := rest[1:end]
			if strings.ContainsAny(inner, "{}") {
				// nested groups are block territory, not inline
				b.WriteString(rest[:end+1])
				i += end + 1
				continue
			}
			val, err := p.eval(inner)
			if err != nil {
				b.WriteString(rest[:end+1])
				i += end + 1
				continue
			}
			b.WriteString(p.render(val))
			i += end + 1
		}
		lines[li] = b.String()
	}
	return strings.Join(lines, "\n")
}

// render converts an evaluation result to markdown/HTML text.
func (p *Processor) render(val any) string {
	switch t := val.(type) {
	case *VNode:
		return Render(t)
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// eval runs one expression in the sandboxed interpreter. The environment
// is rebuilt per call so later exports see earlier ones but nothing else.
func (p *Processor) eval(src string) (any, error) {
	env := make(map[string]any, len(p.scope)+1)
	for k, v := range p.scope {
		env[k] = v
	}
	env["h"] = h

	prog, err := exprlang.Compile(src, exprlang.Env(env), exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return exprlang.Run(prog, env)
}

func (p *Processor) warn(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// isAttrSyntax recognizes heading-attribute decorations `{#id}`, `{.class}`
// and `{key=value}` groups, which belong to the markdown layer.
func isAttrSyntax(s string) bool {
	if len(s) < 2 || s[0] != '{' {
		return false
	}
	switch s[1] {
	case '#', '.':
		return true
	}
	// {ignore=true} style decorations
	end := matchBrace(s)
	if end > 0 && strings.Contains(s[1:end], "=") && !strings.Contains(s[1:end], "==") {
		return true
	}
	return false
}

// startsWithTag reports whether a line opens an XML-like element.
func startsWithTag(s string) bool {
	return len(s) > 1 && s[0] == '<' && isAlpha(s[1])
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// tagDepth counts unclosed element tags in s, honoring self-closing and
// void elements, quoted attribute values, and `{...}` attribute groups.
func tagDepth(s string) int {
	depth := 0
	i := 0
	for i < len(s) {
		if s[i] != '<' {
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '/' {
			depth--
			for i < len(s) && s[i] != '>' {
				i++
			}
			i++
			continue
		}
		if i+1 >= len(s) || !isAlpha(s[i+1]) {
			i++
			continue
		}
		// opening tag: find its '>' skipping quotes and brace groups
		nameStart := i + 1
		j := nameStart
		for j < len(s) && (isAlpha(s[j]) || (s[j] >= '0' && s[j] <= '9') || s[j] == '-' || s[j] == '_') {
			j++
		}
		name := strings.ToLower(s[nameStart:j])
		selfClosed := false
		var quote byte
		for j < len(s) {
			c := s[j]
			if quote != 0 {
				if c == quote {
					quote = 0
				}
				j++
				continue
			}
			switch c {
			case '"', '\'':
				quote = c
				j++
			case '{':
				if end := matchBrace(s[j:]); end > 0 {
					j += end + 1
				} else {
					j++
				}
			case '>':
				if j > 0 && s[j-1] == '/' {
					selfClosed = true
				}
				j++
				goto tagDone
			default:
				j++
			}
		}
	tagDone:
		if !selfClosed && !voidElements[name] {
			depth++
		}
		i = j
	}
	return depth
}

// hasTemplateMarkers reports whether a tag block uses templating features
// that warrant transpilation: style objects, expression-valued attributes,
// or interpolated/list-rendering children.
func hasTemplateMarkers(block string) bool {
	if strings.Contains(block, "={") {
		return true
	}
	if strings.Contains(block, "map(") || strings.Contains(block, "filter(") {
		return true
	}
	// interpolated child: '{' after '>' content start
	if gt := strings.IndexByte(block, '>'); gt >= 0 && strings.Contains(block[gt:], "{") {
		return true
	}
	return false
}
