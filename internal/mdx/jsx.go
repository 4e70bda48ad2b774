package mdx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errors returned by the tag-block transpiler. Callers treat any of them
// as "not a templating block" and leave the source text untouched.
var (
	ErrNotTag      = errors.New("mdx: not a tag block")
	ErrUnclosedTag = errors.New("mdx: unclosed tag")
	ErrBadAttr     = errors.New("mdx: malformed attribute")
)

// transpile converts an XML-like templating block into an expression that
// builds the equivalent virtual node tree through the h() function, e.g.
//
//	<div className={cls}>hello</div>
//
// becomes
//
//	h("div", {"className": (cls)}, "hello")
//
// The produced source is then evaluated against the export scope.
func transpile(block string) (string, error) {
	p := &tagParser{s: block}
	p.skipSpace()
	out, err := p.parseElement()
	if err != nil {
		return "", err
	}
	p.skipSpace()
	if p.pos < len(p.s) {
		return "", fmt.Errorf("%w: trailing content", ErrNotTag)
	}
	return out, nil
}

type tagParser struct {
	s   string
	pos int
}

func (p *tagParser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *tagParser) parseElement() (string, error) {
	if p.pos >= len(p.s) || p.s[p.pos] != '<' {
		return "", ErrNotTag
	}
	p.pos++
	tag := p.readName()
	if tag == "" {
		return "", ErrNotTag
	}

	props, selfClosed, err := p.parseAttrs()
	if err != nil {
		return "", err
	}

	call := `h(` + strconv.Quote(tag) + `, ` + props
	if selfClosed || voidElements[strings.ToLower(tag)] {
		return call + `)`, nil
	}

	children, err := p.parseChildren(tag)
	if err != nil {
		return "", err
	}
	for _, c := range children {
		call += ", " + c
	}
	return call + `)`, nil
}

// parseAttrs consumes attributes up to '>' or '/>', returning an
// expression-language map literal.
func (p *tagParser) parseAttrs() (props string, selfClosed bool, err error) {
	var pairs []string
	for {
		p.skipSpace()
		if p.pos >= len(p.s) {
			return "", false, ErrUnclosedTag
		}
		if strings.HasPrefix(p.s[p.pos:], "/>") {
			p.pos += 2
			return mapLiteral(pairs), true, nil
		}
		if p.s[p.pos] == '>' {
			p.pos++
			return mapLiteral(pairs), false, nil
		}

		name := p.readAttrName()
		if name == "" {
			return "", false, ErrBadAttr
		}
		if p.pos < len(p.s) && p.s[p.pos] == '=' {
			p.pos++
			val, err := p.readAttrValue()
			if err != nil {
				return "", false, err
			}
			pairs = append(pairs, strconv.Quote(name)+": "+val)
		} else {
			// bare attribute means boolean true
			pairs = append(pairs, strconv.Quote(name)+": true")
		}
	}
}

func (p *tagParser) readName() string {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.s[start:p.pos]
}

func (p *tagParser) readAttrName() string {
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '=' || c == '>' || c == '/' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		p.pos++
	}
	return p.s[start:p.pos]
}

func (p *tagParser) readAttrValue() (string, error) {
	if p.pos >= len(p.s) {
		return "", ErrBadAttr
	}
	switch c := p.s[p.pos]; c {
	case '"', '\'':
		end := strings.IndexByte(p.s[p.pos+1:], c)
		if end < 0 {
			return "", ErrBadAttr
		}
		val := p.s[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		return strconv.Quote(val), nil
	case '{':
		end := matchBrace(p.s[p.pos:])
		if end < 0 {
			return "", ErrBadAttr
		}
		inner := p.s[p.pos+1 : p.pos+end]
		p.pos += end + 1
		return "(" + inner + ")", nil
	default:
		return "", ErrBadAttr
	}
}

// parseChildren consumes element content until the matching close tag.
func (p *tagParser) parseChildren(tag string) ([]string, error) {
	var children []string
	var text strings.Builder

	flushText := func() {
		raw := text.String()
		t := collapseText(raw)
		if t != "" {
			// keep single spaces that separate text from sibling expressions
			if strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t") {
				t = " " + t
			}
			if strings.HasSuffix(raw, " ") || strings.HasSuffix(raw, "\t") {
				t += " "
			}
			children = append(children, strconv.Quote(t))
		}
		text.Reset()
	}

	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case strings.HasPrefix(p.s[p.pos:], "</"):
			flushText()
			p.pos += 2
			name := p.readName()
			p.skipSpace()
			if p.pos >= len(p.s) || p.s[p.pos] != '>' {
				return nil, ErrUnclosedTag
			}
			p.pos++
			if name != tag {
				return nil, fmt.Errorf("%w: </%s> closes <%s>", ErrUnclosedTag, name, tag)
			}
			return children, nil
		case c == '<':
			flushText()
			child, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		case c == '{':
			end := matchBrace(p.s[p.pos:])
			if end < 0 {
				return nil, ErrUnclosedTag
			}
			flushText()
			children = append(children, "("+p.s[p.pos+1:p.pos+end]+")")
			p.pos += end + 1
		default:
			text.WriteByte(c)
			p.pos++
		}
	}
	return nil, ErrUnclosedTag
}

// collapseText trims child text the way templating engines do: lines are
// trimmed and joined with single spaces, and all-whitespace runs vanish.
func collapseText(s string) string {
	lines := strings.Split(s, "\n")
	var kept []string
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// mapLiteral renders attribute pairs as an expression-language map.
func mapLiteral(pairs []string) string {
	if len(pairs) == 0 {
		return "nil"
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
