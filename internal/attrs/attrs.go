// Package attrs implements the shared attribute grammar used by @import
// directives and fence info strings:
//
//	key=value key2="quoted value" bareFlag .cssClass arr=["a","b"]
//
// Bare flags normalize to key="true". The ".class" shorthand appends to an
// accumulating "class" attribute. Bracketed array literals are kept as
// opaque strings for downstream consumers.
//
// This is a hand-written rune scanner rather than a regex: the grammar
// needs quote tracking and bracket balancing that lookaround-free regexes
// express poorly.
package attrs

import "strings"

// Parse scans an attribute string into a key to value map.
// Malformed trailing input is dropped rather than reported; a directive
// with broken attributes still imports with whatever parsed.
func Parse(s string) map[string]string {
	out := make(map[string]string)
	i := 0
	n := len(s)

	skipSpace := func() {
		for i < n && (s[i] == ' ' || s[i] == '\t' || s[i] == ',') {
			i++
		}
	}

	for {
		skipSpace()
		if i >= n {
			break
		}

		// .class shorthand
		if s[i] == '.' {
			start := i + 1
			i = start
			for i < n && !isSpaceByte(s[i]) {
				i++
			}
			if cls := s[start:i]; cls != "" {
				appendClass(out, cls)
			}
			continue
		}

		// key
		start := i
		for i < n && s[i] != '=' && !isSpaceByte(s[i]) {
			i++
		}
		key := s[start:i]
		if key == "" {
			i++
			continue
		}

		if i >= n || s[i] != '=' {
			// bare flag
			out[key] = "true"
			continue
		}
		i++ // consume '='

		if i >= n {
			out[key] = ""
			break
		}

		switch {
		case s[i] == '"' || s[i] == '\'':
			quote := s[i]
			i++
			var b strings.Builder
			for i < n {
				c := s[i]
				if c == '\\' && i+1 < n {
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				if c == quote {
					i++
					break
				}
				b.WriteByte(c)
				i++
			}
			setAttr(out, key, b.String())
		case s[i] == '[':
			// bracketed array kept opaque, brackets balanced, quotes honored
			depth := 0
			vstart := i
			var quote byte
			for i < n {
				c := s[i]
				if quote != 0 {
					if c == '\\' && i+1 < n {
						i += 2
						continue
					}
					if c == quote {
						quote = 0
					}
					i++
					continue
				}
				switch c {
				case '"', '\'':
					quote = c
				case '[':
					depth++
				case ']':
					depth--
					if depth == 0 {
						i++
						setAttr(out, key, s[vstart:i])
						goto next
					}
				}
				i++
			}
			setAttr(out, key, s[vstart:i])
		default:
			vstart := i
			for i < n && !isSpaceByte(s[i]) {
				i++
			}
			setAttr(out, key, s[vstart:i])
		}
	next:
	}

	return out
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == ','
}

// setAttr stores an attribute; "class" accumulates instead of replacing.
func setAttr(m map[string]string, key, val string) {
	if key == "class" {
		appendClass(m, val)
		return
	}
	m[key] = val
}

func appendClass(m map[string]string, cls string) {
	if prev, ok := m["class"]; ok && prev != "" {
		m["class"] = prev + " " + cls
		return
	}
	m["class"] = cls
}
