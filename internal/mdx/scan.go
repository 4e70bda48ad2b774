package mdx

// scanState tracks brace nesting across lines of an embedded expression.
// Quote handling covers single, double and backtick-delimited literals
// with backslash escaping, so braces inside strings never count.
type scanState struct {
	depth   int
	quote   byte // 0 when outside any literal
	escaped bool
	opened  bool // at least one brace seen
}

// feed advances the state over one line and reports whether the capture
// is complete (all opened braces closed) at the end of it.
func (st *scanState) feed(line string) bool {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if st.escaped {
			st.escaped = false
			continue
		}
		if c == '\\' {
			st.escaped = true
			continue
		}
		if st.quote != 0 {
			if c == st.quote {
				st.quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			st.quote = c
		case '{':
			st.depth++
			st.opened = true
		case '}':
			st.depth--
		}
	}
	st.escaped = false // escapes do not span lines
	return st.depth <= 0
}

// matchBrace returns the index of the '}' matching s[0] (which must be
// '{'), honoring string literals and escapes, or -1 when unclosed.
func matchBrace(s string) int {
	if len(s) == 0 || s[0] != '{' {
		return -1
	}
	depth := 0
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// balanced reports whether s is exactly one complete `{...}` group.
func balanced(s string) bool {
	return matchBrace(s) == len(s)-1
}
