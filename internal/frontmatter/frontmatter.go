// Package frontmatter splits a document into its leading YAML metadata
// block and body, reporting how many source lines the block consumed so
// downstream line numbering can be offset.
package frontmatter

import (
	"strings"

	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// Matter is the decoded front-matter mapping with document key order kept.
// A nil Matter means the document has no (decodable) front matter.
type Matter []yamlutil.MapItem

// Lookup resolves a dotted path ("toc.depth_from") through nested mappings.
func (m Matter) Lookup(path string) (any, bool) {
	var cur any = []yamlutil.MapItem(m)
	for _, part := range strings.Split(path, ".") {
		items, ok := cur.([]yamlutil.MapItem)
		if !ok {
			return nil, false
		}
		found := false
		for _, it := range items {
			if it.Key == part {
				cur = it.Value
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return cur, true
}

// Int returns the value at path as an int when it is any integer kind.
func (m Matter) Int(path string) (int, bool) {
	v, ok := m.Lookup(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// Bool returns the value at path as a bool.
func (m Matter) Bool(path string) (bool, bool) {
	v, ok := m.Lookup(path)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// String returns the value at path as a string.
func (m Matter) String(path string) (string, bool) {
	v, ok := m.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Document is the result of Extract.
type Document struct {
	Matter     Matter // nil when absent or undecodable
	Raw        string // the YAML block text, delimiters excluded
	Body       string // raw text with the front-matter block removed
	LineOffset int    // lines consumed by the block, delimiters included
	Warning    string // non-empty when the block was present but undecodable
}

// Extract detects a leading "---" delimited block. Decode failure never
// aborts the pipeline: the body and line offset are still reported so
// data-line mapping stays correct, and the failure surfaces as a warning.
func Extract(raw string) Document {
	lines := strings.SplitAfter(raw, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != "---" {
		return Document{Body: raw}
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if t := strings.TrimRight(lines[i], "\r\n"); t == "---" || t == "..." {
			end = i
			break
		}
	}
	if end == -1 {
		// Unterminated block: treat the document as having no front matter.
		return Document{Body: raw}
	}

	block := strings.Join(lines[1:end], "")
	body := strings.Join(lines[end+1:], "")
	offset := end + 1

	matter, err := yamlutil.UnmarshalOrdered([]byte(block))
	if err != nil {
		return Document{
			Raw:        block,
			Body:       body,
			LineOffset: offset,
			Warning:    "front matter could not be parsed: " + err.Error(),
		}
	}

	return Document{Matter: matter, Raw: block, Body: body, LineOffset: offset}
}
