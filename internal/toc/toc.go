// Package toc builds the table-of-contents outline from raw markdown.
// It scans the source text independently of the renderer but shares the
// slug package with the heading-ID pass, so generated anchors always
// match rendered heading ids.
package toc

import (
	"html"
	"regexp"
	"strings"

	"github.com/alnah/go-mdpreview/internal/slug"
)

// Options shapes one outline. DepthFrom and DepthTo are inclusive
// heading levels; zero values mean 1 and 6.
type Options struct {
	DepthFrom int
	DepthTo   int
	// Ordered selects <ol> over <ul>.
	Ordered bool
	// InboundLinks maps lowercased link text to fragment ids, giving
	// document-internal links priority over computed slugs.
	InboundLinks map[string]string
}

var (
	headingPattern    = regexp.MustCompile(`^ {0,3}(#{1,6})[ \t]+(.*?)[ \t]*(?:#+[ \t]*)?$`)
	decorationPattern = regexp.MustCompile(`\{[^{}\n]*\}`)
	customIDPattern   = regexp.MustCompile(`\{#([^}\s]+)\}`)
	ignorePattern     = regexp.MustCompile(`\{ignore=true\}`)
)

type entry struct {
	level  int
	text   string
	id     string
	ignore bool
}

// Generate scans body for headings and renders the nested outline.
// It returns "" when no heading survives the depth filter.
func Generate(body string, opts Options) string {
	from, to := opts.DepthFrom, opts.DepthTo
	if from < 1 {
		from = 1
	}
	if to < 1 || to > 6 {
		to = 6
	}

	entries := scan(body, opts.InboundLinks)

	var kept []entry
	for _, e := range entries {
		if e.ignore || e.level < from || e.level > to {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return ""
	}

	root := buildTree(kept)
	var b strings.Builder
	renderLevel(&b, root, opts.Ordered)
	return b.String()
}

// scan walks body line by line, skipping fenced code blocks, and assigns
// ids to every heading. Filtering happens after assignment so duplicate
// numbering matches the renderer, which also sees all headings.
func scan(body string, inbound map[string]string) []entry {
	dedup := slug.NewDeduper()
	var entries []entry

	inFence := false
	var fenceChar byte
	fenceLen := 0

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)

		if inFence {
			if indent <= 3 && fenceRun(trimmed, fenceChar) >= fenceLen && strings.TrimRight(trimmed, string(fenceChar)+" \t") == "" {
				inFence = false
			}
			continue
		}
		if indent <= 3 {
			if n := fenceRun(trimmed, '`'); n >= 3 {
				inFence, fenceChar, fenceLen = true, '`', n
				continue
			}
			if n := fenceRun(trimmed, '~'); n >= 3 {
				inFence, fenceChar, fenceLen = true, '~', n
				continue
			}
		}

		m := headingPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		raw := m[2]

		explicit := ""
		if im := customIDPattern.FindStringSubmatch(raw); im != nil {
			explicit = im[1]
		}
		display := strings.TrimSpace(decorationPattern.ReplaceAllString(raw, ""))

		entries = append(entries, entry{
			level:  len(m[1]),
			text:   display,
			id:     slug.ResolveID(dedup, display, explicit, inbound),
			ignore: ignorePattern.MatchString(raw),
		})
	}
	return entries
}

// fenceRun counts the leading run of c in s.
func fenceRun(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

type node struct {
	entry
	children []*node
}

// buildTree nests entries by heading level. A heading that skips back
// several levels at once pops every deeper node off the stack, closing
// all intermediate lists.
func buildTree(entries []entry) []*node {
	var root []*node
	var stack []*node

	for _, e := range entries {
		n := &node{entry: e}
		for len(stack) > 0 && stack[len(stack)-1].level >= e.level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			root = append(root, n)
		} else {
			p := stack[len(stack)-1]
			p.children = append(p.children, n)
		}
		stack = append(stack, n)
	}
	return root
}

func renderLevel(b *strings.Builder, nodes []*node, ordered bool) {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	b.WriteString("<" + tag + ">\n")
	for _, n := range nodes {
		b.WriteString(`<li><a href="#` + html.EscapeString(n.id) + `">` + html.EscapeString(n.text) + "</a>")
		if len(n.children) > 0 {
			b.WriteString("\n")
			renderLevel(b, n.children, ordered)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</" + tag + ">\n")
}
