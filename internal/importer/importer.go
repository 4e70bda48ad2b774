// Package importer expands @import directives into inline markdown/HTML.
//
// Expansion is line oriented: only lines fully matching the directive
// grammar are touched, everything else passes through verbatim. Imported
// markdown recurses with a copied ancestor set so cycles are rejected
// without making sibling imports of the same file collide.
package importer

import (
	"fmt"
	"html"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-mdpreview/internal/attrs"
	"github.com/alnah/go-mdpreview/internal/fileutil"
)

// DefaultMaxDepth bounds acyclic import chains so adversarial input cannot
// exhaust the call stack.
const DefaultMaxDepth = 32

// Only a full-line match is a directive: @import "path" {optional attrs}
var directivePattern = regexp.MustCompile(`^@import\s+"([^"]+)"\s*(?:\{(.*)\})?\s*;?\s*$`)

// langAliases maps file extensions to fence language hints.
var langAliases = map[string]string{
	"js":       "javascript",
	"ts":       "typescript",
	"py":       "python",
	"rb":       "ruby",
	"md":       "markdown",
	"sh":       "bash",
	"zsh":      "bash",
	"yml":      "yaml",
	"tex":      "latex",
	"rs":       "rust",
	"kt":       "kotlin",
	"hs":       "haskell",
	"pl":       "perl",
	"ps1":      "powershell",
	"h":        "c",
	"hpp":      "cpp",
	"cc":       "cpp",
	"cxx":      "cpp",
	"erl":      "erlang",
	"mdx":      "markdown",
	"markdown": "markdown",
}

var imageExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"svg": true, "webp": true, "bmp": true, "apng": true, "ico": true,
}

// Resolver expands import directives for one render pass.
// It accumulates warnings instead of failing: a broken import degrades to
// an inline marker and the rest of the document still renders.
type Resolver struct {
	MaxDepth int
	Warnings []string

	depth int
}

// New creates a Resolver with the default depth guard.
func New() *Resolver {
	return &Resolver{MaxDepth: DefaultMaxDepth}
}

// Expand processes content line by line, replacing directive lines with
// the imported file's inline rendering. visited holds the absolute paths
// of ancestor files currently being expanded.
func (r *Resolver) Expand(content, sourcePath string, visited map[string]bool) string {
	if visited == nil {
		visited = make(map[string]bool)
	}

	var out strings.Builder
	lines := strings.Split(content, "\n")
	inFence := false
	fenceMarker := ""

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Directives inside fenced code blocks are literal text.
		if inFence {
			if strings.HasPrefix(trimmed, fenceMarker) {
				inFence = false
			}
			out.WriteString(line)
			if i < len(lines)-1 {
				out.WriteByte('\n')
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = true
			fenceMarker = trimmed[:3]
			out.WriteString(line)
			if i < len(lines)-1 {
				out.WriteByte('\n')
			}
			continue
		}

		m := directivePattern.FindStringSubmatch(line)
		if m == nil {
			out.WriteString(line)
			if i < len(lines)-1 {
				out.WriteByte('\n')
			}
			continue
		}

		out.WriteString(r.expandOne(m[1], m[2], sourcePath, visited))
		if i < len(lines)-1 {
			out.WriteByte('\n')
		}
	}

	return out.String()
}

// expandOne resolves and renders a single directive occurrence.
func (r *Resolver) expandOne(path, rawAttrs, sourcePath string, visited map[string]bool) string {
	a := attrs.Parse(rawAttrs)
	abs := absPath(fileutil.Resolve(sourcePath, path))

	if visited[abs] {
		r.warn("circular import of %s skipped", path)
		return fmt.Sprintf("<!-- circular import skipped: %s -->", html.EscapeString(path))
	}
	if r.depth >= r.MaxDepth {
		r.warn("import depth limit reached at %s", path)
		return errorBlock("import depth limit reached: " + path)
	}

	ext := fileutil.Ext(abs)

	// Images never hit the filesystem here; the path goes straight into src.
	if imageExts[ext] && a["code_block"] != "true" {
		if a["hide"] == "true" {
			return ""
		}
		return imageTag(path, a)
	}

	data, err := fileutil.ReadBounded(abs)
	if err != nil {
		r.warn("cannot import %s: %v", path, err)
		return errorBlock("cannot import " + path)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	text = sliceLines(text, a)

	if a["hide"] == "true" {
		// Side-effecting imports still land in the document invisibly.
		switch ext {
		case "css", "less":
			return styleTag(text)
		case "js", "javascript":
			return scriptTag(text)
		}
		return ""
	}

	if a["code_block"] == "true" {
		return codeFence(text, langFor(ext))
	}

	switch ext {
	case "md", "markdown", "mdx":
		next := make(map[string]bool, len(visited)+1)
		for k := range visited {
			next[k] = true
		}
		next[absPath(sourcePath)] = true
		r.depth++
		expanded := r.Expand(text, abs, next)
		r.depth--
		return expanded
	case "mermaid":
		return codeFence(text, "mermaid")
	case "csv":
		table, err := CSVToTable(text)
		if err != nil {
			r.warn("cannot convert CSV %s: %v", path, err)
			return errorBlock("cannot convert CSV " + path)
		}
		return table
	case "css", "less":
		return styleTag(text)
	case "js", "javascript":
		return scriptTag(text)
	case "html", "htm":
		return text
	default:
		return codeFence(text, langFor(ext))
	}
}

// absPath normalizes a path for cycle-set membership. Abs only fails when
// the working directory is gone; the cleaned input is a safe fallback.
func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func (r *Resolver) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// sliceLines applies line_begin/line_end attributes: 1-based, both
// inclusive, clamped to the file's bounds.
func sliceLines(text string, a map[string]string) string {
	begin, hasBegin := atoiAttr(a, "line_begin")
	end, hasEnd := atoiAttr(a, "line_end")
	if !hasBegin && !hasEnd {
		return text
	}

	lines := strings.Split(text, "\n")
	if !hasBegin || begin < 1 {
		begin = 1
	}
	if !hasEnd || end > len(lines) {
		end = len(lines)
	}
	if begin > len(lines) || end < begin {
		return ""
	}
	return strings.Join(lines[begin-1:end], "\n")
}

func atoiAttr(a map[string]string, key string) (int, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// langFor maps a file extension to a fence language hint.
func langFor(ext string) string {
	if lang, ok := langAliases[ext]; ok {
		return lang
	}
	return ext
}

// codeFence wraps text in a fence long enough to contain any backtick
// runs inside the text itself.
func codeFence(text, lang string) string {
	marker := "```"
	run := 0
	longest := 0
	for _, c := range text {
		if c == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	for len(marker) <= longest {
		marker += "`"
	}
	return marker + lang + "\n" + strings.TrimRight(text, "\n") + "\n" + marker
}

func styleTag(css string) string {
	return "<style>" + strings.ReplaceAll(css, "</", `<\/`) + "</style>"
}

func scriptTag(js string) string {
	return "<script>" + strings.ReplaceAll(js, "</script", `<\/script`) + "</script>"
}

func errorBlock(msg string) string {
	return `<div class="mdp-import-error">` + html.EscapeString(msg) + `</div>`
}

// imageTag renders an <img> with optional width/height/title/alt
// attributes, percent-escaping the path.
func imageTag(path string, a map[string]string) string {
	u := url.URL{Path: filepath.ToSlash(path)}
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(u.EscapedPath())
	b.WriteByte('"')
	for _, key := range []string{"width", "height", "title", "alt"} {
		if v, ok := a[key]; ok {
			fmt.Fprintf(&b, ` %s="%s"`, key, html.EscapeString(v))
		}
	}
	b.WriteString(">")
	return b.String()
}
