package posthtml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

func TestTOCSubstituter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outline string
		in      string
		want    string
		gone    string
	}{
		{
			name:    "replaced with outline",
			outline: "<ul>\n<li><a href=\"#a\">A</a></li>\n</ul>\n",
			in:      `<p data-line="0">[TOC]</p><p>body</p>`,
			want:    `<nav class="mdp-toc">`,
			gone:    "[TOC]",
		},
		{
			name: "removed when empty",
			in:   `<p>[TOC]</p><p>body</p>`,
			want: "<p>body</p>",
			gone: "[TOC]",
		},
		{
			name: "inline mention untouched",
			in:   `<p>about the [TOC] marker</p>`,
			want: "about the [TOC] marker",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := (&TOCSubstituter{Outline: tt.outline}).Process(tt.in)
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("missing %q in %q", tt.want, got)
			}
			if tt.gone != "" && strings.Contains(got, tt.gone) {
				t.Errorf("%q should be gone from %q", tt.gone, got)
			}
		})
	}
}

func TestMatterRenderer(t *testing.T) {
	t.Parallel()

	items := []yamlutil.MapItem{
		{Key: "title", Value: "Doc"},
		{Key: "tags", Value: []any{"a", "b"}},
	}

	t.Run("table mode", func(t *testing.T) {
		t.Parallel()

		got := (&MatterRenderer{Mode: MatterTable, Items: items}).Process("<p>x</p>")
		if !strings.Contains(got, `<table class="mdp-front-matter">`) {
			t.Errorf("table missing: %q", got)
		}
		if !strings.Contains(got, "<th>title</th><td>Doc</td>") {
			t.Errorf("row missing: %q", got)
		}
		if !strings.Contains(got, "[a, b]") {
			t.Errorf("sequence flattening missing: %q", got)
		}
		if !strings.HasSuffix(got, "<p>x</p>") {
			t.Errorf("body must follow the table: %q", got)
		}
	})

	t.Run("code mode", func(t *testing.T) {
		t.Parallel()

		got := (&MatterRenderer{Mode: MatterCode, Raw: "title: Doc\n"}).Process("<p>x</p>")
		if !strings.Contains(got, `<code class="language-yaml">title: Doc`) {
			t.Errorf("yaml block missing: %q", got)
		}
	})

	t.Run("none mode", func(t *testing.T) {
		t.Parallel()

		if got := (&MatterRenderer{Mode: MatterNone, Items: items}).Process("<p>x</p>"); got != "<p>x</p>" {
			t.Errorf("none mode must not touch input, got %q", got)
		}
	})
}

func TestCalloutTransformer(t *testing.T) {
	t.Parallel()

	t.Run("fallback title capitalized", func(t *testing.T) {
		t.Parallel()

		in := "<blockquote>\n<p>[!warning]\nwatch out</p>\n</blockquote>"
		got := (&CalloutTransformer{}).Process(in)
		if !strings.Contains(got, "callout-warning") {
			t.Errorf("type class missing: %q", got)
		}
		if !strings.Contains(got, `<div class="callout-title">Warning</div>`) {
			t.Errorf("capitalized fallback title missing: %q", got)
		}
		if !strings.Contains(got, "watch out") {
			t.Errorf("body lost: %q", got)
		}
		if strings.Contains(got, "[!warning]") {
			t.Errorf("marker must be stripped: %q", got)
		}
	})

	t.Run("custom title", func(t *testing.T) {
		t.Parallel()

		in := "<blockquote>\n<p>[!note] Read me first\nbody</p>\n</blockquote>"
		got := (&CalloutTransformer{}).Process(in)
		if !strings.Contains(got, `<div class="callout-title">Read me first</div>`) {
			t.Errorf("custom title missing: %q", got)
		}
	})

	t.Run("plain blockquote untouched", func(t *testing.T) {
		t.Parallel()

		in := "<blockquote>\n<p>just a quote</p>\n</blockquote>"
		got := (&CalloutTransformer{}).Process(in)
		if strings.Contains(got, "mdp-callout") {
			t.Errorf("plain quote must stay plain: %q", got)
		}
	})
}

func TestMathSubstituter(t *testing.T) {
	t.Parallel()

	katex := NewMathSubstituter(MathConfig{Mode: MathKatex})

	tests := []struct {
		name string
		in   string
		want string
		gone string
	}{
		{
			name: "inline math",
			in:   "<p>$x^2$</p>",
			want: `<span class="math inline">x^2</span>`,
		},
		{
			name: "currency is not math",
			in:   "<p>price is $5 not math</p>",
			want: "price is $5 not math",
			gone: `class="math`,
		},
		{
			name: "block math",
			in:   "<p>$$\\sum_i i$$</p>",
			want: `<div class="math display">\sum_i i</div>`,
		},
		{
			name: "double dollar never two inline spans",
			in:   "<p>$$x$$</p>",
			gone: `math inline`,
		},
		{
			name: "code content untouched",
			in:   `<pre data-role="codeBlock"><code>$x^2$</code></pre>`,
			want: "<code>$x^2$</code>",
			gone: `class="math`,
		},
		{
			name: "entities unescaped before rendering",
			in:   "<p>$a &lt; b$</p>",
			want: `<span class="math inline">a &lt; b</span>`,
		},
		{
			name: "backslash paren inline",
			in:   `<p>\(x^2\)</p>`,
			want: `<span class="math inline">x^2</span>`,
		},
		{
			name: "backslash bracket block",
			in:   `<p>\[\sum_i i\]</p>`,
			want: `<div class="math display">\sum_i i</div>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := katex.Process(tt.in)
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("missing %q in %q", tt.want, got)
			}
			if tt.gone != "" && strings.Contains(got, tt.gone) {
				t.Errorf("%q should be absent from %q", tt.gone, got)
			}
		})
	}
}

func TestMathModes(t *testing.T) {
	t.Parallel()

	if got := NewMathSubstituter(MathConfig{Mode: MathMathJax}).Process("<p>$x$</p>"); !strings.Contains(got, `\(x\)`) {
		t.Errorf("mathjax mode must re-emit delimiters: %q", got)
	}
	if got := NewMathSubstituter(MathConfig{Mode: MathNone}).Process("<p>$x$</p>"); got != "<p>$x$</p>" {
		t.Errorf("none mode must skip substitution: %q", got)
	}
}

func TestHighlighter(t *testing.T) {
	t.Parallel()

	in := `<pre data-role="codeBlock" data-line="4"><code class="language-go">package main</code></pre>`
	got := (&Highlighter{}).Process(in)

	if !strings.Contains(got, `data-line="4"`) {
		t.Errorf("data-line must migrate to the regenerated pre: %q", got)
	}
	if !strings.Contains(got, `data-role="codeBlock"`) {
		t.Errorf("role selector must survive highlighting: %q", got)
	}
	if !strings.Contains(got, "chroma") {
		t.Errorf("highlighted output expected: %q", got)
	}
}

func TestHighlighterUnknownLanguage(t *testing.T) {
	t.Parallel()

	in := `<pre data-role="codeBlock"><code class="language-nosuchlang">xyz</code></pre>`
	got := (&Highlighter{}).Process(in)
	if !strings.Contains(got, "xyz") {
		t.Errorf("unknown language must keep its content: %q", got)
	}
}

func TestImageResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	png := filepath.Join(dir, "pixel.png")
	if err := os.WriteFile(png, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatal(err)
	}
	srcPath := filepath.Join(dir, "doc.md")

	t.Run("inline as data uri", func(t *testing.T) {
		t.Parallel()

		r := &ImageResolver{SourcePath: srcPath, Inline: true}
		got := r.Process(`<p><img src="pixel.png"/></p>`)
		if !strings.Contains(got, "data:image/png;base64,") {
			t.Errorf("data URI expected: %q", got)
		}
	})

	t.Run("resolve without inlining", func(t *testing.T) {
		t.Parallel()

		r := &ImageResolver{SourcePath: srcPath}
		got := r.Process(`<p><img src="pixel.png"/></p>`)
		if !strings.Contains(got, png) {
			t.Errorf("resolved path expected in %q", got)
		}
	})

	t.Run("remote and missing untouched", func(t *testing.T) {
		t.Parallel()

		r := &ImageResolver{SourcePath: srcPath, Inline: true}
		in := `<p><img src="https://example.com/x.png"/><img src="gone.png"/></p>`
		got := r.Process(in)
		if !strings.Contains(got, "https://example.com/x.png") || !strings.Contains(got, "gone.png") {
			t.Errorf("remote and missing srcs must stay as written: %q", got)
		}
	})
}
