package markdown

import (
	"strings"
	"testing"
)

func TestParseInfoString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		info     string
		lang     string
		expected map[string]string
	}{
		{
			name:     "bare language",
			info:     "python",
			lang:     "python",
			expected: map[string]string{},
		},
		{
			name:     "language with braced attrs",
			info:     `python {cmd=python hide=true}`,
			lang:     "python",
			expected: map[string]string{"cmd": "python", "hide": "true"},
		},
		{
			name:     "class shorthand and quoted value",
			info:     `js {.line-numbers id="setup"}`,
			lang:     "js",
			expected: map[string]string{"class": "line-numbers", "id": "setup"},
		},
		{
			name:     "uppercase language normalized",
			info:     "SQL",
			lang:     "sql",
			expected: map[string]string{},
		},
		{
			name:     "empty",
			info:     "",
			lang:     "",
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseInfoString(tt.info)
			if got.Language != tt.lang {
				t.Errorf("Language = %q, want %q", got.Language, tt.lang)
			}
			if len(got.Attrs) != len(tt.expected) {
				t.Fatalf("Attrs = %v, want %v", got.Attrs, tt.expected)
			}
			for k, v := range tt.expected {
				if got.Attrs[k] != v {
					t.Errorf("Attrs[%q] = %q, want %q", k, got.Attrs[k], v)
				}
			}
		})
	}
}

func TestFencePlain(t *testing.T) {
	t.Parallel()

	got := render(t, "```python\nprint(\"<hi>\")\n```\n", &Env{})
	if !strings.Contains(got, `<pre data-role="codeBlock" data-line="0">`) {
		t.Errorf("plain fence container missing: %q", got)
	}
	if !strings.Contains(got, `<code class="language-python">`) {
		t.Errorf("language class missing: %q", got)
	}
	if !strings.Contains(got, "&lt;hi&gt;") {
		t.Errorf("code content must be escaped: %q", got)
	}
}

func TestFencePlainMultiline(t *testing.T) {
	t.Parallel()

	got := render(t, "```go\nfirst()\nsecond()\nthird()\n```\n", &Env{})
	if !strings.Contains(got, "first()\nsecond()\nthird()\n") {
		t.Errorf("all source lines must survive in order: %q", got)
	}
}

func TestFenceIndentedCodeBlock(t *testing.T) {
	t.Parallel()

	got := render(t, "para\n\n    indented code\n", &Env{})
	if !strings.Contains(got, `<pre data-role="codeBlock"`) {
		t.Errorf("indented blocks must go through the dispatcher too: %q", got)
	}
	if strings.Contains(got, "language-") {
		t.Errorf("indented block has no language: %q", got)
	}
}

func TestFenceChunk(t *testing.T) {
	t.Parallel()

	got := render(t, "```python {cmd=python id=setup args=\"-u\"}\nprint(1)\n```\n", &Env{})
	for _, want := range []string{
		`<div class="code-chunk"`,
		`data-id="setup"`,
		`data-cmd="python"`,
		`data-lang="python"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("chunk output missing %q: %q", want, got)
		}
	}
}

func TestFenceChunkAutoID(t *testing.T) {
	t.Parallel()

	src := "```bash {cmd=bash}\na\n```\n\n```bash {cmd=bash}\nb\n```\n"
	got := render(t, src, &Env{})
	if !strings.Contains(got, `data-id="chunk-1"`) || !strings.Contains(got, `data-id="chunk-2"`) {
		t.Errorf("auto chunk ids must count per render: %q", got)
	}
}

func TestFenceChunkHide(t *testing.T) {
	t.Parallel()

	got := render(t, "```python {cmd=python hide=true}\nsecret()\n```\n", &Env{})
	if strings.Contains(got, "secret()") {
		t.Errorf("hide=true must suppress the source listing: %q", got)
	}
	if !strings.Contains(got, `class="code-chunk"`) {
		t.Errorf("hidden chunk still needs its container: %q", got)
	}
}

func TestFenceCmdFalseStaysPlain(t *testing.T) {
	t.Parallel()

	got := render(t, "```python {cmd=false}\nx = 1\n```\n", &Env{})
	if strings.Contains(got, "code-chunk") {
		t.Errorf("cmd=false must not create a chunk: %q", got)
	}
}

func TestFenceDiagramSource(t *testing.T) {
	t.Parallel()

	got := render(t, "```mermaid\ngraph TD;\nA-->B;\n```\n", &Env{})
	if !strings.Contains(got, `<div class="mdp-diagram" data-diagram="mermaid"`) {
		t.Errorf("mermaid fence must become a diagram container: %q", got)
	}
	if !strings.Contains(got, "A--&gt;B;") {
		t.Errorf("source payload must be escaped text: %q", got)
	}
}

func TestFenceDiagramJSON(t *testing.T) {
	t.Parallel()

	got := render(t, "```vega-lite\n{\"mark\": \"bar\"}\n```\n", &Env{})
	if !strings.Contains(got, `data-diagram="vega-lite"`) {
		t.Errorf("vega-lite fence must become a diagram container: %q", got)
	}
	if !strings.Contains(got, `<script type="application/json">{"mark": "bar"}`) {
		t.Errorf("json payload belongs in a script tag unescaped: %q", got)
	}
}

func TestFenceCodeBlockOverridesDiagram(t *testing.T) {
	t.Parallel()

	got := render(t, "```mermaid {code_block=true}\ngraph TD;\n```\n", &Env{})
	if strings.Contains(got, "mdp-diagram") {
		t.Errorf("code_block=true must force the plain form: %q", got)
	}
	if !strings.Contains(got, `<code class="language-mermaid">`) {
		t.Errorf("forced plain block keeps its language: %q", got)
	}
}

func TestFenceKroki(t *testing.T) {
	t.Parallel()

	got := render(t, "```plantuml {kroki=true}\nA -> B\n```\n", &Env{})
	if !strings.Contains(got, `<img class="kroki-diagram"`) {
		t.Errorf("kroki fence must render an image: %q", got)
	}
	if !strings.Contains(got, `src="https://kroki.io/plantuml/svg/`) {
		t.Errorf("kroki src must target server/lang/svg: %q", got)
	}
}

func TestFenceKrokiUnknownLanguage(t *testing.T) {
	t.Parallel()

	got := render(t, "```nosuchlang {kroki=true}\nx\n```\n", &Env{})
	if strings.Contains(got, "kroki-diagram") {
		t.Errorf("unsupported kroki language must fall back to plain: %q", got)
	}
}
