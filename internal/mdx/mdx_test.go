package mdx

import (
	"strings"
	"testing"
)

func TestExportAndInlineSubstitution(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	got := p.Process("export const name = \"World\"\nHello {name}!")
	want := "Hello World!"
	if got != want {
		t.Errorf("Process() = %q, want %q", got, want)
	}
}

func TestExportsAccumulate(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	got := p.Process("export const x = 5\nexport const y = x * 2\n{y}")
	if !strings.Contains(got, "10") {
		t.Errorf("later export must see earlier one, got %q", got)
	}
}

func TestExportMultiLineBraceBalance(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "export const cfg = {\n  a: 1,\n  b: \"has } brace in string\"\n}\nvalue is {cfg.a}"
	got := p.Process(input)
	if !strings.Contains(got, "value is 1") {
		t.Errorf("multi-line export with braces in strings, got %q", got)
	}
}

func TestExportFailureLeavesBindingUndefined(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	got := p.Process("export const broken = )(\ntext {broken} end")
	// The declaration disappears, the reference stays literal since the
	// binding is undefined (evaluates to nil -> empty) or errors.
	if strings.Contains(got, "export const") {
		t.Errorf("export line must be removed, got %q", got)
	}
	if len(p.Warnings) == 0 {
		t.Error("expected warning for failed export")
	}
}

func TestFencedCodeProtected(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "export const x = 1\n```js\nexport const y = {x}\n```\n{x}"
	got := p.Process(input)
	if !strings.Contains(got, "export const y = {x}") {
		t.Errorf("fenced code must survive verbatim, got %q", got)
	}
	if !strings.HasSuffix(got, "1") {
		t.Errorf("expression outside fence must evaluate, got %q", got)
	}
}

func TestInlineCodeProtected(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	got := p.Process("export const x = 2\nuse `{x}` to interpolate, value: {x}")
	if !strings.Contains(got, "`{x}`") {
		t.Errorf("inline code must survive verbatim, got %q", got)
	}
	if !strings.Contains(got, "value: 2") {
		t.Errorf("inline expression outside code must evaluate, got %q", got)
	}
}

func TestDoubleBacktickSpanProtected(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	got := p.Process("``a ` {b}`` stays")
	if !strings.Contains(got, "``a ` {b}``") {
		t.Errorf("double-backtick span must survive, got %q", got)
	}
}

func TestEvaluationFailurePreservesText(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "price is {not.a.thing.at.all(} done"
	got := p.Process(input)
	if got != input {
		t.Errorf("failed inline expression must stay literal: %q", got)
	}
}

func TestHeadingAttrSyntaxSkipped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"custom id", "## Title {#custom-id}"},
		{"class", "## Title {.wide}"},
		{"ignore flag", "## Title {ignore=true}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewProcessor()
			got := p.Process(tt.input)
			if got != tt.input {
				t.Errorf("attr decoration must pass through, got %q want %q", got, tt.input)
			}
		})
	}
}

func TestTagBlockTranspilation(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "export const name = \"Ada\"\n<div className={\"greeting\"} style={{color: \"red\"}}>\n  Hello {name}\n</div>"
	got := p.Process(input)

	if !strings.Contains(got, `<div class="greeting"`) {
		t.Errorf("className must translate to class, got %q", got)
	}
	if !strings.Contains(got, `style="color: red"`) {
		t.Errorf("style object must become CSS string, got %q", got)
	}
	if !strings.Contains(got, "Hello Ada") {
		t.Errorf("child expression must interpolate, got %q", got)
	}
}

func TestTagBlockListRendering(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "export const items = [\"a\", \"b\"]\n<ul className={\"list\"}>\n{map(items, h(\"li\", nil, #))}\n</ul>"
	got := p.Process(input)

	if !strings.Contains(got, "<li>a</li>") || !strings.Contains(got, "<li>b</li>") {
		t.Errorf("list rendering must emit one li per item, got %q", got)
	}
}

func TestPlainHTMLBlockPassesThrough(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "<div>\nplain static html\n</div>"
	got := p.Process(input)
	if got != input {
		t.Errorf("block without templating markers must pass through, got %q", got)
	}
}

func TestBlockExpression(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "export const n = 3\n{\n  n > 2 ? \"big\" : \"small\"\n}"
	got := p.Process(input)
	if !strings.Contains(got, "big") {
		t.Errorf("block expression must evaluate, got %q", got)
	}
	if strings.Contains(got, "?") {
		t.Errorf("evaluated block must be spliced out, got %q", got)
	}
}

func TestBlockExpressionFailureKeepsSource(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "{\n  totally(bogus(\n}"
	got := p.Process(input)
	if !strings.Contains(got, "totally(bogus(") {
		t.Errorf("failed block must keep original text, got %q", got)
	}
}

func TestSandboxHasNoAmbientState(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	// Neither os nor any process state is reachable: the expression fails
	// and the source text stays.
	input := `{os.Getenv("HOME")}`
	got := p.Process(input)
	if got != input {
		t.Errorf("ambient access must fail closed, got %q", got)
	}
}

func TestVNodeRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		node     any
		expected string
	}{
		{
			name:     "simple element",
			node:     h("p", nil, "hi"),
			expected: "<p>hi</p>",
		},
		{
			name:     "escaped text child",
			node:     h("p", nil, "<b>"),
			expected: "<p>&lt;b&gt;</p>",
		},
		{
			name:     "boolean attribute",
			node:     h("input", map[string]any{"disabled": true, "type": "text"}),
			expected: `<input disabled type="text">`,
		},
		{
			name:     "false boolean omitted",
			node:     h("input", map[string]any{"disabled": false}),
			expected: `<input>`,
		},
		{
			name:     "htmlFor alias",
			node:     h("label", map[string]any{"htmlFor": "x"}, "name"),
			expected: `<label for="x">name</label>`,
		},
		{
			name:     "style object kebab cased",
			node:     h("span", map[string]any{"style": map[string]any{"backgroundColor": "blue", "width": 10}}),
			expected: `<span style="background-color: blue; width: 10"></span>`,
		},
		{
			name:     "raw html escape hatch",
			node:     h("div", map[string]any{"dangerouslySetInnerHTML": map[string]any{"__html": "<i>raw</i>"}}),
			expected: `<div><i>raw</i></div>`,
		},
		{
			name:     "nested children flattened",
			node:     h("ul", nil, []any{h("li", nil, "a"), h("li", nil, "b")}),
			expected: `<ul><li>a</li><li>b</li></ul>`,
		},
		{
			name:     "nil child disappears",
			node:     h("p", nil, nil, "x"),
			expected: `<p>x</p>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(tt.node)
			if got != tt.expected {
				t.Errorf("Render() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRestoreByteFidelity(t *testing.T) {
	t.Parallel()

	p := NewProcessor()
	input := "```python\nweird  bytes {not touched}\n```"
	got := p.Process(input)
	if got != input {
		t.Errorf("protected block must restore byte-identical, got %q", got)
	}
}
