package frontmatter

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantBody   string
		wantOffset int
		wantMatter bool
		wantWarn   bool
	}{
		{
			name:       "no front matter",
			input:      "# Heading\n\nbody\n",
			wantBody:   "# Heading\n\nbody\n",
			wantOffset: 0,
		},
		{
			name:       "three line block",
			input:      "---\ntitle: Test\n---\n# Heading\n",
			wantBody:   "# Heading\n",
			wantOffset: 3,
			wantMatter: true,
		},
		{
			name:       "dots terminator",
			input:      "---\ntitle: Test\n...\nbody\n",
			wantBody:   "body\n",
			wantOffset: 3,
			wantMatter: true,
		},
		{
			name:       "unterminated block is plain body",
			input:      "---\ntitle: Test\nbody\n",
			wantBody:   "---\ntitle: Test\nbody\n",
			wantOffset: 0,
		},
		{
			name:       "decode failure keeps body and offset",
			input:      "---\n: : :\nnot yaml: [unclosed\n---\nbody\n",
			wantBody:   "body\n",
			wantOffset: 4,
			wantWarn:   true,
		},
		{
			name:       "dashes mid document are not front matter",
			input:      "intro\n---\nkey: value\n---\n",
			wantBody:   "intro\n---\nkey: value\n---\n",
			wantOffset: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(tt.input)
			if got.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.LineOffset != tt.wantOffset {
				t.Errorf("LineOffset = %d, want %d", got.LineOffset, tt.wantOffset)
			}
			if (got.Matter != nil) != tt.wantMatter {
				t.Errorf("Matter presence = %v, want %v", got.Matter != nil, tt.wantMatter)
			}
			if (got.Warning != "") != tt.wantWarn {
				t.Errorf("Warning = %q, want warning: %v", got.Warning, tt.wantWarn)
			}
		})
	}
}

func TestMatterKeyOrder(t *testing.T) {
	t.Parallel()

	doc := Extract("---\nzed: 1\nalpha: 2\nmid: 3\n---\n")
	if doc.Matter == nil {
		t.Fatal("expected front matter")
	}

	var keys []string
	for _, it := range doc.Matter {
		keys = append(keys, it.Key)
	}
	if got, want := strings.Join(keys, ","), "zed,alpha,mid"; got != want {
		t.Errorf("key order = %q, want %q", got, want)
	}
}

func TestMatterLookup(t *testing.T) {
	t.Parallel()

	doc := Extract("---\ntoc:\n  depth_from: 2\n  depth_to: 4\n  ordered: true\nmarp: true\ntitle: Demo\n---\n")
	if doc.Matter == nil {
		t.Fatal("expected front matter")
	}

	if n, ok := doc.Matter.Int("toc.depth_from"); !ok || n != 2 {
		t.Errorf("Int(toc.depth_from) = %d, %v, want 2, true", n, ok)
	}
	if n, ok := doc.Matter.Int("toc.depth_to"); !ok || n != 4 {
		t.Errorf("Int(toc.depth_to) = %d, %v, want 4, true", n, ok)
	}
	if b, ok := doc.Matter.Bool("toc.ordered"); !ok || !b {
		t.Errorf("Bool(toc.ordered) = %v, %v, want true, true", b, ok)
	}
	if b, ok := doc.Matter.Bool("marp"); !ok || !b {
		t.Errorf("Bool(marp) = %v, %v, want true, true", b, ok)
	}
	if s, ok := doc.Matter.String("title"); !ok || s != "Demo" {
		t.Errorf("String(title) = %q, %v, want Demo, true", s, ok)
	}
	if _, ok := doc.Matter.Lookup("missing.path"); ok {
		t.Error("Lookup(missing.path) = ok, want miss")
	}
}
