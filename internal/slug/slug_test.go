package slug

import "testing"

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple word",
			input:    "Intro",
			expected: "intro",
		},
		{
			name:     "spaces become hyphens",
			input:    "Getting Started Guide",
			expected: "getting-started-guide",
		},
		{
			name:     "punctuation removed",
			input:    "What's new?",
			expected: "whats-new",
		},
		{
			name:     "whitespace runs collapse",
			input:    "a   \t  b",
			expected: "a-b",
		},
		{
			name:     "leading and trailing hyphens trimmed",
			input:    "--- hello ---",
			expected: "hello",
		},
		{
			name:     "digits and underscores kept",
			input:    "step_2 of 3",
			expected: "step_2-of-3",
		},
		{
			name:     "empty becomes fallback",
			input:    "",
			expected: "heading",
		},
		{
			name:     "all punctuation becomes fallback",
			input:    "!!!",
			expected: "heading",
		},
		{
			name:     "idempotent on own output",
			input:    "getting-started-guide",
			expected: "getting-started-guide",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Make(tt.input)
			if got != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDeduper(t *testing.T) {
	t.Parallel()

	d := NewDeduper()

	got := []string{
		d.Take("intro"),
		d.Take("intro"),
		d.Take("intro"),
		d.Take("usage"),
	}
	want := []string{"intro", "intro-1", "intro-2", "usage"}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Take sequence[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDeduperExplicitCollision(t *testing.T) {
	t.Parallel()

	d := NewDeduper()

	// A literal "intro-1" heading occupies the first suffix slot.
	if got := d.Take("intro-1"); got != "intro-1" {
		t.Fatalf("Take(intro-1) = %q, want intro-1", got)
	}
	if got := d.Take("intro"); got != "intro" {
		t.Fatalf("Take(intro) = %q, want intro", got)
	}
	if got := d.Take("intro"); got != "intro-2" {
		t.Errorf("Take(intro) second = %q, want intro-2 (intro-1 already taken)", got)
	}
}
