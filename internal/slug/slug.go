// Package slug derives URL-safe anchor identifiers from heading text.
//
// The same Make function feeds both the in-renderer heading-ID pass and the
// standalone TOC scan, so anchors and TOC links always agree.
package slug

import (
	"strconv"
	"strings"
	"unicode"
)

// Fallback is used when a heading slugifies to the empty string.
const Fallback = "heading"

// Make converts heading text to a slug: lowercase, whitespace runs become
// single hyphens, anything outside [a-z0-9_-] is dropped, leading and
// trailing hyphens are trimmed. An empty result becomes Fallback.
func Make(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inSpace := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte('-')
			inSpace = false
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}

	s := strings.Trim(b.String(), "-")
	if s == "" {
		return Fallback
	}
	return s
}

// ResolveID picks a heading's anchor id with the shared priority order:
// an explicit {#custom-id} wins, then an inbound fragment link whose text
// matches the display text case-insensitively, then the computed slug.
// Every result still passes through the deduper so both passes count
// collisions identically.
func ResolveID(d *Deduper, display, explicit string, inbound map[string]string) string {
	if explicit != "" {
		return d.Take(explicit)
	}
	if frag, ok := inbound[strings.ToLower(strings.TrimSpace(display))]; ok {
		return d.Take(frag)
	}
	return d.Take(Make(display))
}

// Deduper disambiguates duplicate slugs within one render pass.
// The first occurrence keeps the bare slug; later occurrences get
// "-1", "-2", ... suffixes in document order.
type Deduper struct {
	seen map[string]int
}

// NewDeduper creates an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]int)}
}

// Take registers s and returns its unique form for this pass.
func (d *Deduper) Take(s string) string {
	n, dup := d.seen[s]
	if !dup {
		d.seen[s] = 0
		return s
	}
	n++
	d.seen[s] = n
	unique := s + "-" + strconv.Itoa(n)
	// A heading literally named "intro-1" must not collide with the
	// generated suffix form.
	for {
		if _, taken := d.seen[unique]; !taken {
			break
		}
		n++
		d.seen[s] = n
		unique = s + "-" + strconv.Itoa(n)
	}
	d.seen[unique] = 0
	return unique
}
