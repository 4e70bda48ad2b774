// Package posthtml rewrites rendered HTML fragments in a fixed order:
// table-of-contents substitution, front-matter rendering, callout
// transformation, math substitution, code highlighting, and image path
// resolution. Every step degrades locally; a processor that cannot
// improve its input returns it unchanged.
package posthtml

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Processor rewrites one HTML fragment. Implementations never fail the
// chain; unrecoverable conditions keep the input as-is.
type Processor interface {
	Process(html string) string
}

// Apply runs processors in order over fragment.
func Apply(fragment string, procs ...Processor) string {
	for _, p := range procs {
		fragment = p.Process(fragment)
	}
	return fragment
}

// rewriteDoc parses fragment, lets fn mutate the document, and
// serializes the body back out. Parse or serialize failure returns the
// input untouched.
func rewriteDoc(fragment string, fn func(*goquery.Document)) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	fn(doc)
	out, err := doc.Find("body").Html()
	if err != nil {
		return fragment
	}
	return out
}
