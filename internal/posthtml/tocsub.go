package posthtml

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TOCSubstituter replaces literal [TOC] paragraphs with the generated
// outline, or removes them when the outline is empty.
type TOCSubstituter struct {
	// Outline is the rendered list HTML, "" when the document has no
	// eligible headings.
	Outline string
}

func (t *TOCSubstituter) Process(fragment string) string {
	if !strings.Contains(fragment, "[TOC]") {
		return fragment
	}
	return rewriteDoc(fragment, func(doc *goquery.Document) {
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			if strings.TrimSpace(p.Text()) != "[TOC]" {
				return
			}
			if t.Outline == "" {
				p.Remove()
				return
			}
			p.ReplaceWithHtml(`<nav class="mdp-toc">` + "\n" + t.Outline + "</nav>")
		})
	})
}
