package posthtml

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// calloutMarker matches "[!type]" plus an optional custom title on the
// same line at the start of a blockquote's first paragraph.
var calloutMarker = regexp.MustCompile(`^\[!(\w+)\][ \t]*([^\n<]*)`)

// CalloutTransformer turns "> [!note]" style blockquotes into styled
// callout blocks with a derived title.
type CalloutTransformer struct{}

func (c *CalloutTransformer) Process(fragment string) string {
	if !strings.Contains(fragment, "[!") {
		return fragment
	}
	return rewriteDoc(fragment, func(doc *goquery.Document) {
		doc.Find("blockquote").Each(func(_ int, bq *goquery.Selection) {
			first := bq.Find("p").First()
			if first.Length() == 0 {
				return
			}
			inner, err := first.Html()
			if err != nil {
				return
			}
			m := calloutMarker.FindStringSubmatch(inner)
			if m == nil {
				return
			}

			kind := strings.ToLower(m[1])
			title := strings.TrimSpace(m[2])
			if title == "" {
				title = capitalize(kind)
			}

			rest := strings.TrimPrefix(inner, m[0])
			rest = strings.TrimLeft(rest, "\n")
			rest = strings.TrimPrefix(rest, "<br/>")
			rest = strings.TrimLeft(rest, "\n")
			if strings.TrimSpace(rest) == "" {
				first.Remove()
			} else {
				first.SetHtml(rest)
			}

			bq.AddClass("mdp-callout", "callout-"+kind)
			bq.PrependHtml(`<div class="callout-title">` + html.EscapeString(title) + `</div>`)
		})
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
