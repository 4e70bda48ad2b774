package posthtml

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter colors every <pre data-role="codeBlock"> through chroma.
// The formatter regenerates the <pre> wrapper, so the original data-line
// and class attributes are migrated onto it. Unknown languages and
// tokenizer failures keep the plain escaped block.
type Highlighter struct {
	// Style is a chroma style name; empty selects the fallback style.
	Style string
	// LineNumbers turns on chroma's line-number column.
	LineNumbers bool
}

func (h *Highlighter) Process(fragment string) string {
	if !strings.Contains(fragment, `data-role="codeBlock"`) {
		return fragment
	}
	style := styles.Get(h.Style)
	if style == nil {
		style = styles.Fallback
	}

	return rewriteDoc(fragment, func(doc *goquery.Document) {
		doc.Find(`pre[data-role="codeBlock"]`).Each(func(_ int, pre *goquery.Selection) {
			code := pre.Find("code").First()
			if code.Length() == 0 {
				return
			}
			lang := languageOf(code)
			if lang == "" {
				return
			}
			lexer := lexers.Get(lang)
			if lexer == nil {
				return
			}
			lexer = chroma.Coalesce(lexer)

			source := code.Text()
			iterator, err := lexer.Tokenise(nil, source)
			if err != nil {
				return
			}

			var b strings.Builder
			formatter := chromahtml.New(
				chromahtml.WithClasses(true),
				chromahtml.WithLineNumbers(h.LineNumbers),
			)
			if err := formatter.Format(&b, style, iterator); err != nil {
				return
			}

			pre.ReplaceWithHtml(migrateAttrs(b.String(), pre, lang))
		})
	})
}

// languageOf extracts X from a code element's language-X class.
func languageOf(code *goquery.Selection) string {
	cls, _ := code.Attr("class")
	for _, c := range strings.Fields(cls) {
		if lang, found := strings.CutPrefix(c, "language-"); found {
			return lang
		}
	}
	return ""
}

// migrateAttrs rewrites the first <pre of the formatted output to carry
// the original block's data attributes and classes alongside chromaable
// classes, keeping scroll-sync and role selectors working.
func migrateAttrs(formatted string, orig *goquery.Selection, lang string) string {
	attrs := ` data-role="codeBlock" data-lang="` + lang + `"`
	if line, ok := orig.Attr("data-line"); ok {
		attrs += ` data-line="` + line + `"`
	}
	if cls, ok := orig.Attr("class"); ok && cls != "" {
		formatted = strings.Replace(formatted, `<pre class="chroma`, `<pre class="chroma `+cls, 1)
	}
	return strings.Replace(formatted, "<pre", "<pre"+attrs, 1)
}
