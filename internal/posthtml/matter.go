package posthtml

import (
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-mdpreview/internal/yamlutil"
)

// Front-matter rendering modes.
const (
	MatterNone  = "none"
	MatterTable = "table"
	MatterCode  = "code"
)

// MatterRenderer prepends the front-matter mapping to the document,
// either as a key/value table or as the raw YAML in a code block.
type MatterRenderer struct {
	Mode  string
	Items []yamlutil.MapItem
	// Raw is the original YAML block text, used by the code mode so the
	// author sees exactly what they wrote.
	Raw string
}

func (m *MatterRenderer) Process(fragment string) string {
	switch m.Mode {
	case MatterTable:
		if len(m.Items) == 0 {
			return fragment
		}
		return m.table() + fragment
	case MatterCode:
		if strings.TrimSpace(m.Raw) == "" {
			return fragment
		}
		return `<pre data-role="codeBlock" class="mdp-front-matter"><code class="language-yaml">` +
			html.EscapeString(m.Raw) + "</code></pre>\n" + fragment
	default:
		return fragment
	}
}

func (m *MatterRenderer) table() string {
	var b strings.Builder
	b.WriteString("<table class=\"mdp-front-matter\">\n<tbody>\n")
	for _, it := range m.Items {
		b.WriteString("<tr><th>")
		b.WriteString(html.EscapeString(it.Key))
		b.WriteString("</th><td>")
		b.WriteString(html.EscapeString(valueString(it.Value)))
		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

// valueString flattens a front-matter value for table display. Nested
// mappings and sequences fall back to their YAML form on one line.
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []yamlutil.MapItem:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			parts = append(parts, it.Key+": "+valueString(it.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, valueString(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}
