package mdx

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"
)

// VNode is one node of the transient virtual tree built by the h()
// tree-builder during expression evaluation. It only lives long enough
// to be serialized back to HTML.
type VNode struct {
	Tag      string
	Props    map[string]any
	Children []any // *VNode, string, or nested slices (flattened on render)
}

// voidElements have no closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// h is the tree-builder exposed to evaluated expressions:
// h(tag, props, children...). A nil props map is allowed, and child
// slices are flattened so list-rendering expressions compose naturally.
func h(args ...any) any {
	if len(args) == 0 {
		return &VNode{Tag: "div"}
	}
	node := &VNode{Tag: fmt.Sprint(args[0])}
	rest := args[1:]
	if len(rest) > 0 {
		if props, ok := rest[0].(map[string]any); ok || rest[0] == nil {
			node.Props = props
			rest = rest[1:]
		}
	}
	node.Children = append(node.Children, rest...)
	return node
}

// Render serializes a virtual node tree to HTML. Non-node values render
// as escaped text; nil children disappear (conditional rendering).
func Render(v any) string {
	var b strings.Builder
	renderValue(&b, v)
	return b.String()
}

func renderValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
	case *VNode:
		renderNode(b, t)
	case string:
		b.WriteString(html.EscapeString(t))
	case []any:
		for _, c := range t {
			renderValue(b, c)
		}
	default:
		b.WriteString(html.EscapeString(fmt.Sprint(t)))
	}
}

func renderNode(b *strings.Builder, n *VNode) {
	b.WriteByte('<')
	b.WriteString(n.Tag)

	rawHTML := ""
	keys := make([]string, 0, len(n.Props))
	for k := range n.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		val := n.Props[k]
		name := translateAttr(k)
		switch {
		case name == "dangerouslySetInnerHTML":
			if m, ok := val.(map[string]any); ok {
				if s, ok := m["__html"].(string); ok {
					rawHTML = s
				}
			}
		case name == "style":
			if m, ok := val.(map[string]any); ok {
				fmt.Fprintf(b, ` style="%s"`, html.EscapeString(styleString(m)))
			} else if val != nil {
				fmt.Fprintf(b, ` style="%s"`, html.EscapeString(fmt.Sprint(val)))
			}
		default:
			switch bv := val.(type) {
			case bool:
				if bv {
					fmt.Fprintf(b, ` %s`, name)
				}
			case nil:
			default:
				fmt.Fprintf(b, ` %s="%s"`, name, html.EscapeString(fmt.Sprint(bv)))
			}
		}
	}

	if voidElements[n.Tag] && rawHTML == "" && len(n.Children) == 0 {
		b.WriteString(">")
		return
	}
	b.WriteByte('>')

	if rawHTML != "" {
		b.WriteString(rawHTML)
	} else {
		for _, c := range n.Children {
			renderValue(b, c)
		}
	}

	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}

// translateAttr maps templating attribute aliases to their HTML names.
func translateAttr(name string) string {
	switch name {
	case "className":
		return "class"
	case "htmlFor":
		return "for"
	}
	return name
}

// styleString converts a style-object map to a CSS declaration string,
// kebab-casing camelCase property names.
func styleString(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, kebabCase(k)+": "+fmt.Sprint(m[k]))
	}
	return strings.Join(parts, "; ")
}

func kebabCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
