package markdown

import (
	"strings"

	"github.com/alnah/go-mdpreview/internal/attrs"
)

// FenceInfo is the parsed form of a fence info string:
//
//	language {key=value key2="v" .cssClass bareFlag arr=["a","b"]}
type FenceInfo struct {
	Language string
	Attrs    map[string]string
}

// parseInfoString splits the language token from the attribute group.
// Attributes may appear braced or bare after the language.
func parseInfoString(info string) FenceInfo {
	info = strings.TrimSpace(info)
	if info == "" {
		return FenceInfo{Attrs: map[string]string{}}
	}

	lang := info
	rest := ""
	for i := 0; i < len(info); i++ {
		if info[i] == ' ' || info[i] == '\t' || info[i] == '{' {
			lang = info[:i]
			rest = strings.TrimSpace(info[i:])
			break
		}
	}

	if strings.HasPrefix(rest, "{") && strings.HasSuffix(rest, "}") {
		rest = rest[1 : len(rest)-1]
	}

	return FenceInfo{
		Language: strings.ToLower(lang),
		Attrs:    attrs.Parse(rest),
	}
}
