package posthtml

import (
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alnah/go-mdpreview/internal/fileutil"
)

// DefaultMaxInlineSize caps how large a local image may be before
// inlining is skipped in favor of the resolved path.
const DefaultMaxInlineSize int64 = 2 << 20

// ImageResolver resolves relative <img src> paths against the source
// file's directory and, when enabled, inlines existing files as data
// URIs for rendering surfaces that cannot fetch local files.
type ImageResolver struct {
	// SourcePath is the markdown file the HTML came from; empty disables
	// resolution entirely.
	SourcePath string
	// Inline embeds resolved files as data URIs.
	Inline bool
	// MaxInlineSize caps inlined file size; zero means DefaultMaxInlineSize.
	MaxInlineSize int64
}

func (r *ImageResolver) Process(fragment string) string {
	if r.SourcePath == "" || !strings.Contains(fragment, "<img") {
		return fragment
	}
	limit := r.MaxInlineSize
	if limit <= 0 {
		limit = DefaultMaxInlineSize
	}

	return rewriteDoc(fragment, func(doc *goquery.Document) {
		doc.Find("img").Each(func(_ int, img *goquery.Selection) {
			src, ok := img.Attr("src")
			if !ok || src == "" {
				return
			}
			if fileutil.IsURL(src) || strings.HasPrefix(src, "data:") || filepath.IsAbs(src) {
				return
			}

			resolved := fileutil.Resolve(r.SourcePath, src)
			if !fileutil.FileExists(resolved) {
				return
			}

			if r.Inline {
				if uri, ok := dataURI(resolved, limit); ok {
					img.SetAttr("src", uri)
					return
				}
			}
			img.SetAttr("src", resolved)
		})
	})
}

// dataURI reads path and encodes it as a data URI, refusing files over
// the size cap.
func dataURI(path string, limit int64) (string, bool) {
	data, err := fileutil.ReadBounded(path)
	if err != nil || int64(len(data)) > limit {
		return "", false
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	// strip charset etc. appended by the mime table
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(data), true
}
