package markdown

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
)

// krokiURL builds the external rendering service URL for a diagram:
// the source is deflate-compressed and base64url-encoded into the path.
func krokiURL(server, language, source string) (string, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("compressing diagram source: %w", err)
	}
	if _, err := w.Write([]byte(source)); err != nil {
		return "", fmt.Errorf("compressing diagram source: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compressing diagram source: %w", err)
	}

	payload := base64.URLEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("%s/%s/svg/%s", server, language, payload), nil
}
