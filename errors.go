package mdpreview

import "errors"

// Sentinel errors for library operations. Only total failures surface
// as Go errors; malformed constructs inside a document degrade to
// inline HTML fragments and result warnings instead.
var (
	ErrNoInput    = errors.New("no markdown content or source path given")
	ErrSourceRead = errors.New("failed to read source document")
	ErrRender     = errors.New("markdown rendering failed")
)
