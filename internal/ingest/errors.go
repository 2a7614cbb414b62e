package ingest

import (
	"fmt"

	"github.com/rafa3lsilva/Sistema-Inventario/internal/apperr"
)

// ParseError reports an upload that could not be decoded (encoding,
// delimiter, CSV syntax, unreadable spreadsheet). The caller may re-upload.
type ParseError struct {
	Format string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes ParseError match apperr.ErrParse.
func (e *ParseError) Is(target error) bool { return target == apperr.ErrParse }
