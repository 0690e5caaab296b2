package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is wrapped by a ParseError when a record has a
	// non-numeric or missing component.
	ErrMalformed = errors.New("malformed record")

	// ErrIndexRange is wrapped when a face references a vertex outside
	// the vertex buffer.
	ErrIndexRange = errors.New("index out of range")

	// ErrUnsupportedFormat is returned by Load for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported model format")
)

// ParseError reports a failure to load a mesh description. The whole load
// is aborted; no partial mesh is returned.
type ParseError struct {
	Path string // File name, empty when parsing a bare reader
	Line int    // 1-based line number
	Text string // Offending line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
