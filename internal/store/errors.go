package store

import (
	"errors"
	"strings"
)

// Sentinel errors. Use [errors.Is] to test for them.
var (
	// ErrContentMissing reports that a file has no content.json yet.
	ErrContentMissing = errors.New("content missing")

	// ErrContentMalformed reports a content.json that is not valid JSON of
	// the expected shape.
	ErrContentMalformed = errors.New("content malformed")

	// ErrCoverMalformed reports a cover.json that cannot be turned into a record.
	ErrCoverMalformed = errors.New("cover malformed")

	// ErrInvalidUTF8 reports a string that JSON cannot hold unchanged. Nothing
	// is written.
	ErrInvalidUTF8 = errors.New("text is not valid UTF-8")
)

// Error is the error type returned by [Store] operations on a single file.
//
// The underlying error message appears first, followed by file context:
//
//	write files/AAAAAAAAAAE/cover.json: read-only file system (file_id=AAAAAAAAAAE path=files/AAAAAAAAAAE/cover.json)
//
// Use [errors.As] to extract fields and [errors.Is] for sentinels.
type Error struct {
	// ID is the encoded file identifier.
	ID string

	// Path is relative to the store root.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error formats as "<cause> (file_id=X path=Y)".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	cause := ""
	if e.Err != nil {
		cause = e.Err.Error()
	}

	var parts []string

	if e.ID != "" {
		parts = append(parts, "file_id="+e.ID)
	}

	if e.Path != "" {
		parts = append(parts, "path="+e.Path)
	}

	if len(parts) == 0 {
		return cause
	}

	suffix := "(" + strings.Join(parts, " ") + ")"
	if cause == "" {
		return suffix
	}

	return cause + " " + suffix
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}
