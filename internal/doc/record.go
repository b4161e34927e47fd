package doc

import (
	"errors"
	"fmt"
	"slices"
)

// Errors returned by the content model.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownKind     = errors.New("unknown paragraph kind")
	ErrOutOfRange      = errors.New("index out of range")
	ErrColumnNotFound  = errors.New("column not found")
)

// Category is the content schema of a document. It is fixed at creation.
type Category int

// Categories. The zero value is invalid so an unset field is detectable.
const (
	CategoryText Category = iota + 1
	CategoryTable
)

// ParseCategory parses the tag written to cover.json ("text" or "table").
func ParseCategory(s string) (Category, error) {
	switch s {
	case "text":
		return CategoryText, nil
	case "table":
		return CategoryTable, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

func (c Category) String() string {
	switch c {
	case CategoryText:
		return "text"
	case CategoryTable:
		return "table"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c == CategoryText || c == CategoryTable
}

// Record is the cover metadata of a document, stored apart from its content.
type Record struct {
	Title    string
	Category Category
	Keywords []string
}

// Clone returns a copy of r that shares no memory with it.
func (r Record) Clone() Record {
	r.Keywords = slices.Clone(r.Keywords)
	if r.Keywords == nil {
		r.Keywords = []string{}
	}

	return r
}

// HasKeyword reports whether k is one of the record's keywords.
func (r Record) HasKeyword(k string) bool {
	return slices.Contains(r.Keywords, k)
}

// Content is a document body that can be persisted under a file id.
// It is implemented by [Text] and [Table].
type Content interface {
	Category() Category
}
