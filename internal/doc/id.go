// Package doc holds the in-memory model of notebook documents: file identity,
// cover records, and the two content schemas (text and table).
package doc

import (
	"github.com/calvinalkan/notebook/internal/ident"
)

// FileID identifies a document within a notebook root.
// Its string form is the directory name under files/.
type FileID uint64

// ParseFileID decodes the string form of a FileID. Errors wrap [ident.ErrDecode].
func ParseFileID(s string) (FileID, error) {
	v, err := ident.Decode(s)
	if err != nil {
		return 0, err
	}

	return FileID(v), nil
}

func (id FileID) String() string {
	return ident.Encode(uint64(id))
}

// MarshalText implements [encoding.TextMarshaler].
func (id FileID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (id *FileID) UnmarshalText(text []byte) error {
	parsed, err := ParseFileID(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// ColumnID identifies a column within one table document.
// Uniqueness is only meaningful inside that table.
type ColumnID uint64

// ParseColumnID decodes the string form of a ColumnID. Errors wrap [ident.ErrDecode].
func ParseColumnID(s string) (ColumnID, error) {
	v, err := ident.Decode(s)
	if err != nil {
		return 0, err
	}

	return ColumnID(v), nil
}

func (id ColumnID) String() string {
	return ident.Encode(uint64(id))
}

// MarshalText implements [encoding.TextMarshaler].
func (id ColumnID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (id *ColumnID) UnmarshalText(text []byte) error {
	parsed, err := ParseColumnID(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}
