// Package ident encodes and generates the opaque 64-bit identifiers used for
// notebook files and table columns.
//
// The canonical string form is the URL-safe, unpadded base64 encoding of the
// value's 8 big-endian bytes. It is safe to use as a directory name and in
// URLs, and is always [EncodedLen] characters long.
package ident

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// EncodedLen is the length of every encoded identifier.
const EncodedLen = 11

const rawLen = 8

// ErrDecode reports a string that is not the encoding of an identifier.
var ErrDecode = errors.New("invalid identifier")

// ErrExhausted reports that no unused identifier was found after
// [MaxAttempts] tries.
var ErrExhausted = errors.New("no unique identifier after repeated attempts")

// MaxAttempts bounds [Generator.Unique].
const MaxAttempts = 10000

var encoding = base64.RawURLEncoding

// Encode returns the canonical string form of v.
func Encode(v uint64) string {
	var buf [rawLen]byte
	binary.BigEndian.PutUint64(buf[:], v)

	return encoding.EncodeToString(buf[:])
}

// Decode parses the canonical string form produced by [Encode].
func Decode(s string) (uint64, error) {
	// The decoder skips CR and LF, so the length is checked up front.
	if len(s) != EncodedLen {
		return 0, fmt.Errorf("%w %q: length %d, want %d", ErrDecode, s, len(s), EncodedLen)
	}

	raw, err := encoding.Strict().DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrDecode, s, err)
	}

	if len(raw) != rawLen {
		return 0, fmt.Errorf("%w %q: decoded %d bytes, want %d", ErrDecode, s, len(raw), rawLen)
	}

	return binary.BigEndian.Uint64(raw), nil
}

// Generator produces random identifiers from a byte source.
//
// The zero value is not usable; use [NewGenerator] or [NewGeneratorFrom].
type Generator struct {
	src io.Reader
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{src: rand.Reader}
}

// NewGeneratorFrom returns a Generator that reads 8 bytes from src per id.
// Panics if src is nil.
func NewGeneratorFrom(src io.Reader) *Generator {
	if src == nil {
		panic("src is nil")
	}

	return &Generator{src: src}
}

// Next returns a random identifier.
func (g *Generator) Next() (uint64, error) {
	var buf [rawLen]byte

	_, err := io.ReadFull(g.src, buf[:])
	if err != nil {
		return 0, fmt.Errorf("read random bytes: %w", err)
	}

	return binary.BigEndian.Uint64(buf[:]), nil
}

// Unique returns a random identifier for which taken reports false,
// retrying on collision.
func (g *Generator) Unique(taken func(uint64) bool) (uint64, error) {
	for range MaxAttempts {
		v, err := g.Next()
		if err != nil {
			return 0, err
		}

		if !taken(v) {
			return v, nil
		}
	}

	return 0, ErrExhausted
}
