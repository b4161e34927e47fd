// Package store persists notebook documents as flat JSON files below a root
// directory.
//
// Every document lives in its own directory named by its encoded id, holding
// a cover.json (title, category, keywords) and a content.json (the body).
// The store keeps no state beyond its configuration: every call reads or
// writes the disk. It does no locking; callers serialize access.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/pkg/fs"
)

// Store reads and writes file entries below one root directory.
type Store struct {
	fs   fs.FS
	root string
	log  zerolog.Logger
	now  func() time.Time
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger used for skipped entries and failed writes.
// The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithClock sets the clock used to name content backups.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns a Store rooted at root. Panics if fsys is nil or root is empty.
func New(fsys fs.FS, root string, opts ...Option) *Store {
	if fsys == nil {
		panic("fsys is nil")
	}

	if root == "" {
		panic("root is empty")
	}

	s := &Store{
		fs:   fsys,
		root: filepath.Clean(root),
		log:  zerolog.Nop(),
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Root returns the root directory.
func (s *Store) Root() string {
	return s.root
}

// Exists reports whether an entry directory for id is present, whether or not
// its cover loads.
func (s *Store) Exists(id doc.FileID) (bool, error) {
	ok, err := s.fs.Exists(s.FileDir(id))
	if err != nil {
		return false, s.fileError(id, relFileDir(id), fmt.Errorf("stat: %w", err))
	}

	return ok, nil
}

// StoreContent writes c as the content of id. c must be a [doc.Text] or
// [doc.Table], by value or pointer.
func (s *Store) StoreContent(id doc.FileID, c doc.Content) error {
	switch content := c.(type) {
	case doc.Text:
		return s.StoreText(id, content)
	case *doc.Text:
		return s.StoreText(id, *content)
	case doc.Table:
		return s.StoreTable(id, content)
	case *doc.Table:
		return s.StoreTable(id, *content)
	default:
		return &Error{ID: id.String(), Path: relContentPath(id), Err: fmt.Errorf("unsupported content type %T", c)}
	}
}

// BackupContent copies the current content.json of id next to it as
// content.json.corrupt-<unix nanos> and returns the backup path.
func (s *Store) BackupContent(id doc.FileID) (string, error) {
	src := s.ContentPath(id)

	data, err := s.fs.ReadFile(src)
	if err != nil {
		return "", s.fileError(id, relContentPath(id), fmt.Errorf("read for backup: %w", err))
	}

	dst := fmt.Sprintf("%s.corrupt-%d", src, s.now().UnixNano())

	err = s.fs.WriteFileAtomic(dst, data, filePerm)
	if err != nil {
		return "", s.fileError(id, relContentPath(id), fmt.Errorf("write backup: %w", err))
	}

	s.log.Warn().Str("file_id", id.String()).Str("backup", dst).Msg("backed up malformed content")

	return dst, nil
}

// writeEntryFile ensures the entry directory exists and atomically replaces
// the file at rel with data.
func (s *Store) writeEntryFile(id doc.FileID, rel string, data []byte) error {
	err := s.fs.MkdirAll(s.FileDir(id), dirPerm)
	if err != nil {
		return s.writeFailed(id, rel, fmt.Errorf("create dir: %w", err))
	}

	err = s.fs.WriteFileAtomic(filepath.Join(s.root, rel), data, filePerm)
	if err != nil {
		return s.writeFailed(id, rel, fmt.Errorf("write: %w", err))
	}

	return nil
}

func (s *Store) writeFailed(id doc.FileID, rel string, err error) error {
	s.log.Warn().Err(err).Str("file_id", id.String()).Str("path", rel).Msg("write failed")

	return s.fileError(id, rel, err)
}

// readEntryFile reads rel, mapping a missing file to ErrContentMissing.
func (s *Store) readEntryFile(id doc.FileID, rel string) ([]byte, error) {
	data, err := s.fs.ReadFile(filepath.Join(s.root, rel))
	if errors.Is(err, os.ErrNotExist) {
		return nil, s.fileError(id, rel, ErrContentMissing)
	}

	if err != nil {
		return nil, s.fileError(id, rel, fmt.Errorf("read: %w", err))
	}

	return data, nil
}

func (s *Store) fileError(id doc.FileID, rel string, err error) error {
	return &Error{ID: id.String(), Path: rel, Err: err}
}
