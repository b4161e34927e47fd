package store

import (
	"path/filepath"

	"github.com/calvinalkan/notebook/internal/doc"
)

// On-disk layout below the root:
//
//	files/<id>/cover.json
//	files/<id>/content.json
const (
	FilesDirName    = "files"
	CoverFileName   = "cover.json"
	ContentFileName = "content.json"

	dirPerm  = 0o755
	filePerm = 0o644
)

// FilesDir returns the absolute path of the directory holding all file entries.
func (s *Store) FilesDir() string {
	return filepath.Join(s.root, FilesDirName)
}

// FileDir returns the directory of one file entry.
func (s *Store) FileDir(id doc.FileID) string {
	return filepath.Join(s.root, relFileDir(id))
}

// CoverPath returns the path of a file's cover.json.
func (s *Store) CoverPath(id doc.FileID) string {
	return filepath.Join(s.root, relCoverPath(id))
}

// ContentPath returns the path of a file's content.json.
func (s *Store) ContentPath(id doc.FileID) string {
	return filepath.Join(s.root, relContentPath(id))
}

func relFileDir(id doc.FileID) string {
	return filepath.Join(FilesDirName, id.String())
}

func relCoverPath(id doc.FileID) string {
	return filepath.Join(relFileDir(id), CoverFileName)
}

func relContentPath(id doc.FileID) string {
	return filepath.Join(relFileDir(id), ContentFileName)
}
