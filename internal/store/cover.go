package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/notebook/internal/doc"
)

type coverJSON struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// LoadCovers reads the cover record of every file entry below the root.
//
// An entry is skipped when its directory name is not an encoded id or its
// cover.json is missing, unreadable, not valid JSON, lacks a string title, or
// has an unknown category. Skips are logged at debug level and never fail the
// load. A missing files directory yields an empty map.
func (s *Store) LoadCovers() map[doc.FileID]doc.Record {
	records := make(map[doc.FileID]doc.Record)

	entries, err := s.fs.ReadDir(s.FilesDir())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn().Err(err).Str("dir", s.FilesDir()).Msg("cannot list file entries")
		}

		return records
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()

		id, err := doc.ParseFileID(name)
		if err != nil {
			s.log.Debug().Str("entry", name).Err(err).Msg("skipping entry")

			continue
		}

		rec, err := s.LoadCover(id)
		if err != nil {
			s.log.Debug().Str("entry", name).Err(err).Msg("skipping entry")

			continue
		}

		records[id] = rec
	}

	return records
}

// LoadCover reads and parses the cover.json of one file.
func (s *Store) LoadCover(id doc.FileID) (doc.Record, error) {
	rel := relCoverPath(id)

	data, err := s.fs.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		return doc.Record{}, s.fileError(id, rel, fmt.Errorf("read: %w", err))
	}

	rec, err := parseCover(data)
	if err != nil {
		return doc.Record{}, s.fileError(id, rel, err)
	}

	return rec, nil
}

func parseCover(data []byte) (doc.Record, error) {
	obj, ok := object(data)
	if !ok {
		return doc.Record{}, fmt.Errorf("%w: not a JSON object", ErrCoverMalformed)
	}

	title, ok := str(obj["title"])
	if !ok {
		return doc.Record{}, fmt.Errorf("%w: title is not a string", ErrCoverMalformed)
	}

	tag, ok := str(obj["category"])
	if !ok {
		return doc.Record{}, fmt.Errorf("%w: category is not a string", ErrCoverMalformed)
	}

	category, err := doc.ParseCategory(tag)
	if err != nil {
		return doc.Record{}, fmt.Errorf("%w: %w", ErrCoverMalformed, err)
	}

	keywords := []string{}
	if elems, ok := array(obj["keywords"]); ok {
		for _, elem := range elems {
			keywords = append(keywords, textOf(elem))
		}
	}

	return doc.Record{Title: title, Category: category, Keywords: keywords}, nil
}

// StoreCover writes rec as the cover.json of id, creating the entry
// directory if needed. The file is replaced atomically.
func (s *Store) StoreCover(id doc.FileID, rec doc.Record) error {
	rel := relCoverPath(id)

	if !rec.Category.Valid() {
		return s.fileError(id, rel, fmt.Errorf("%w: %d", doc.ErrUnknownCategory, int(rec.Category)))
	}

	if err := errors.Join(checkUTF8("title", rec.Title), checkUTF8("keyword", rec.Keywords...)); err != nil {
		return s.writeFailed(id, rel, err)
	}

	keywords := rec.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	data, err := json.Marshal(coverJSON{
		Title:    rec.Title,
		Category: rec.Category.String(),
		Keywords: keywords,
	})
	if err != nil {
		return s.fileError(id, rel, fmt.Errorf("encode: %w", err))
	}

	return s.writeEntryFile(id, rel, data)
}
