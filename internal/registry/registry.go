// Package registry is the in-memory catalog of notebook documents.
//
// A [Registry] holds the cover record of every document loaded from a
// [store.Store] and mediates creation, renames, keyword edits and content
// access. Cover changes are written through to disk immediately. Content
// bodies are never cached: every [Registry.Text] or [Registry.Table] call
// reads the disk again.
//
// A Registry is not safe for concurrent use.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/ident"
	"github.com/calvinalkan/notebook/internal/store"
)

var (
	ErrNotFound         = errors.New("file not found")
	ErrCategoryMismatch = errors.New("category mismatch")
)

// Entry pairs a file id with its cover record.
type Entry struct {
	ID     doc.FileID
	Record doc.Record
}

// Registry maps file ids to cover records.
type Registry struct {
	st      *store.Store
	log     zerolog.Logger
	gen     *ident.Generator
	records map[doc.FileID]doc.Record
}

// Option configures a [Registry].
type Option func(*Registry)

// WithLogger sets the logger for recovered content faults.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// WithGenerator sets the id source for new files.
func WithGenerator(gen *ident.Generator) Option {
	return func(r *Registry) {
		r.gen = gen
	}
}

// Load builds a registry from every readable cover below the store's root.
// Entries whose cover cannot be read are left out.
func Load(st *store.Store, opts ...Option) *Registry {
	if st == nil {
		panic("store is nil")
	}

	r := &Registry{
		st:  st,
		log: zerolog.Nop(),
		gen: ident.NewGenerator(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.records = st.LoadCovers()

	r.log.Debug().Str("root", st.Root()).Int("files", len(r.records)).Msg("registry loaded")

	return r
}

// Len returns the number of known files.
func (r *Registry) Len() int {
	return len(r.records)
}

// IDs returns every known file id, ordered by encoded form.
func (r *Registry) IDs() []doc.FileID {
	ids := make([]doc.FileID, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b doc.FileID) int {
		return strings.Compare(a.String(), b.String())
	})

	return ids
}

// Entries returns every known file with a copy of its record, in [Registry.IDs] order.
func (r *Registry) Entries() []Entry {
	ids := r.IDs()

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{ID: id, Record: r.records[id].Clone()})
	}

	return entries
}

// Record returns a copy of the cover record of id.
func (r *Registry) Record(id doc.FileID) (doc.Record, bool) {
	rec, ok := r.records[id]
	if !ok {
		return doc.Record{}, false
	}

	return rec.Clone(), true
}

// NewFile registers a new document with the given title and category and
// persists its cover. The content file is created on first access.
//
// The id is fresh among known files and existing entry directories, and its
// encoding never starts with "-". If the cover write fails the file is still
// registered and the error is returned together with the id.
func (r *Registry) NewFile(title string, category doc.Category) (doc.FileID, error) {
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %d", doc.ErrUnknownCategory, int(category))
	}

	var statErr error

	v, err := r.gen.Unique(func(v uint64) bool {
		id := doc.FileID(v)
		if _, ok := r.records[id]; ok {
			return true
		}

		// An id starting with "-" reads as a flag on the command line.
		if strings.HasPrefix(id.String(), "-") {
			return true
		}

		exists, err := r.st.Exists(id)
		if err != nil {
			statErr = err

			return true
		}

		return exists
	})
	if err != nil {
		if statErr != nil {
			return 0, fmt.Errorf("new file id: %w (last stat error: %v)", err, statErr)
		}

		return 0, fmt.Errorf("new file id: %w", err)
	}

	id := doc.FileID(v)
	rec := doc.Record{Title: title, Category: category, Keywords: []string{}}
	r.records[id] = rec

	return id, r.st.StoreCover(id, rec)
}

// Rename sets the title of id and persists the cover.
func (r *Registry) Rename(id doc.FileID, title string) error {
	return r.update(id, func(rec *doc.Record) bool {
		if rec.Title == title {
			return false
		}

		rec.Title = title

		return true
	})
}

// SetKeywords replaces the keywords of id and persists the cover.
func (r *Registry) SetKeywords(id doc.FileID, keywords []string) error {
	return r.update(id, func(rec *doc.Record) bool {
		rec.Keywords = slices.Clone(keywords)
		if rec.Keywords == nil {
			rec.Keywords = []string{}
		}

		return true
	})
}

// AddKeyword appends k to the keywords of id unless it is already present.
func (r *Registry) AddKeyword(id doc.FileID, k string) error {
	return r.update(id, func(rec *doc.Record) bool {
		if rec.HasKeyword(k) {
			return false
		}

		rec.Keywords = append(slices.Clone(rec.Keywords), k)

		return true
	})
}

// RemoveKeyword removes every occurrence of k from the keywords of id.
func (r *Registry) RemoveKeyword(id doc.FileID, k string) error {
	return r.update(id, func(rec *doc.Record) bool {
		if !rec.HasKeyword(k) {
			return false
		}

		rec.Keywords = slices.DeleteFunc(slices.Clone(rec.Keywords), func(s string) bool { return s == k })

		return true
	})
}

// update applies fn to the record of id and, if fn reports a change,
// persists the cover. The in-memory record is updated even when the write
// fails.
func (r *Registry) update(id doc.FileID, fn func(*doc.Record) bool) error {
	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if !fn(&rec) {
		return nil
	}

	r.records[id] = rec

	return r.st.StoreCover(id, rec)
}
