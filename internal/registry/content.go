package registry

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/store"
)

// Text returns the content of the text document id.
//
// If the content file is missing, an empty text is written and returned. If
// it is malformed, it is first backed up next to itself and then replaced by
// an empty text. Any other read failure returns an empty text without
// touching the disk. In all three cases the returned text is usable; the
// error reports a failed read, backup or write.
func (r *Registry) Text(id doc.FileID) (doc.Text, error) {
	if err := r.expect(id, doc.CategoryText); err != nil {
		return doc.Text{}, err
	}

	text, err := r.st.LoadText(id)
	if err == nil {
		return text, nil
	}

	empty := doc.Text{Paragraphs: []doc.Paragraph{}}

	return empty, r.substitute(id, err, empty)
}

// Table returns the content of the table document id. Missing and malformed
// content is handled as in [Registry.Text].
func (r *Registry) Table(id doc.FileID) (doc.Table, error) {
	if err := r.expect(id, doc.CategoryTable); err != nil {
		return doc.Table{}, err
	}

	table, err := r.st.LoadTable(id)
	if err == nil {
		return table, nil
	}

	empty := doc.Table{Columns: []doc.Column{}, Cells: []doc.Cell{}}

	return empty, r.substitute(id, err, empty)
}

// Content returns the content of id as a [doc.Text] or [doc.Table],
// depending on its category.
func (r *Registry) Content(id doc.FileID) (doc.Content, error) {
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if rec.Category == doc.CategoryTable {
		return r.Table(id)
	}

	return r.Text(id)
}

// Save writes content as the body of id, replacing the file on disk.
func (r *Registry) Save(id doc.FileID, content doc.Content) error {
	if content == nil {
		return errors.New("content is nil")
	}

	if err := r.expect(id, content.Category()); err != nil {
		return err
	}

	return r.st.StoreContent(id, content)
}

func (r *Registry) expect(id doc.FileID, category doc.Category) error {
	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if rec.Category != category {
		return fmt.Errorf("%w: %s is %s, not %s", ErrCategoryMismatch, id, rec.Category, category)
	}

	return nil
}

// substitute replaces unreadable content with empty after a failed load.
func (r *Registry) substitute(id doc.FileID, loadErr error, empty doc.Content) error {
	switch {
	case errors.Is(loadErr, store.ErrContentMissing):
		r.log.Debug().Str("file_id", id.String()).Msg("creating default content")

	case errors.Is(loadErr, store.ErrContentMalformed):
		r.log.Warn().Err(loadErr).Str("file_id", id.String()).Msg("content is malformed, replacing with default")

		if _, err := r.st.BackupContent(id); err != nil {
			// No backup, so the original bytes stay in place.
			return errors.Join(loadErr, err)
		}

	default:
		r.log.Warn().Err(loadErr).Str("file_id", id.String()).Msg("cannot read content, using default")

		return loadErr
	}

	return r.st.StoreContent(id, empty)
}
