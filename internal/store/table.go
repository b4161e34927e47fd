package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/calvinalkan/notebook/internal/doc"
)

type columnJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Unique bool   `json:"unique"`
}

type tableJSON struct {
	Columns []columnJSON `json:"columns"`
	Cells   []*string    `json:"cells"`
}

// LoadTable reads the content of a table document.
//
// A missing or malformed "columns" array yields no columns; a missing or
// malformed "cells" array yields no cells. A column whose id does not decode
// or repeats an earlier one gets an id derived from its position, so its
// cells stay addressable. Cells that do not complete a row are dropped with a
// warning. Errors wrap [ErrContentMissing] when the
// file does not exist and [ErrContentMalformed] when it is not a JSON object.
func (s *Store) LoadTable(id doc.FileID) (doc.Table, error) {
	rel := relContentPath(id)

	data, err := s.readEntryFile(id, rel)
	if err != nil {
		return doc.Table{}, err
	}

	obj, ok := object(data)
	if !ok {
		return doc.Table{}, s.fileError(id, rel, fmt.Errorf("%w: table content is not a JSON object", ErrContentMalformed))
	}

	table := doc.Table{Columns: []doc.Column{}, Cells: []doc.Cell{}}

	if elems, ok := array(obj["columns"]); ok {
		loaded := make([]loadedColumn, 0, len(elems))
		for _, elem := range elems {
			loaded = append(loaded, parseColumn(elem))
		}

		table.Columns = s.assignColumnIDs(id, loaded)
	}

	if elems, ok := array(obj["cells"]); ok {
		for _, elem := range elems {
			if content, ok := str(elem); ok {
				table.Cells = append(table.Cells, doc.TextCell(content))
			} else {
				table.Cells = append(table.Cells, doc.Cell{})
			}
		}
	}

	if dropped := table.Normalize(); dropped > 0 {
		s.log.Warn().
			Str("file_id", id.String()).
			Int("dropped_cells", dropped).
			Int("columns", table.Width()).
			Msg("table cells do not fill complete rows, truncated")
	}

	return table, nil
}

type loadedColumn struct {
	doc.Column
	encoded string
	valid   bool
}

func parseColumn(raw json.RawMessage) loadedColumn {
	var c loadedColumn

	obj, _ := object(raw)

	if name, ok := str(obj["name"]); ok {
		c.Name = name
	}

	if unique, ok := boolean(obj["unique"]); ok {
		c.Unique = unique
	}

	c.encoded, _ = str(obj["id"])

	if parsed, err := doc.ParseColumnID(c.encoded); err == nil {
		c.ID, c.valid = parsed, true
	}

	return c
}

// assignColumnIDs keeps the first use of every readable column id. A column
// left without one gets the lowest id from its 1-based position upwards that
// no other column uses, so every load of the same file agrees. The repaired
// id reaches the disk with the next save.
func (s *Store) assignColumnIDs(id doc.FileID, loaded []loadedColumn) []doc.Column {
	taken := make(map[doc.ColumnID]bool, len(loaded))

	for i := range loaded {
		c := &loaded[i]
		if c.valid && !taken[c.ID] {
			taken[c.ID] = true
		} else {
			c.valid = false
		}
	}

	columns := make([]doc.Column, 0, len(loaded))

	for i, c := range loaded {
		if !c.valid {
			next := doc.ColumnID(i + 1)
			for taken[next] {
				next++
			}

			taken[next] = true
			c.ID = next

			s.log.Warn().
				Str("file_id", id.String()).
				Str("column", c.Name).
				Str("bad_id", c.encoded).
				Str("new_id", c.ID.String()).
				Msg("replaced unreadable or duplicate column id")
		}

		columns = append(columns, c.Column)
	}

	return columns
}

// StoreTable replaces the content of id with table.
func (s *Store) StoreTable(id doc.FileID, table doc.Table) error {
	rel := relContentPath(id)

	out := tableJSON{
		Columns: make([]columnJSON, 0, len(table.Columns)),
		Cells:   make([]*string, 0, len(table.Cells)),
	}

	names := make([]string, 0, len(table.Columns))
	contents := make([]string, 0, len(table.Cells))

	for _, column := range table.Columns {
		names = append(names, column.Name)
		out.Columns = append(out.Columns, columnJSON{
			ID:     column.ID.String(),
			Name:   column.Name,
			Unique: column.Unique,
		})
	}

	for _, cell := range table.Cells {
		out.Cells = append(out.Cells, cell.Content)
		contents = append(contents, cell.String())
	}

	if err := errors.Join(checkUTF8("column", names...), checkUTF8("cell", contents...)); err != nil {
		return s.writeFailed(id, rel, err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return s.fileError(id, rel, fmt.Errorf("encode: %w", err))
	}

	return s.writeEntryFile(id, rel, data)
}
