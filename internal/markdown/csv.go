package markdown

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/ident"
)

// ExportTable writes t as CSV: a header row of column names, then one record
// per row. Empty cells are written as empty fields. A table without columns
// writes nothing, which [ImportTable] reads back as a table without columns.
func ExportTable(w io.Writer, t doc.Table) error {
	if t.Width() == 0 {
		return nil
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, t.Width())
	for _, column := range t.Columns {
		header = append(header, column.Name)
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range t.TakeRows() {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = cell.String()
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// ImportTable reads CSV with a header row into a table. Column ids are drawn
// from gen. Short records are padded, long ones cut, and empty fields become
// empty cells. Input without any record is a table without columns.
func ImportTable(r io.Reader, gen *ident.Generator) (doc.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return doc.Table{Columns: []doc.Column{}, Cells: []doc.Cell{}}, nil
	}

	if err != nil {
		return doc.Table{}, fmt.Errorf("read header: %w", err)
	}

	t := doc.Table{Columns: []doc.Column{}, Cells: []doc.Cell{}}
	for _, name := range header {
		if _, err := t.AddColumn(name, false, gen); err != nil {
			return doc.Table{}, err
		}
	}

	var rows []doc.Row

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return doc.Table{}, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		row := doc.NewEmptyRow(len(record))
		for i, field := range record {
			if field != "" {
				row.Cells[i] = doc.TextCell(field)
			}
		}

		rows = append(rows, row)
	}

	table := doc.AssembleTable(t.Columns, rows)
	if table.Cells == nil {
		table.Cells = []doc.Cell{}
	}

	return table, nil
}
