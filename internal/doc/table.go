package doc

import (
	"fmt"
	"slices"

	"github.com/calvinalkan/notebook/internal/ident"
)

// Cell is one table cell. A nil Content is an empty cell (null on disk).
type Cell struct {
	Content *string
}

// TextCell returns a non-empty cell holding s.
func TextCell(s string) Cell {
	return Cell{Content: &s}
}

// IsEmpty reports whether the cell has no content.
func (c Cell) IsEmpty() bool {
	return c.Content == nil
}

// String returns the cell content, or "" for an empty cell.
func (c Cell) String() string {
	if c.Content == nil {
		return ""
	}

	return *c.Content
}

// Column describes one table column.
//
// Unique is reserved for a future uniqueness constraint and is not enforced.
type Column struct {
	ID     ColumnID
	Name   string
	Unique bool
}

// Table is the body of a table document.
//
// Cells are stored row-major: the cell at (row r, column index i) is
// Cells[r*len(Columns)+i]. len(Cells) is a multiple of len(Columns); a table
// with no columns has no cells.
type Table struct {
	Columns []Column
	Cells   []Cell
}

// Category implements [Content].
func (Table) Category() Category {
	return CategoryTable
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// Height returns the number of rows. A table without columns has zero rows.
func (t *Table) Height() int {
	if len(t.Columns) == 0 {
		return 0
	}

	return len(t.Cells) / len(t.Columns)
}

// IsEmpty reports whether the table has no cells.
func (t *Table) IsEmpty() bool {
	return len(t.Cells) == 0
}

// Column returns the column with the given id.
func (t *Table) Column(id ColumnID) (Column, bool) {
	i := t.columnIndex(id)
	if i < 0 {
		return Column{}, false
	}

	return t.Columns[i], true
}

// Cell returns the cell in column id at row. It reports false when the column
// does not exist or row is out of range.
func (t *Table) Cell(id ColumnID, row int) (Cell, bool) {
	i := t.columnIndex(id)
	if i < 0 || row < 0 || row >= t.Height() {
		return Cell{}, false
	}

	return t.Cells[row*len(t.Columns)+i], true
}

// SetCell replaces the cell in column id at row.
func (t *Table) SetCell(row int, id ColumnID, cell Cell) error {
	i := t.columnIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}

	if row < 0 || row >= t.Height() {
		return fmt.Errorf("%w: row %d (height %d)", ErrOutOfRange, row, t.Height())
	}

	t.Cells[row*len(t.Columns)+i] = cell

	return nil
}

// InsertRow inserts an empty row so that it becomes row before.
// before is clamped to [0, Height()]. On a table without columns it does nothing.
func (t *Table) InsertRow(before int) {
	width := len(t.Columns)
	if width == 0 {
		return
	}

	before = max(0, min(before, t.Height()))
	at := before * width

	grown := make([]Cell, 0, len(t.Cells)+width)
	grown = append(grown, t.Cells[:at]...)
	grown = append(grown, make([]Cell, width)...)
	grown = append(grown, t.Cells[at:]...)
	t.Cells = grown
}

// RemoveRow deletes row.
func (t *Table) RemoveRow(row int) error {
	if row < 0 || row >= t.Height() {
		return fmt.Errorf("%w: row %d (height %d)", ErrOutOfRange, row, t.Height())
	}

	width := len(t.Columns)
	t.Cells = append(t.Cells[:row*width], t.Cells[(row+1)*width:]...)

	return nil
}

// AddColumn appends a column and an empty cell to every existing row.
// The new column id is drawn from gen and differs from every other column
// of this table.
func (t *Table) AddColumn(name string, unique bool, gen *ident.Generator) (ColumnID, error) {
	v, err := gen.Unique(func(v uint64) bool {
		return t.columnIndex(ColumnID(v)) >= 0
	})
	if err != nil {
		return 0, fmt.Errorf("column id: %w", err)
	}

	id := ColumnID(v)
	height := t.Height()
	width := len(t.Columns)

	cells := make([]Cell, 0, height*(width+1))
	for r := range height {
		cells = append(cells, t.Cells[r*width:(r+1)*width]...)
		cells = append(cells, Cell{})
	}

	t.Columns = append(t.Columns, Column{ID: id, Name: name, Unique: unique})
	t.Cells = cells

	return id, nil
}

// Normalize truncates cells that do not form a complete row and returns how
// many were dropped. A table without columns loses all its cells.
func (t *Table) Normalize() int {
	keep := t.Height() * len(t.Columns)
	dropped := len(t.Cells) - keep

	if dropped > 0 {
		t.Cells = t.Cells[:keep]
	}

	return dropped
}

// TakeRows partitions the cells into rows in top-to-bottom order and leaves
// t.Cells empty. Each returned row owns its cells. Trailing cells that do not
// fill a row are dropped.
func (t *Table) TakeRows() []Row {
	width := len(t.Columns)
	cells := t.Cells
	t.Cells = nil

	if width == 0 {
		return nil
	}

	rows := make([]Row, 0, len(cells)/width)
	for len(cells) >= width {
		row := make([]Cell, width)
		copy(row, cells[:width])
		rows = append(rows, Row{Cells: row})
		cells = cells[width:]
	}

	return rows
}

// Clone returns a copy of t that shares no memory with it.
func (t Table) Clone() Table {
	return Table{Columns: slices.Clone(t.Columns), Cells: slices.Clone(t.Cells)}
}

func (t *Table) columnIndex(id ColumnID) int {
	for i, column := range t.Columns {
		if column.ID == id {
			return i
		}
	}

	return -1
}

// Row is one table row, detached from the table's cell storage.
type Row struct {
	Cells []Cell
}

// NewEmptyRow returns a row of width empty cells.
func NewEmptyRow(width int) Row {
	return Row{Cells: make([]Cell, width)}
}

// AssembleTable joins rows back into row-major storage. It is the inverse of
// [Table.TakeRows]. Rows shorter than len(columns) are padded with empty
// cells and longer rows are cut.
func AssembleTable(columns []Column, rows []Row) Table {
	width := len(columns)
	table := Table{Columns: columns}

	if width == 0 {
		return table
	}

	table.Cells = make([]Cell, 0, width*len(rows))
	for _, row := range rows {
		n := min(len(row.Cells), width)
		table.Cells = append(table.Cells, row.Cells[:n]...)
		table.Cells = append(table.Cells, make([]Cell, width-n)...)
	}

	return table
}
