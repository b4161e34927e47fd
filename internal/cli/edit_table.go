package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/ident"
)

// tableEditor edits a copy of a table in its row-major form.
type tableEditor struct {
	table doc.Table
	gen   *ident.Generator
}

func newTableEditor(table doc.Table, gen *ident.Generator) *tableEditor {
	e := &tableEditor{table: table.Clone(), gen: gen}
	e.ensureRow()

	return e
}

// ensureRow gives a table with columns one row to type into.
func (e *tableEditor) ensureRow() {
	if e.table.Width() > 0 && e.table.Height() == 0 {
		e.table.InsertRow(0)
	}
}

func (e *tableEditor) snapshot() doc.Content {
	table := e.table.Clone()
	if table.Columns == nil {
		table.Columns = []doc.Column{}
	}

	if table.Cells == nil {
		table.Cells = []doc.Cell{}
	}

	return table
}

func (e *tableEditor) print(o *IO) {
	if e.table.Width() == 0 {
		o.Println("(empty table, add a column with 'col <name>')")

		return
	}

	numbered := e.table.Clone()
	columns := append([]doc.Column{{Name: "#"}}, numbered.Columns...)

	rows := numbered.TakeRows()
	for i := range rows {
		rows[i].Cells = append([]doc.Cell{doc.TextCell(strconv.Itoa(i + 1))}, rows[i].Cells...)
	}

	renderTable(o.Out(), doc.AssembleTable(columns, rows))
}

func (e *tableEditor) commands() []shellCmd {
	return []shellCmd{
		{
			names:   []string{"col"},
			usage:   "col [-u] <name>                Append a column (-u marks it unique)",
			mutates: true,
			run:     e.addColumn,
		},
		{
			names:   []string{"rename-col", "rncol"},
			usage:   "rename-col <col> <name>        Rename a column",
			mutates: true,
			run:     e.renameColumn,
		},
		{
			names:   []string{"rm-col", "rmcol"},
			usage:   "rm-col <col>                   Delete a column and its cells",
			mutates: true,
			run:     e.removeColumn,
		},
		{
			names:   []string{"row"},
			usage:   "row [n]                        Insert an empty row before row n (default: at the end)",
			mutates: true,
			run:     e.insertRow,
		},
		{
			names:   []string{"rm-row", "rmrow"},
			usage:   "rm-row <n>                     Delete row n",
			mutates: true,
			run:     e.removeRow,
		},
		{
			names:   []string{"set"},
			usage:   "set <row> <col> <text>         Set a cell",
			mutates: true,
			run:     e.setCell,
		},
		{
			names:   []string{"clear"},
			usage:   "clear <row> <col>              Empty a cell",
			mutates: true,
			run:     e.clearCell,
		},
		{
			names: []string{"get"},
			usage: "get <row> <col>                Print a cell",
			run:   e.getCell,
		},
		{
			names: []string{"cols"},
			usage: "cols                           List columns with their ids",
			run:   e.listColumns,
		},
	}
}

func (e *tableEditor) addColumn(_ *IO, args string) error {
	unique := false

	if flag, rest := cutWord(args); flag == "-u" {
		unique, args = true, rest
	}

	if args == "" {
		return fmt.Errorf("%w: column name is required", errBadArgs)
	}

	if _, err := e.table.AddColumn(args, unique, e.gen); err != nil {
		return err
	}

	e.ensureRow()

	return nil
}

func (e *tableEditor) renameColumn(_ *IO, args string) error {
	ref, name := cutWord(args)
	if name == "" {
		return fmt.Errorf("%w: new name is required", errBadArgs)
	}

	i, err := e.column(ref)
	if err != nil {
		return err
	}

	e.table.Columns[i].Name = name

	return nil
}

func (e *tableEditor) removeColumn(_ *IO, args string) error {
	i, err := e.column(strings.TrimSpace(args))
	if err != nil {
		return err
	}

	rows := e.table.TakeRows()
	for r := range rows {
		rows[r].Cells = slices.Delete(rows[r].Cells, i, i+1)
	}

	columns := slices.Delete(e.table.Columns, i, i+1)
	if len(columns) == 0 {
		rows = nil
	}

	e.table = doc.AssembleTable(columns, rows)

	return nil
}

func (e *tableEditor) insertRow(_ *IO, args string) error {
	if e.table.Width() == 0 {
		return fmt.Errorf("%w: add a column first", errBadArgs)
	}

	at := e.table.Height()

	if args = strings.TrimSpace(args); args != "" {
		i, err := position(args, e.table.Height()+1)
		if err != nil {
			return err
		}

		at = i
	}

	e.table.InsertRow(at)

	return nil
}

func (e *tableEditor) removeRow(_ *IO, args string) error {
	i, err := position(strings.TrimSpace(args), e.table.Height())
	if err != nil {
		return err
	}

	return e.table.RemoveRow(i)
}

func (e *tableEditor) setCell(_ *IO, args string) error {
	rowArg, rest := cutWord(args)
	colArg, text := cutWord(rest)

	if text == "" {
		return fmt.Errorf("%w: text is required (use clear to empty a cell)", errBadArgs)
	}

	return e.putCell(rowArg, colArg, doc.TextCell(text))
}

func (e *tableEditor) clearCell(_ *IO, args string) error {
	rowArg, colArg := cutWord(args)

	return e.putCell(rowArg, strings.TrimSpace(colArg), doc.Cell{})
}

func (e *tableEditor) putCell(rowArg, colArg string, cell doc.Cell) error {
	r, id, err := e.cellRef(rowArg, colArg)
	if err != nil {
		return err
	}

	return e.table.SetCell(r, id, cell)
}

func (e *tableEditor) getCell(o *IO, args string) error {
	rowArg, colArg := cutWord(args)

	r, id, err := e.cellRef(rowArg, strings.TrimSpace(colArg))
	if err != nil {
		return err
	}

	cell, _ := e.table.Cell(id, r)
	o.Println(cell.String())

	return nil
}

// cellRef resolves a 1-based row and a column reference.
func (e *tableEditor) cellRef(rowArg, colArg string) (int, doc.ColumnID, error) {
	r, err := position(rowArg, e.table.Height())
	if err != nil {
		return 0, 0, err
	}

	c, err := e.column(colArg)
	if err != nil {
		return 0, 0, err
	}

	return r, e.table.Columns[c].ID, nil
}

func (e *tableEditor) listColumns(o *IO, _ string) error {
	for i, column := range e.table.Columns {
		unique := ""
		if column.Unique {
			unique = "  (unique)"
		}

		o.Printf("%3d  %s  %s%s\n", i+1, column.ID, column.Name, unique)
	}

	return nil
}

// column resolves a column reference: a 1-based position, an encoded column
// id, or a name (case-insensitive).
func (e *tableEditor) column(ref string) (int, error) {
	if ref == "" {
		return 0, fmt.Errorf("%w: column is required", errBadArgs)
	}

	if _, err := strconv.Atoi(ref); err == nil {
		return position(ref, e.table.Width())
	}

	if id, err := doc.ParseColumnID(ref); err == nil {
		for i, column := range e.table.Columns {
			if column.ID == id {
				return i, nil
			}
		}
	}

	for i, column := range e.table.Columns {
		if strings.EqualFold(column.Name, ref) {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", doc.ErrColumnNotFound, ref)
}
