package doc_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/ident"
)

// grid builds a table with w columns (ids 1..w) and h rows whose cells hold
// "r<row>c<col>".
func grid(w, h int) doc.Table {
	table := doc.Table{}
	for i := range w {
		table.Columns = append(table.Columns, doc.Column{ID: doc.ColumnID(i + 1), Name: string(rune('A' + i))})
	}

	for r := range h {
		for c := range w {
			table.Cells = append(table.Cells, doc.TextCell(cellText(r, c)))
		}
	}

	return table
}

func cellText(r, c int) string {
	return "r" + string(rune('0'+r)) + "c" + string(rune('0'+c))
}

func TestTable_Addressing(t *testing.T) {
	t.Parallel()

	table := grid(3, 4)

	require.Equal(t, 3, table.Width())
	require.Equal(t, 4, table.Height())
	require.Equal(t, len(table.Cells), table.Width()*table.Height())

	for r := range table.Height() {
		for i, column := range table.Columns {
			cell, ok := table.Cell(column.ID, r)
			require.True(t, ok)
			require.Equal(t, table.Cells[r*table.Width()+i], cell)
			require.Equal(t, cellText(r, i), cell.String())
		}
	}
}

func TestTable_CellNotFound(t *testing.T) {
	t.Parallel()

	table := grid(2, 2)

	_, ok := table.Cell(doc.ColumnID(99), 0)
	require.False(t, ok, "unknown column")

	_, ok = table.Cell(doc.ColumnID(1), 2)
	require.False(t, ok, "row past end")

	_, ok = table.Cell(doc.ColumnID(1), -1)
	require.False(t, ok, "negative row")
}

func TestTable_ColumnLookup(t *testing.T) {
	t.Parallel()

	table := grid(3, 0)

	column, ok := table.Column(doc.ColumnID(2))
	require.True(t, ok)
	require.Equal(t, "B", column.Name)

	_, ok = table.Column(doc.ColumnID(7))
	require.False(t, ok)
}

func TestTable_EmptyHasNoRows(t *testing.T) {
	t.Parallel()

	var table doc.Table

	require.Equal(t, 0, table.Width())
	require.Equal(t, 0, table.Height())
	require.True(t, table.IsEmpty())

	table.InsertRow(0)

	require.Equal(t, 0, table.Height(), "insert on zero-column table has nothing to populate")
	require.Empty(t, table.Cells)
}

func TestTable_InsertRow(t *testing.T) {
	t.Parallel()

	for before := range 4 {
		table := grid(2, 3)
		original := table.TakeRows()
		table = doc.AssembleTable(table.Columns, original)

		table.InsertRow(before)

		require.Equal(t, 4, table.Height())

		rows := table.TakeRows()
		for i := range 2 {
			require.True(t, rows[before].Cells[i].IsEmpty())
		}

		rest := append(append([]doc.Row{}, rows[:before]...), rows[before+1:]...)
		if diff := cmp.Diff(original, rest); diff != "" {
			t.Fatalf("before=%d: other rows changed (-want +got):\n%s", before, diff)
		}
	}
}

func TestTable_InsertRowClamps(t *testing.T) {
	t.Parallel()

	table := grid(2, 1)
	table.InsertRow(10)
	require.Equal(t, 2, table.Height())
	require.True(t, table.Cells[2].IsEmpty())

	table.InsertRow(-3)
	require.Equal(t, 3, table.Height())
	require.True(t, table.Cells[0].IsEmpty())
}

func TestTable_TakeRows(t *testing.T) {
	t.Parallel()

	table := grid(3, 3)
	want := append([]doc.Cell(nil), table.Cells...)

	rows := table.TakeRows()

	require.Len(t, rows, 3)
	require.Empty(t, table.Cells, "source storage must be drained")

	var got []doc.Cell
	for _, row := range rows {
		require.Len(t, row.Cells, 3)
		got = append(got, row.Cells...)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows out of order (-want +got):\n%s", diff)
	}
}

func TestTable_TakeRowsDropsMalformedRemainder(t *testing.T) {
	t.Parallel()

	table := grid(3, 2)
	table.Cells = append(table.Cells, doc.TextCell("orphan"))

	rows := table.TakeRows()

	require.Len(t, rows, 2)
	require.Empty(t, table.Cells)
}

func TestTable_TakeRowsDoesNotAlias(t *testing.T) {
	t.Parallel()

	table := grid(2, 2)
	backing := table.Cells

	rows := table.TakeRows()
	rows[0].Cells[0] = doc.TextCell("changed")

	require.Equal(t, cellText(0, 0), backing[0].String())
}

func TestAssembleTable_InverseOfTakeRows(t *testing.T) {
	t.Parallel()

	table := grid(4, 3)
	want := table.Cells

	rows := table.TakeRows()
	rebuilt := doc.AssembleTable(table.Columns, rows)

	if diff := cmp.Diff(want, rebuilt.Cells); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestAssembleTable_PadsAndCutsRows(t *testing.T) {
	t.Parallel()

	columns := grid(2, 0).Columns
	rows := []doc.Row{
		{Cells: []doc.Cell{doc.TextCell("a")}},
		{Cells: []doc.Cell{doc.TextCell("b"), doc.TextCell("c"), doc.TextCell("d")}},
	}

	table := doc.AssembleTable(columns, rows)

	require.Equal(t, 2, table.Height())
	require.Equal(t, []string{"a", "", "b", "c"}, cellStrings(table.Cells))
}

func TestTable_Normalize(t *testing.T) {
	t.Parallel()

	table := grid(3, 2)
	table.Cells = append(table.Cells, doc.Cell{}, doc.Cell{})

	require.Equal(t, 2, table.Normalize())
	require.Len(t, table.Cells, 6)
	require.Equal(t, 0, table.Normalize())

	headless := doc.Table{Cells: []doc.Cell{doc.TextCell("x")}}
	require.Equal(t, 1, headless.Normalize())
	require.Empty(t, headless.Cells)
}

func TestTable_SetCellAndRemoveRow(t *testing.T) {
	t.Parallel()

	table := grid(2, 3)

	require.NoError(t, table.SetCell(1, doc.ColumnID(2), doc.TextCell("x")))

	cell, ok := table.Cell(doc.ColumnID(2), 1)
	require.True(t, ok)
	require.Equal(t, "x", cell.String())

	err := table.SetCell(0, doc.ColumnID(9), doc.Cell{})
	require.True(t, errors.Is(err, doc.ErrColumnNotFound))

	err = table.SetCell(3, doc.ColumnID(1), doc.Cell{})
	require.True(t, errors.Is(err, doc.ErrOutOfRange))

	require.NoError(t, table.RemoveRow(0))
	require.Equal(t, 2, table.Height())
	require.Equal(t, cellText(1, 0), table.Cells[0].String())

	require.ErrorIs(t, table.RemoveRow(5), doc.ErrOutOfRange)
}

func TestTable_AddColumn(t *testing.T) {
	t.Parallel()

	table := grid(2, 2)

	// First draw collides with column 1, second is fresh.
	var src bytes.Buffer
	for _, v := range []uint64{1, 50} {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], v)
		src.Write(buf[:])
	}

	id, err := table.AddColumn("Notes", true, ident.NewGeneratorFrom(&src))
	require.NoError(t, err)
	require.Equal(t, doc.ColumnID(50), id)

	require.Equal(t, 3, table.Width())
	require.Equal(t, 2, table.Height())
	require.Equal(t, []string{"r0c0", "r0c1", "", "r1c0", "r1c1", ""}, cellStrings(table.Cells))

	column, ok := table.Column(id)
	require.True(t, ok)
	require.Equal(t, doc.Column{ID: id, Name: "Notes", Unique: true}, column)
}

func TestTable_AddColumnToEmptyTable(t *testing.T) {
	t.Parallel()

	var table doc.Table

	_, err := table.AddColumn("Item", false, ident.NewGenerator())
	require.NoError(t, err)

	require.Equal(t, 0, table.Height())
	table.InsertRow(0)
	require.Equal(t, 1, table.Height())
}

func TestTable_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	table := grid(2, 1)
	clone := table.Clone()

	clone.Columns[0].Name = "changed"
	clone.Cells[0] = doc.TextCell("changed")
	clone.TakeRows()

	require.Equal(t, "r0c0", table.Cells[0].String())
	require.Equal(t, "A", table.Columns[0].Name)
	require.Len(t, table.Cells, 2)
}

func cellStrings(cells []doc.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}

	return out
}
