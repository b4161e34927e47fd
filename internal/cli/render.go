package cli

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/calvinalkan/notebook/internal/doc"
	"github.com/calvinalkan/notebook/internal/registry"
)

// entryLine formats one document for ls and search output.
func entryLine(e registry.Entry) string {
	line := e.ID.String() + "  " + runewidth.FillRight(e.Record.Category.String(), len("table")) + "  " + e.Record.Title
	if len(e.Record.Keywords) > 0 {
		line += "  [" + strings.Join(e.Record.Keywords, ", ") + "]"
	}

	return line
}

// renderTable writes t as an aligned grid with a header row. Widths are
// measured in terminal cells, so wide runes line up.
func renderTable(w io.Writer, t doc.Table) {
	if t.Width() == 0 {
		_, _ = io.WriteString(w, "(empty table)\n")

		return
	}

	rows := t.TakeRows()

	widths := make([]int, t.Width())
	for i, column := range t.Columns {
		widths[i] = runewidth.StringWidth(column.Name)
	}

	for _, row := range rows {
		for i, cell := range row.Cells {
			widths[i] = max(widths[i], runewidth.StringWidth(flatten(cell.String())))
		}
	}

	var b strings.Builder

	writeRow := func(fields func(i int) string) {
		var line strings.Builder

		for i := range widths {
			if i > 0 {
				line.WriteString(" | ")
			}

			line.WriteString(runewidth.FillRight(fields(i), widths[i]))
		}

		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteString("\n")
	}

	writeRow(func(i int) string { return t.Columns[i].Name })
	writeRow(func(i int) string { return strings.Repeat("-", widths[i]) })

	for _, row := range rows {
		writeRow(func(i int) string { return flatten(row.Cells[i].String()) })
	}

	_, _ = io.WriteString(w, b.String())
}

// flatten replaces line breaks so a cell stays on one line.
func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
