package node

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Row is one table row together with the source line it was read from.
type Row struct {
	Line  int
	Cells []string
}

// Table is a rectangular grid of string cells.
type Table struct {
	rows   []Row
	widths []int
	src    Source
}

// NewTable builds a table, failing when rows have different column counts.
func NewTable(rows []Row) (*Table, error) {
	t := &Table{rows: make([]Row, len(rows))}
	for i, row := range rows {
		if i == 0 {
			t.widths = make([]int, len(row.Cells))
		}
		if len(row.Cells) != len(t.widths) {
			return nil, errorf("Table row '%d' is expected to have %d columns, got %d", i, len(t.widths), len(row.Cells))
		}
		for col, cell := range row.Cells {
			t.widths[col] = max(t.widths[col], uniseg.StringWidth(cell))
		}
		t.rows[i] = Row{Line: row.Line, Cells: append([]string(nil), row.Cells...)}
	}
	return t, nil
}

func (t *Table) NodeType() string { return "Table" }

func (t *Table) argument() {}

func (t *Table) withSource(src Source) Argument {
	c := *t
	c.src = src
	return &c
}

func (t *Table) Language() string { return t.src.Language }

func (t *Table) File() string { return t.src.File }

// Line is the line of the first row, or zero for an empty table.
func (t *Table) Line() int {
	if len(t.rows) == 0 {
		return 0
	}
	return t.rows[0].Line
}

// Rows returns a copy of the cell grid.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = append([]string(nil), row.Cells...)
	}
	return out
}

// Lines returns the source line of each row.
func (t *Table) Lines() []int {
	out := make([]int, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.Line
	}
	return out
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Row(index int) ([]string, error) {
	if index < 0 || index >= len(t.rows) {
		return nil, errorf("Rows #%d does not exist in table.", index)
	}
	return append([]string(nil), t.rows[index].Cells...), nil
}

func (t *Table) RowLine(index int) (int, error) {
	if index < 0 || index >= len(t.rows) {
		return 0, errorf("Rows #%d does not exist in table.", index)
	}
	return t.rows[index].Line, nil
}

func (t *Table) Column(index int) ([]string, error) {
	if index < 0 || index >= len(t.widths) {
		return nil, errorf("Column #%d does not exist in table.", index)
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.Cells[index]
	}
	return out, nil
}

// ColumnsHash maps every row after the first to the header row.
func (t *Table) ColumnsHash() []map[string]string {
	if len(t.rows) < 2 {
		return nil
	}
	header := t.rows[0].Cells
	out := make([]map[string]string, 0, len(t.rows)-1)
	for _, row := range t.rows[1:] {
		hash := make(map[string]string, len(header))
		for col, key := range header {
			hash[key] = row.Cells[col]
		}
		out = append(out, hash)
	}
	return out
}

// RowsHash keys every row by its first cell.
func (t *Table) RowsHash() map[string][]string {
	out := make(map[string][]string, len(t.rows))
	for _, row := range t.rows {
		if len(row.Cells) == 0 {
			continue
		}
		out[row.Cells[0]] = append([]string(nil), row.Cells[1:]...)
	}
	return out
}

// RowString renders a row with cells padded to the column display width.
func (t *Table) RowString(index int) (string, error) {
	if index < 0 || index >= len(t.rows) {
		return "", errorf("Rows #%d does not exist in table.", index)
	}
	var b strings.Builder
	b.WriteString("|")
	for col, cell := range t.rows[index].Cells {
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", t.widths[col]-uniseg.StringWidth(cell)+1))
		b.WriteString("|")
	}
	return b.String(), nil
}

func (t *Table) String() string {
	lines := make([]string, len(t.rows))
	for i := range t.rows {
		lines[i], _ = t.RowString(i)
	}
	return strings.Join(lines, "\n")
}

// mapCells returns a table of the same shape with fn applied to every cell.
func (t *Table) mapCells(fn func(string) string) *Table {
	out := &Table{rows: make([]Row, len(t.rows)), widths: make([]int, len(t.widths)), src: t.src}
	for i, row := range t.rows {
		cells := make([]string, len(row.Cells))
		for col, cell := range row.Cells {
			cells[col] = fn(cell)
			out.widths[col] = max(out.widths[col], uniseg.StringWidth(cells[col]))
		}
		out.rows[i] = Row{Line: row.Line, Cells: cells}
	}
	return out
}
