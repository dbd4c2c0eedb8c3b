package logging

import (
	"fmt"
	"strings"
)

// Alignment selects how a column pads its cells.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table formats aligned plain-text columns for the split report.
// Column widths come from the widest cell or header; alignment is per
// column, defaulting to left. Missing cells render as "-".
type Table struct {
	Headers []string
	Aligns  []Alignment
	Rows    [][]string
}

// AddRow appends one row of pre-formatted cells.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// String renders the table. The last column is never padded, so lines
// carry no trailing spaces.
func (t *Table) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for i, h := range t.Headers {
		t.writeCell(&sb, h, i, widths)
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := "-"
			if i < len(row) && row[i] != "" {
				cell = row[i]
			}
			t.writeCell(&sb, cell, i, widths)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Table) writeCell(sb *strings.Builder, cell string, col int, widths []int) {
	align := AlignLeft
	if col < len(t.Aligns) {
		align = t.Aligns[col]
	}
	last := col == len(widths)-1

	switch {
	case align == AlignRight:
		fmt.Fprintf(sb, "%*s", widths[col], cell)
	case last:
		sb.WriteString(cell)
	default:
		fmt.Fprintf(sb, "%-*s", widths[col], cell)
	}
	if !last {
		sb.WriteString("  ")
	}
}
