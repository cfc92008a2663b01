package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column. Right aligns amounts.
type Column struct {
	Title string
	Width int
	Right bool
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Render returns the full table as a string. Cells are padded by display
// width, so pre-styled cells line up; plain cells longer than the column are
// cut with an ellipsis.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	line := func(cells []string) {
		sb.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		sb.WriteString("\n")
	}

	headers := make([]string, len(t.Columns))
	divider := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = headerStyle.Render(fit(col.Title, col))
		divider[i] = dimStyle.Render(strings.Repeat("-", col.Width))
	}
	line(headers)
	line(divider)

	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			if lipgloss.Width(val) != len(val) {
				// Already styled or multi-byte: keep as is.
				cells[j] = fit(val, col)
				continue
			}
			cells[j] = cellStyle.Render(fit(val, col))
		}
		line(cells)
	}

	return sb.String()
}

// fit pads s to the column width. Plain ASCII that does not fit is truncated.
func fit(s string, col Column) string {
	w := lipgloss.Width(s)
	if w > col.Width && w == len(s) && col.Width > 1 {
		s, w = s[:col.Width-1]+"…", col.Width
	}
	if w >= col.Width {
		return s
	}
	gap := strings.Repeat(" ", col.Width-w)
	if col.Right {
		return gap + s
	}
	return s + gap
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-20s", p[0]+":"))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
