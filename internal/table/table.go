// Package table renders plain text tables with ASCII borders.
package table

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Alignment controls how a cell is padded to the column width.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripAnsi removes color escape sequences.
func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// width is the number of visible characters in s.
func width(s string) int {
	return utf8.RuneCountInString(stripAnsi(s))
}

// Table accumulates rows and writes them on Render. Cells may contain ANSI
// color sequences; they do not count toward column widths.
type Table struct {
	w           io.Writer
	header      []string
	headerAlign []Alignment
	columnAlign []Alignment
	rows        [][]string
}

// NewTable returns an empty table writing to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithHeaderAlignment sets the alignment of each header cell.
func (t *Table) WithHeaderAlignment(align []Alignment) *Table {
	t.headerAlign = align
	return t
}

// WithColumnAlignment sets the alignment of each body column.
func (t *Table) WithColumnAlignment(align []Alignment) *Table {
	t.columnAlign = align
	return t
}

// Append adds a row.
func (t *Table) Append(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the table.
func (t *Table) Render() {
	widths := t.widths()
	if len(widths) == 0 {
		return
	}
	sep := separator(widths)
	fmt.Fprintln(t.w, sep)
	if len(t.header) > 0 {
		fmt.Fprintln(t.w, line(t.header, widths, t.headerAlign))
		fmt.Fprintln(t.w, sep)
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.w, line(row, widths, t.columnAlign))
	}
	fmt.Fprintln(t.w, sep)
}

func (t *Table) widths() []int {
	var widths []int
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], width(cell))
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	return b.String()
}

func line(row []string, widths []int, align []Alignment) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		a := AlignLeft
		if i < len(align) {
			a = align[i]
		}
		b.WriteString(" ")
		b.WriteString(pad(cell, w, a))
		b.WriteString(" |")
	}
	return b.String()
}

func pad(cell string, w int, a Alignment) string {
	gap := w - width(cell)
	if gap <= 0 {
		return cell
	}
	switch a {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}
