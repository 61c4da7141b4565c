package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table renders aligned plain-text columns. Widths are measured in terminal
// cells so wide characters line up.
type Table struct {
	headers []string
	align   []Align
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		align:   make([]Align, len(headers)),
	}
}

// AlignRight right-aligns the given columns, typically numbers.
func (t *Table) AlignRight(columns ...int) *Table {
	for _, c := range columns {
		if c >= 0 && c < len(t.align) {
			t.align[c] = AlignRight
		}
	}
	return t
}

// AddRow appends a row. Missing cells are blank and extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func (t *Table) Render(w io.Writer) error {
	widths := t.widths()

	if _, err := fmt.Fprintln(w, t.line(t.headers, widths)); err != nil {
		return err
	}

	separators := make([]string, len(widths))
	for i, width := range widths {
		separators[i] = strings.Repeat("-", width)
	}
	if _, err := fmt.Fprintln(w, t.line(separators, widths)); err != nil {
		return err
	}

	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, t.line(row, widths)); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) String() string {
	var b strings.Builder
	_ = t.Render(&b)
	return b.String()
}

func (t *Table) line(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if t.align[i] == AlignRight {
			padded[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			padded[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

// Truncate shortens s to at most width cells, marking the cut with "...".
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
