package report

import "strconv"

// Table is a small text table: a header and rows of formatted cells.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func newTable(header ...string) *Table {
	return &Table{Header: header}
}

func (t *Table) add(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
