package frame

import (
	"errors"
	"fmt"
	"sort"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gota/gota/dataframe"
)

// ErrDuplicateCell is returned when a pivot finds two values for one cell.
var ErrDuplicateCell = errors.New("duplicate pivot cell")

// Months is the canonical calendar order of English month names.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Pivot is a wide table: one row per index label, one column per distinct
// value of the pivoted attribute. Cells may be missing.
type Pivot struct {
	Index   string
	Columns []string
	rows    *orderedmap.OrderedMap[string, map[string]float64]
}

// NewPivot reshapes a long table into a wide one keyed by the distinct values
// of columns. Rows keep first-appearance order; columns are sorted.
func NewPivot(long dataframe.DataFrame, index, columns, values string) (*Pivot, error) {
	if err := requireColumns(long, index, columns, values); err != nil {
		return nil, err
	}
	if long.Nrow() == 0 {
		return nil, fmt.Errorf("pivot on %s: %w", index, ErrEmptyJoin)
	}

	idx := long.Col(index).Records()
	col := long.Col(columns).Records()
	val := long.Col(values).Float()

	p := &Pivot{
		Index: index,
		rows:  orderedmap.NewOrderedMap[string, map[string]float64](),
	}
	seenCol := make(map[string]bool)
	for i := range idx {
		row, ok := p.rows.Get(idx[i])
		if !ok {
			row = make(map[string]float64)
			p.rows.Set(idx[i], row)
		}
		if _, dup := row[col[i]]; dup {
			return nil, fmt.Errorf("%w: %s=%s, %s=%s", ErrDuplicateCell, index, idx[i], columns, col[i])
		}
		row[col[i]] = val[i]
		if !seenCol[col[i]] {
			seenCol[col[i]] = true
			p.Columns = append(p.Columns, col[i])
		}
	}
	sort.Strings(p.Columns)
	return p, nil
}

// Rows returns the index labels in row order.
func (p *Pivot) Rows() []string {
	return p.rows.Keys()
}

// Value returns the cell at (row, column) and whether it is present.
func (p *Pivot) Value(row, column string) (float64, bool) {
	r, ok := p.rows.Get(row)
	if !ok {
		return 0, false
	}
	v, ok := r[column]
	return v, ok
}

// Reindex returns a pivot whose rows follow order exactly: labels in order
// but absent from p become empty rows, and labels of p not in order are
// dropped, like a data-frame reindex.
func (p *Pivot) Reindex(order []string) *Pivot {
	out := &Pivot{
		Index:   p.Index,
		Columns: append([]string(nil), p.Columns...),
		rows:    orderedmap.NewOrderedMap[string, map[string]float64](),
	}
	for _, label := range order {
		row, ok := p.rows.Get(label)
		if !ok {
			row = map[string]float64{}
		}
		out.rows.Set(label, row)
	}
	return out
}

// Cells returns the number of present cells.
func (p *Pivot) Cells() int {
	n := 0
	for el := p.rows.Front(); el != nil; el = el.Next() {
		n += len(el.Value)
	}
	return n
}

// ColumnTotals sums every column over all rows.
func (p *Pivot) ColumnTotals() map[string]float64 {
	totals := make(map[string]float64, len(p.Columns))
	for el := p.rows.Front(); el != nil; el = el.Next() {
		for c, v := range el.Value {
			totals[c] += v
		}
	}
	return totals
}
