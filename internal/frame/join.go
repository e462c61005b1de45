// Package frame reshapes warehouse data frames: equality joins, group-wise
// aggregates, pivots and canonical orderings.
package frame

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
)

var (
	// ErrEmptyJoin is returned when an inner join matches no rows.
	ErrEmptyJoin = errors.New("join produced no rows")
	// ErrJoinCardinality is returned when a join result disagrees with the
	// row count implied by the key multiplicities of both sides.
	ErrJoinCardinality = errors.New("join row count does not match key cardinality")
	// ErrMissingColumn is returned when a frame lacks a required column.
	ErrMissingColumn = errors.New("missing column")
)

// JoinStats describes how an inner join treated its inputs.
type JoinStats struct {
	LeftRows      int
	RightRows     int
	OutputRows    int
	UnmatchedLeft int // left rows with no partner, dropped by the inner join
}

// InnerJoin joins left and right on left[leftKey] == right[rightKey].
// The result keeps the columns of left in order, followed by the non-key
// columns of right, and carries the key once, under leftKey. Rows follow
// left order; a left row appears once per matching right row, in right
// order, so a 1:N join multiplies rows and never loses matched ones.
func InnerJoin(left, right dataframe.DataFrame, leftKey, rightKey string) (dataframe.DataFrame, JoinStats, error) {
	stats := JoinStats{LeftRows: left.Nrow(), RightRows: right.Nrow()}

	if err := requireColumns(left, leftKey); err != nil {
		return dataframe.DataFrame{}, stats, err
	}
	if err := requireColumns(right, rightKey); err != nil {
		return dataframe.DataFrame{}, stats, err
	}

	// Index right rows by key; NULL keys never match.
	rightRows := make(map[string][]int, right.Nrow())
	rightCol := right.Col(rightKey)
	rightNA := rightCol.IsNaN()
	for i, k := range rightCol.Records() {
		if rightNA[i] {
			continue
		}
		rightRows[k] = append(rightRows[k], i)
	}

	leftCol := left.Col(leftKey)
	leftNA := leftCol.IsNaN()
	var leftIdx, rightIdx []int
	for i, k := range leftCol.Records() {
		matches := rightRows[k]
		if leftNA[i] || len(matches) == 0 {
			stats.UnmatchedLeft++
			continue
		}
		for _, j := range matches {
			leftIdx = append(leftIdx, i)
			rightIdx = append(rightIdx, j)
		}
	}
	expected := len(leftIdx)
	if expected == 0 {
		return dataframe.DataFrame{}, stats, fmt.Errorf("%s = %s: %w", leftKey, rightKey, ErrEmptyJoin)
	}

	joined := left.Subset(leftIdx)
	var keep []string
	for _, name := range right.Names() {
		if name != rightKey && name != leftKey {
			keep = append(keep, name)
		}
	}
	if len(keep) > 0 {
		joined = joined.CBind(right.Select(keep).Subset(rightIdx))
	}
	if joined.Err != nil {
		return dataframe.DataFrame{}, stats, fmt.Errorf("failed to join on %s: %w", leftKey, joined.Err)
	}
	stats.OutputRows = joined.Nrow()

	if stats.OutputRows != expected {
		return dataframe.DataFrame{}, stats, fmt.Errorf("%s = %s: got %d rows, expected %d: %w",
			leftKey, rightKey, stats.OutputRows, expected, ErrJoinCardinality)
	}

	return joined, stats, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func requireColumns(df dataframe.DataFrame, names ...string) error {
	for _, name := range names {
		if !hasColumn(df, name) {
			return fmt.Errorf("%w %s (have %v)", ErrMissingColumn, name, df.Names())
		}
	}
	return nil
}
