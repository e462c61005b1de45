package frame

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// GroupMean returns one row per distinct combination of keys with the mean
// of value, in a column named value. NULL values are left out of the mean,
// and a group with no non-NULL value has no row.
func GroupMean(df dataframe.DataFrame, keys []string, value string) (dataframe.DataFrame, error) {
	if err := requireColumns(df, value); err != nil {
		return dataframe.DataFrame{}, err
	}
	values := df.Col(value).Float()
	return aggregate(df, keys, value, func(g *group, row int) {
		if math.IsNaN(values[row]) {
			return
		}
		g.sum += values[row]
		g.n++
	}, func(g *group) (float64, bool) {
		return g.sum / float64(g.n), g.n > 0
	})
}

// GroupSize returns one row per distinct combination of keys with the number
// of rows in the group, in a column named "Count".
func GroupSize(df dataframe.DataFrame, keys []string) (dataframe.DataFrame, error) {
	return aggregate(df, keys, "Count", func(g *group, _ int) {
		g.n++
	}, func(g *group) (float64, bool) {
		return float64(g.n), true
	})
}

type group struct {
	labels []string
	sum    float64
	n      int
}

// aggregate groups rows by keys, skipping rows with a NULL key, and emits one
// row per group sorted by its labels. Group identity is the exact tuple of
// key values.
func aggregate(df dataframe.DataFrame, keys []string, out string,
	add func(g *group, row int), result func(g *group) (float64, bool)) (dataframe.DataFrame, error) {
	if len(keys) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("aggregate needs at least one key")
	}
	if err := requireColumns(df, keys...); err != nil {
		return dataframe.DataFrame{}, err
	}

	labels := make([][]string, len(keys))
	nulls := make([][]bool, len(keys))
	for k, key := range keys {
		labels[k] = df.Col(key).Records()
		nulls[k] = df.Col(key).IsNaN()
	}

	groups := make(map[string]*group)
	var order []*group
	tuple := make([]string, len(keys))
rows:
	for i := 0; i < df.Nrow(); i++ {
		for k := range keys {
			if nulls[k][i] {
				continue rows
			}
			tuple[k] = labels[k][i]
		}
		id := strings.Join(tuple, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &group{labels: append([]string(nil), tuple...)}
			groups[id] = g
			order = append(order, g)
		}
		add(g, i)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return slices.Compare(order[a].labels, order[b].labels) < 0
	})

	cols := make([][]string, len(keys))
	var vals []float64
	for _, g := range order {
		v, ok := result(g)
		if !ok {
			continue
		}
		for k := range keys {
			cols[k] = append(cols[k], g.labels[k])
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("aggregate %s over %v: %w", out, keys, ErrEmptyJoin)
	}

	// Group keys stay text so labels such as "01" are not reparsed.
	columns := make([]series.Series, 0, len(keys)+1)
	for k, key := range keys {
		columns = append(columns, series.New(cols[k], series.String, key))
	}
	columns = append(columns, series.New(vals, series.Float, out))

	grouped := dataframe.New(columns...)
	if grouped.Err != nil {
		return dataframe.DataFrame{}, grouped.Err
	}
	return grouped, nil
}

// Count is the number of rows holding one distinct value.
type Count struct {
	Value string
	N     int
}

// Counts returns the distinct non-NULL values of column with their
// frequencies, most frequent first and ties broken by value.
func Counts(df dataframe.DataFrame, column string) ([]Count, error) {
	values, err := NonNull(df, column)
	if err != nil {
		return nil, err
	}

	byValue := make(map[string]int)
	for _, v := range values {
		byValue[v]++
	}
	if len(byValue) == 0 {
		return nil, fmt.Errorf("counts of %s: %w", column, ErrEmptyJoin)
	}

	counts := make([]Count, 0, len(byValue))
	for v, n := range byValue {
		counts = append(counts, Count{Value: v, N: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return counts[i].Value < counts[j].Value
	})
	return counts, nil
}

// First returns, per distinct non-NULL key, the first non-NULL value in row
// order. Keys whose values are all NULL are absent.
func First(df dataframe.DataFrame, key, value string) (map[string]string, error) {
	if err := requireColumns(df, key, value); err != nil {
		return nil, err
	}
	keys, keyNA := df.Col(key).Records(), df.Col(key).IsNaN()
	values, valueNA := df.Col(value).Records(), df.Col(value).IsNaN()

	first := make(map[string]string, len(keys))
	for i, k := range keys {
		if keyNA[i] || valueNA[i] {
			continue
		}
		if _, ok := first[k]; !ok {
			first[k] = values[i]
		}
	}
	return first, nil
}

// NonNull returns the non-NULL values of column in row order.
func NonNull(df dataframe.DataFrame, column string) ([]string, error) {
	if err := requireColumns(df, column); err != nil {
		return nil, err
	}
	records, na := df.Col(column).Records(), df.Col(column).IsNaN()
	out := make([]string, 0, len(records))
	for i, v := range records {
		if !na[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// Factorize encodes values as integer codes in order of first appearance,
// returning the codes and the distinct values (the code is the index).
func Factorize(values []string) ([]int, []string) {
	codes := make([]int, len(values))
	index := make(map[string]int)
	var uniques []string
	for i, v := range values {
		code, ok := index[v]
		if !ok {
			code = len(uniques)
			index[v] = code
			uniques = append(uniques, v)
		}
		codes[i] = code
	}
	return codes, uniques
}
