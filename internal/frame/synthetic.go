package frame

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ErrNoChoices is returned when a synthetic assignment has nothing to draw from.
var ErrNoChoices = errors.New("no values to draw from")

// AssignRandom adds (or replaces) column with values drawn uniformly, with
// replacement, from choices. The draw depends only on seed and the number of
// rows, so a fixed seed reproduces the same column.
//
// The column is synthetic: it pairs rows with values that have no relation
// in the source data.
func AssignRandom(df dataframe.DataFrame, column string, choices []string, seed int64) (dataframe.DataFrame, error) {
	if len(choices) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("assign %s: %w", column, ErrNoChoices)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	values := make([]string, df.Nrow())
	for i := range values {
		values[i] = choices[rng.IntN(len(choices))]
	}

	out := df.Mutate(series.New(values, series.String, column))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("assign %s: %w", column, out.Err)
	}
	return out, nil
}
