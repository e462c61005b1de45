// Package warehouse runs the fixed read-only queries against the data
// warehouse and loads their results into data frames.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/dbsmedya/dwdash/internal/logger"
	"github.com/dbsmedya/dwdash/internal/sqlutil"
	"github.com/dbsmedya/dwdash/internal/types"
)

// ErrEmptyResult is returned when a query yields zero rows.
var ErrEmptyResult = errors.New("query returned no rows")

// Source loads query results as data frames. *Client implements it; report
// tests use in-memory fakes.
type Source interface {
	Fetch(ctx context.Context, sel Select) (dataframe.DataFrame, error)
}

// Client executes warehouse queries over a shared *sql.DB.
type Client struct {
	db      *sql.DB
	dialect sqlutil.Dialect
	logger  *logger.Logger
}

// NewClient creates a Client. A nil logger discards output.
func NewClient(db *sql.DB, dialect sqlutil.Dialect, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		db:      db,
		dialect: dialect,
		logger:  log,
	}
}

// Dialect returns the SQL dialect used for quoting.
func (c *Client) Dialect() sqlutil.Dialect {
	return c.dialect
}

// Fetch runs sel and returns its rows as a typed data frame.
// A query error, a missing column or an empty result is returned as an error.
func (c *Client) Fetch(ctx context.Context, sel Select) (dataframe.DataFrame, error) {
	start := time.Now()
	log := c.logger.WithTable(sel.Table)

	query, err := c.dialect.BuildSelect(sel.Table, sel.ColumnNames())
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build query for %s: %w", sel.Table, err)
	}

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to query %s: %w", sel.Table, err)
	}
	defer rows.Close()

	if err := checkColumns(rows, sel); err != nil {
		return dataframe.DataFrame{}, err
	}

	cols := newColumnBuffers(sel)
	raw := make([]interface{}, len(sel.Columns))
	ptrs := make([]interface{}, len(sel.Columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("failed to scan %s row %d: %w", sel.Table, n, err)
		}
		if err := cols.append(raw); err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%s row %d: %w", sel.Table, n, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read %s: %w", sel.Table, err)
	}

	if n == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", sel.Table, ErrEmptyResult)
	}

	df := dataframe.New(cols.series()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build frame for %s: %w", sel.Table, df.Err)
	}

	log.Debugw("query complete", "rows", n, "duration", time.Since(start))
	return df, nil
}

// checkColumns verifies the result set carries exactly the selected columns.
func checkColumns(rows *sql.Rows, sel Select) error {
	got, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns of %s: %w", sel.Table, err)
	}
	want := sel.ColumnNames()
	if len(got) != len(want) {
		return fmt.Errorf("%s: expected columns %v, got %v", sel.Table, want, got)
	}
	for i := range want {
		if !strings.EqualFold(got[i], want[i]) {
			return fmt.Errorf("%s: missing column %s (got %v)", sel.Table, want[i], got)
		}
	}
	return nil
}

// columnBuffers accumulates converted values per column before the frame is built.
type columnBuffers struct {
	sel     Select
	ints    map[int][]int
	floats  map[int][]float64
	strings map[int][]interface{} // nil marks NULL
}

func newColumnBuffers(sel Select) *columnBuffers {
	return &columnBuffers{
		sel:     sel,
		ints:    make(map[int][]int),
		floats:  make(map[int][]float64),
		strings: make(map[int][]interface{}),
	}
}

func (b *columnBuffers) append(raw []interface{}) error {
	for i, col := range b.sel.Columns {
		v := raw[i]
		switch col.Type {
		case series.Int:
			if v == nil {
				return fmt.Errorf("NULL in key column %s", col.Name)
			}
			n, err := types.ToInt64(v)
			if err != nil {
				return fmt.Errorf("column %s: %w", col.Name, err)
			}
			b.ints[i] = append(b.ints[i], int(n))
		case series.Float:
			if v == nil {
				b.floats[i] = append(b.floats[i], math.NaN())
				continue
			}
			f, err := types.ToFloat64(v)
			if err != nil {
				return fmt.Errorf("column %s: %w", col.Name, err)
			}
			b.floats[i] = append(b.floats[i], f)
		default:
			if v == nil {
				b.strings[i] = append(b.strings[i], nil)
				continue
			}
			b.strings[i] = append(b.strings[i], types.ToString(v))
		}
	}
	return nil
}

func (b *columnBuffers) series() []series.Series {
	out := make([]series.Series, len(b.sel.Columns))
	for i, col := range b.sel.Columns {
		switch col.Type {
		case series.Int:
			out[i] = series.New(b.ints[i], series.Int, col.Name)
		case series.Float:
			out[i] = series.New(b.floats[i], series.Float, col.Name)
		default:
			out[i] = series.New(b.strings[i], series.String, col.Name)
		}
	}
	return out
}

// Count returns the total row count of table.
func (c *Client) Count(ctx context.Context, table string) (int64, error) {
	qt, err := c.dialect.QuoteIdentifierSafe(table)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+qt).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// CountJoin returns the number of rows the inner join chain j yields when
// computed by the database.
func (c *Client) CountJoin(ctx context.Context, j JoinCount) (int64, error) {
	query, err := c.buildJoinCount(j)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := c.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count join on %s: %w", j.Base, err)
	}
	return count, nil
}

func (c *Client) buildJoinCount(j JoinCount) (string, error) {
	base, err := c.dialect.QuoteIdentifierSafe(j.Base)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(base)
	b.WriteString(" t0")

	for i, step := range j.Steps {
		table, err := c.dialect.QuoteIdentifierSafe(step.Table)
		if err != nil {
			return "", err
		}
		left, err := c.dialect.QuoteIdentifierSafe(step.LeftKey)
		if err != nil {
			return "", err
		}
		right, err := c.dialect.QuoteIdentifierSafe(step.RightKey)
		if err != nil {
			return "", err
		}
		alias := fmt.Sprintf("t%d", i+1)
		fmt.Fprintf(&b, " JOIN %s %s ON t0.%s = %s.%s", table, alias, left, alias, right)
	}
	return b.String(), nil
}
