package warehouse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/dwdash/internal/sqlutil"
)

// PreflightError represents a preflight check failure.
type PreflightError struct {
	Check   string
	Message string
	Tables  []string
}

func (e *PreflightError) Error() string {
	if len(e.Tables) > 0 {
		return fmt.Sprintf("%s: %s (tables: %v)", e.Check, e.Message, e.Tables)
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// TableStat is the row count of one warehouse table.
type TableStat struct {
	Table string
	Rows  int64
}

// Preflight checks that every table exists and has at least one row.
// It returns the per-table counts even when the check fails on empty tables.
func (c *Client) Preflight(ctx context.Context, tables []string) ([]TableStat, error) {
	tables = uniqueSorted(tables)

	if err := c.TablesExist(ctx, tables); err != nil {
		return nil, err
	}

	stats := make([]TableStat, 0, len(tables))
	var empty []string
	for _, table := range tables {
		n, err := c.Count(ctx, table)
		if err != nil {
			return nil, err
		}
		c.logger.WithTable(table).Debugw("table counted", "rows", n)
		stats = append(stats, TableStat{Table: table, Rows: n})
		if n == 0 {
			empty = append(empty, table)
		}
	}

	if len(empty) > 0 {
		return stats, &PreflightError{
			Check:   "row_count",
			Message: "tables are empty",
			Tables:  empty,
		}
	}
	return stats, nil
}

// TablesExist verifies every table is present in the current schema.
func (c *Client) TablesExist(ctx context.Context, tables []string) error {
	if len(tables) == 0 {
		return nil
	}

	query, args := c.tableCatalogQuery(tables)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		existing[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, table := range tables {
		if !existing[strings.ToLower(table)] {
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		return &PreflightError{
			Check:   "table_existence",
			Message: "tables not found in warehouse",
			Tables:  missing,
		}
	}
	return nil
}

func (c *Client) tableCatalogQuery(tables []string) (string, []interface{}) {
	args := make([]interface{}, len(tables))
	placeholders := make([]string, len(tables))
	for i, t := range tables {
		args[i] = t
		if c.dialect.IsPostgres() {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	in := "(" + strings.Join(placeholders, ",") + ")"

	switch {
	case c.dialect.IsPostgres():
		return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name IN " + in, args
	case c.dialect == sqlutil.SQLite:
		return "SELECT name FROM sqlite_master WHERE type = 'table' AND name IN " + in, args
	default:
		return "SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME IN " + in, args
	}
}

func uniqueSorted(tables []string) []string {
	seen := make(map[string]bool, len(tables))
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}
