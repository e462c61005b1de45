// Package sqlutil provides SQL utility functions for dwdash.
package sqlutil

import (
	"regexp"
	"strings"
)

// Dialect selects identifier quoting rules for a warehouse driver.
type Dialect string

const (
	// MySQL quotes with backticks.
	MySQL Dialect = "mysql"
	// Postgres quotes with double quotes around the lowercased name, which
	// matches tables created with unquoted identifiers.
	Postgres Dialect = "postgres"
	// PostgresExact quotes with double quotes and keeps the case of the name,
	// for schemas created with quoted mixed-case identifiers.
	PostgresExact Dialect = "postgres-exact"
	// SQLite accepts double quotes.
	SQLite Dialect = "sqlite3"
)

// DialectFor maps a database/sql driver name to its Dialect.
// Unknown drivers fall back to MySQL.
func DialectFor(driver string) Dialect {
	switch Dialect(driver) {
	case Postgres:
		return Postgres
	case SQLite:
		return SQLite
	default:
		return MySQL
	}
}

// PreserveCase returns the case-preserving variant of d. Only Postgres
// folds case, so other dialects are returned unchanged.
func (d Dialect) PreserveCase() Dialect {
	if d == Postgres {
		return PostgresExact
	}
	return d
}

// IsPostgres reports whether d is either Postgres variant.
func (d Dialect) IsPostgres() bool {
	return d == Postgres || d == PostgresExact
}

// QuoteIdentifier quotes a MySQL identifier (table name, column name) with backticks.
// It escapes any existing backticks by doubling them.
// Example: "dimproduct" -> "`dimproduct`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// Quote quotes an identifier for the dialect.
func (d Dialect) Quote(name string) string {
	switch d {
	case Postgres:
		return `"` + strings.ReplaceAll(strings.ToLower(name), `"`, `""`) + `"`
	case PostgresExact, SQLite:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	default:
		return QuoteIdentifier(name)
	}
}

// validIdentifierRegex restricts identifiers to alphanumerics and underscore.
var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier checks if a name only contains alphanumeric characters and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes an identifier after validating it.
func (d Dialect) QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return d.Quote(name), nil
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}

// BuildSelect returns "SELECT c1, c2 FROM t" with every identifier validated
// and quoted for the dialect.
func (d Dialect) BuildSelect(table string, columns []string) (string, error) {
	qt, err := d.QuoteIdentifierSafe(table)
	if err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", &InvalidIdentifierError{Name: table + ".<no columns>"}
	}
	quoted := make([]string, len(columns))
	for i, col := range columns {
		qc, err := d.QuoteIdentifierSafe(col)
		if err != nil {
			return "", err
		}
		quoted[i] = qc
	}
	return "SELECT " + strings.Join(quoted, ", ") + " FROM " + qt, nil
}
