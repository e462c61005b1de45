// Package database provides warehouse connection management for dwdash.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // Postgres driver
	_ "github.com/mattn/go-sqlite3"    // sqlite3 driver for local snapshots

	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/sqlutil"
)

// Manager owns the single warehouse connection shared by all reports.
type Manager struct {
	Warehouse *sql.DB
	config    *config.DatabaseConfig
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.DatabaseConfig) *Manager {
	return &Manager{
		config: cfg,
	}
}

// Connect opens the warehouse connection and verifies it with a ping.
// There is no retry: a failure is returned to the caller as is.
func (m *Manager) Connect(ctx context.Context) error {
	db, err := sql.Open(m.DriverName(), BuildDSN(m.config))
	if err != nil {
		return fmt.Errorf("failed to open warehouse: %w", err)
	}

	if m.config.MaxConnections > 0 {
		db.SetMaxOpenConns(m.config.MaxConnections)
	}
	if m.config.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(m.config.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to warehouse %s: %w", m.Describe(), err)
	}

	m.Warehouse = db
	return nil
}

// DriverName returns the database/sql driver name for the configuration.
func (m *Manager) DriverName() string {
	if m.config.Driver == "" {
		return config.DriverMySQL
	}
	return m.config.Driver
}

// Dialect returns the SQL dialect of the configured driver.
func (m *Manager) Dialect() sqlutil.Dialect {
	d := sqlutil.DialectFor(m.DriverName())
	if m.config.CaseSensitiveIdentifiers {
		d = d.PreserveCase()
	}
	return d
}

// Describe returns a credential-free description of the warehouse, suitable
// for logs and the dashboard header.
func (m *Manager) Describe() string {
	if m.DriverName() == config.DriverSQLite {
		return "sqlite3:" + m.config.Path
	}
	return fmt.Sprintf("%s://%s:%d/%s", m.DriverName(), m.config.Host, m.config.Port, m.config.Database)
}

// BuildDSN constructs a driver-specific DSN from configuration.
func BuildDSN(cfg *config.DatabaseConfig) string {
	switch cfg.Driver {
	case config.DriverPostgres:
		return buildPostgresDSN(cfg)
	case config.DriverSQLite:
		return buildSQLiteDSN(cfg)
	default:
		return buildMySQLDSN(cfg)
	}
}

func buildMySQLDSN(cfg *config.DatabaseConfig) string {
	// Format: user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
	)

	if cfg.Database != "" {
		dsn += cfg.Database
	}

	params := "?parseTime=true"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

func buildPostgresDSN(cfg *config.DatabaseConfig) string {
	// lib/pq has no opportunistic mode; "preferred" maps to its default.
	sslmode := "require"
	if cfg.TLS == "disable" {
		sslmode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "sslmode=" + sslmode,
	}
	return u.String()
}

func buildSQLiteDSN(cfg *config.DatabaseConfig) string {
	return "file:" + cfg.Path + "?mode=ro"
}

// Close closes the warehouse connection.
func (m *Manager) Close() error {
	if m.Warehouse == nil {
		return nil
	}
	if err := m.Warehouse.Close(); err != nil {
		return fmt.Errorf("warehouse close: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.Warehouse == nil {
		return fmt.Errorf("warehouse is not connected")
	}
	if err := m.Warehouse.PingContext(ctx); err != nil {
		return fmt.Errorf("warehouse ping failed: %w", err)
	}
	return nil
}
