// Package config provides configuration structures and loading for dwdash.
package config

import "time"

// Report identifiers in page order.
const (
	ReportStandardCost         = "standard-cost"
	ReportDepartmentGeography  = "department-geography"
	ReportEducationComposition = "education-composition"
	ReportCategoryCount        = "category-count"
)

// AllReports lists every report in page order.
var AllReports = []string{
	ReportStandardCost,
	ReportDepartmentGeography,
	ReportEducationComposition,
	ReportCategoryCount,
}

// Supported warehouse drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config represents the complete application configuration.
type Config struct {
	Warehouse DatabaseConfig `yaml:"warehouse" mapstructure:"warehouse"`
	Server    ServerConfig   `yaml:"server" mapstructure:"server"`
	Reports   ReportsConfig  `yaml:"reports" mapstructure:"reports"`
	Logging   LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents the warehouse connection configuration.
type DatabaseConfig struct {
	Driver             string `yaml:"driver" mapstructure:"driver"` // mysql, postgres, sqlite3
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Path               string `yaml:"path" mapstructure:"path"` // sqlite3 snapshot file
	TLS                string `yaml:"tls" mapstructure:"tls"`   // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`

	// Postgres only: keep identifier case instead of folding to lowercase.
	CaseSensitiveIdentifiers bool `yaml:"case_sensitive_identifiers" mapstructure:"case_sensitive_identifiers"`
}

// ServerConfig represents the dashboard HTTP server settings.
type ServerConfig struct {
	Listen       string        `yaml:"listen" mapstructure:"listen"`
	Title        string        `yaml:"title" mapstructure:"title"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ReportsConfig represents report selection and chart settings.
type ReportsConfig struct {
	Enabled          []string `yaml:"enabled" mapstructure:"enabled"`
	Seed             int64    `yaml:"seed" mapstructure:"seed"`
	SyntheticPairing bool     `yaml:"synthetic_pairing" mapstructure:"synthetic_pairing"`
	Width            int      `yaml:"width" mapstructure:"width"`
	Height           int      `yaml:"height" mapstructure:"height"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Warehouse: DatabaseConfig{
			Driver:             DriverMySQL,
			Host:               "localhost",
			Port:               3306,
			TLS:                "preferred",
			MaxConnections:     4,
			MaxIdleConnections: 2,
		},
		Server: ServerConfig{
			Listen:       ":8080",
			Title:        "Data Visualization Dashboard",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Reports: ReportsConfig{
			Enabled:          append([]string(nil), AllReports...),
			Seed:             42,
			SyntheticPairing: true,
			Width:            1400,
			Height:           800,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// EnabledReports returns the enabled report IDs in page order.
// An empty enabled list means every report.
func (c *Config) EnabledReports() []string {
	if len(c.Reports.Enabled) == 0 {
		return append([]string(nil), AllReports...)
	}
	enabled := make(map[string]bool, len(c.Reports.Enabled))
	for _, id := range c.Reports.Enabled {
		enabled[id] = true
	}
	ids := make([]string, 0, len(enabled))
	for _, id := range AllReports {
		if enabled[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsKnownReport reports whether id names a report.
func IsKnownReport(id string) bool {
	for _, known := range AllReports {
		if known == id {
			return true
		}
	}
	return false
}
