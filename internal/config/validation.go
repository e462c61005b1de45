package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateWarehouse()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateReports()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateWarehouse() ValidationErrors {
	var errors ValidationErrors
	db := &c.Warehouse

	switch db.Driver {
	case DriverMySQL, DriverPostgres, "":
	case DriverSQLite:
		if db.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "warehouse.path",
				Message: "path is required for sqlite3",
			})
		}
		return errors
	default:
		errors = append(errors, ValidationError{
			Field:   "warehouse.driver",
			Message: "driver must be 'mysql', 'postgres', or 'sqlite3'",
		})
		return errors
	}

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "warehouse.host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "warehouse.port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   "warehouse.user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   "warehouse.database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   "warehouse.tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "warehouse.max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   "warehouse.max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateServer() ValidationErrors {
	var errors ValidationErrors

	if c.Server.Listen == "" {
		errors = append(errors, ValidationError{
			Field:   "server.listen",
			Message: "listen address is required",
		})
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.timeouts",
			Message: "timeouts cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateReports() ValidationErrors {
	var errors ValidationErrors

	for i, id := range c.Reports.Enabled {
		if !IsKnownReport(id) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("reports.enabled[%d]", i),
				Message: fmt.Sprintf("unknown report %q (known: %s)", id, strings.Join(AllReports, ", ")),
			})
		}
	}

	if c.Reports.Width <= 0 || c.Reports.Height <= 0 {
		errors = append(errors, ValidationError{
			Field:   "reports.width/height",
			Message: "chart size must be positive",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
