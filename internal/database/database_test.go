package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/dwdash/internal/config"
	"github.com/dbsmedya/dwdash/internal/sqlutil"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.DatabaseConfig
		expected string
	}{
		{
			name: "mysql basic",
			cfg: &config.DatabaseConfig{
				Driver:   "mysql",
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "secret",
				Database: "dump-dw_aw-202403050806",
				TLS:      "preferred",
			},
			expected: "root:secret@tcp(localhost:3306)/dump-dw_aw-202403050806?parseTime=true&tls=preferred",
		},
		{
			name: "mysql empty password and tls disabled",
			cfg: &config.DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Database: "aw",
				TLS:      "disable",
			},
			expected: "root:@tcp(localhost:3306)/aw?parseTime=true&tls=false",
		},
		{
			name: "mysql tls required",
			cfg: &config.DatabaseConfig{
				Host:     "dw",
				Port:     3307,
				User:     "admin",
				Password: "p@ss",
				Database: "aw",
				TLS:      "required",
			},
			expected: "admin:p@ss@tcp(dw:3307)/aw?parseTime=true&tls=true",
		},
		{
			name: "postgres escapes credentials",
			cfg: &config.DatabaseConfig{
				Driver:   "postgres",
				Host:     "pg",
				Port:     5432,
				User:     "analyst",
				Password: "p@ss word",
				Database: "aw",
				TLS:      "disable",
			},
			expected: "postgres://analyst:p%40ss%20word@pg:5432/aw?sslmode=disable",
		},
		{
			name: "postgres preferred tls",
			cfg: &config.DatabaseConfig{
				Driver:   "postgres",
				Host:     "pg",
				Port:     5432,
				User:     "analyst",
				Database: "aw",
			},
			expected: "postgres://analyst:@pg:5432/aw?sslmode=require",
		},
		{
			name: "sqlite read only",
			cfg: &config.DatabaseConfig{
				Driver: "sqlite3",
				Path:   "/data/aw.db",
			},
			expected: "file:/data/aw.db?mode=ro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildDSN(tt.cfg))
		})
	}
}

func TestNewManager(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "localhost", Port: 3306, Database: "aw"}

	manager := NewManager(cfg)
	require.NotNil(t, manager)
	assert.Equal(t, cfg, manager.config)
	assert.Nil(t, manager.Warehouse, "Warehouse should be nil before Connect()")
	assert.Equal(t, "mysql", manager.DriverName())
	assert.Equal(t, sqlutil.MySQL, manager.Dialect())
}

func TestManager_Describe(t *testing.T) {
	m := NewManager(&config.DatabaseConfig{Driver: "postgres", Host: "pg", Port: 5432, User: "u", Password: "hunter2", Database: "aw"})
	assert.Equal(t, "postgres://pg:5432/aw", m.Describe())
	assert.NotContains(t, m.Describe(), "hunter2")

	m = NewManager(&config.DatabaseConfig{Driver: "sqlite3", Path: "/tmp/aw.db"})
	assert.Equal(t, "sqlite3:/tmp/aw.db", m.Describe())
	assert.Equal(t, sqlutil.SQLite, m.Dialect())
}

func TestManager_DialectCase(t *testing.T) {
	m := NewManager(&config.DatabaseConfig{Driver: "postgres"})
	assert.Equal(t, sqlutil.Postgres, m.Dialect())

	m = NewManager(&config.DatabaseConfig{Driver: "postgres", CaseSensitiveIdentifiers: true})
	assert.Equal(t, sqlutil.PostgresExact, m.Dialect())

	m = NewManager(&config.DatabaseConfig{Driver: "mysql", CaseSensitiveIdentifiers: true})
	assert.Equal(t, sqlutil.MySQL, m.Dialect())
}

func TestManager_Connect(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlmock", Host: "mock-ok", Port: 1, User: "u", Database: "aw"}
	_, mock, err := sqlmock.NewWithDSN(BuildDSN(cfg), sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectPing()

	m := NewManager(cfg)
	require.NoError(t, m.Connect(context.Background()))
	require.NotNil(t, m.Warehouse)
	require.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestManager_ConnectPingFailure(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlmock", Host: "mock-fail", Port: 1, User: "u", Database: "aw"}
	_, mock, err := sqlmock.NewWithDSN(BuildDSN(cfg), sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	m := NewManager(cfg)
	err = m.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Contains(t, err.Error(), "sqlmock://mock-fail:1/aw")
	assert.Nil(t, m.Warehouse)
}

func TestManager_PingWithoutConnect(t *testing.T) {
	m := NewManager(&config.DatabaseConfig{})
	assert.Error(t, m.Ping(context.Background()))
}

func TestManagerCloseWithoutConnect(t *testing.T) {
	m := NewManager(&config.DatabaseConfig{Host: "localhost"})

	// Should not panic when closing unconnected manager
	assert.NoError(t, m.Close())
}

func TestSetupSignalHandler_ParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := SetupSignalHandler(parent, nil)
	defer cancel()

	cancelParent()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
