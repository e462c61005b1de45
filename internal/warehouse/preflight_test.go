package warehouse

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/dwdash/internal/sqlutil"
)

func TestPreflight_Success(t *testing.T) {
	c, mock := newMockClient(t, sqlutil.MySQL)

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME IN (?,?)")).
		WithArgs("dimcurrency", "dimproductcategory").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("dimcurrency").AddRow("dimproductcategory"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `dimcurrency`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(105))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `dimproductcategory`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	stats, err := c.Preflight(context.Background(), []string{"dimproductcategory", "dimcurrency", "dimcurrency"})
	require.NoError(t, err)
	assert.Equal(t, []TableStat{
		{Table: "dimcurrency", Rows: 105},
		{Table: "dimproductcategory", Rows: 4},
	}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreflight_MissingTable(t *testing.T) {
	c, mock := newMockClient(t, sqlutil.MySQL)

	mock.ExpectQuery("information_schema.TABLES").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("dimtime"))

	_, err := c.Preflight(context.Background(), []string{"dimtime", "factinternetsales"})
	require.Error(t, err)

	var pfErr *PreflightError
	require.True(t, errors.As(err, &pfErr))
	assert.Equal(t, "table_existence", pfErr.Check)
	assert.Equal(t, []string{"factinternetsales"}, pfErr.Tables)
}

func TestPreflight_EmptyTable(t *testing.T) {
	c, mock := newMockClient(t, sqlutil.SQLite)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM sqlite_master WHERE type = 'table' AND name IN (?)")).
		WithArgs("dimemployee").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("dimemployee"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM "dimemployee"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	stats, err := c.Preflight(context.Background(), []string{"dimemployee"})
	require.Error(t, err)
	assert.Len(t, stats, 1)

	var pfErr *PreflightError
	require.True(t, errors.As(err, &pfErr))
	assert.Equal(t, "row_count", pfErr.Check)
	assert.Contains(t, err.Error(), "dimemployee")
}

func TestTablesExist_PostgresPlaceholders(t *testing.T) {
	c, mock := newMockClient(t, sqlutil.Postgres)

	mock.ExpectQuery(regexp.QuoteMeta("table_schema = current_schema() AND table_name IN ($1,$2)")).
		WithArgs("dimcustomer", "dimgeography").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("dimcustomer").AddRow("DimGeography"))

	assert.NoError(t, c.TablesExist(context.Background(), []string{"dimcustomer", "dimgeography"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTablesExist_Empty(t *testing.T) {
	c, _ := newMockClient(t, sqlutil.MySQL)
	assert.NoError(t, c.TablesExist(context.Background(), nil))
}
