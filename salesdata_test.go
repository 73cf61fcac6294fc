package salesdata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailforecast/salesdata/pkg/config"
)

// newExactMock builds a sqlmock handle that matches queries byte for byte.
func newExactMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	return &DB{Conn: mockDB}, mock
}

func TestLoadTableIssuesExactQuery(t *testing.T) {
	db, mock := newExactMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "total"}).
		AddRow(int64(1), 99.5).
		AddRow(int64(2), 12.0)
	mock.ExpectQuery("SELECT * FROM orders;").WillReturnRows(rows)

	ds, err := db.LoadTable(context.Background(), "orders")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"id", "total"}, ds.Columns)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, int64(1), ds.Rows[0][0])
	assert.Equal(t, 12.0, ds.Rows[1][1])
}

func TestLoadSalesReadsDefaultTable(t *testing.T) {
	db, mock := newExactMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"store", "weekly_sales"}).
		AddRow(int64(1), 1643690.9)
	mock.ExpectQuery("SELECT * FROM walmart_sales;").WillReturnRows(rows)

	ds, err := db.LoadSales(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 1, ds.Len())
}

func TestLoadTableCoercesDateColumn(t *testing.T) {
	db, mock := newExactMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"store", "date", "weekly_sales"}).
		AddRow(int64(1), "05-02-2010", 1643690.9).
		AddRow(int64(1), "12-02-2010", 1641957.44)
	mock.ExpectQuery("SELECT * FROM walmart_sales;").WillReturnRows(rows)

	ds, err := db.LoadSales(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2010, 2, 5, 0, 0, 0, 0, time.UTC), ds.Rows[0][1])
	assert.Equal(t, time.Date(2010, 2, 12, 0, 0, 0, 0, time.UTC), ds.Rows[1][1])
	// Other columns stay untouched.
	assert.Equal(t, int64(1), ds.Rows[0][0])
	assert.Equal(t, 1643690.9, ds.Rows[0][2])
}

func TestLoadTableWithoutDateColumn(t *testing.T) {
	db, mock := newExactMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"region", "total"}).
		AddRow("north", 120.5)
	mock.ExpectQuery("SELECT * FROM region_totals;").WillReturnRows(rows)

	ds, err := db.LoadTable(context.Background(), "region_totals")
	require.NoError(t, err)
	assert.Equal(t, "north", ds.Rows[0][0])
	assert.Equal(t, 120.5, ds.Rows[0][1])
}

func TestLoadTableRejectsInvalidNames(t *testing.T) {
	db, mock := newExactMock(t)
	defer db.Close()

	for _, table := range []string{
		"",
		"walmart_sales; DROP TABLE users",
		"1sales",
		"sales-2010",
		"public.walmart_sales",
		`sales"`,
	} {
		_, err := db.LoadTable(context.Background(), table)
		assert.ErrorIs(t, err, ErrInvalidTable, "table %q", table)
	}

	// Nothing may reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTablePattern(t *testing.T) {
	valid := []string{"walmart_sales", "_staging", "Sales2010", "a"}
	for _, name := range valid {
		assert.True(t, tablePattern.MatchString(name), "name %q", name)
	}

	// 63 characters is the PostgreSQL identifier limit; 64 is out.
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}
	assert.True(t, tablePattern.MatchString(string(long[:63])))
	assert.False(t, tablePattern.MatchString(string(long)))
}

func TestLoadTableWrapsQueryError(t *testing.T) {
	db, mock := newExactMock(t)
	defer db.Close()

	driverErr := errors.New(`pq: relation "missing_table" does not exist`)
	mock.ExpectQuery("SELECT * FROM missing_table;").WillReturnError(driverErr)

	_, err := db.LoadTable(context.Background(), "missing_table")
	require.Error(t, err)
	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "query failed")
}

func TestScopedLoadReleasesConnection(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"store", "weekly_sales"}).
		AddRow(int64(1), 1643690.9)
	mock.ExpectQuery("SELECT * FROM walmart_sales;").WillReturnRows(rows)
	mock.ExpectClose()

	connectFn = func(ctx context.Context) (*DB, error) {
		return &DB{Conn: mockDB}, nil
	}
	defer func() { connectFn = Connect }()

	ds, err := LoadSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScopedLoadReleasesConnectionOnError(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT * FROM walmart_sales;").WillReturnError(errors.New("pq: terminating connection"))
	mock.ExpectClose()

	connectFn = func(ctx context.Context) (*DB, error) {
		return &DB{Conn: mockDB}, nil
	}
	defer func() { connectFn = Connect }()

	_, err = LoadTable(context.Background(), DefaultTable)
	require.Error(t, err)

	// The connection is released even when the query fails.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScopedLoadPropagatesConnectError(t *testing.T) {
	connectErr := errors.New("failed to ping database: connection refused")
	connectFn = func(ctx context.Context) (*DB, error) {
		return nil, connectErr
	}
	defer func() { connectFn = Connect }()

	_, err := LoadSales(context.Background())
	assert.ErrorIs(t, err, connectErr)
}

func TestConnectReportsMissingConfig(t *testing.T) {
	// An empty .env pins the repo-root lookup to the temp dir.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(""), 0o644))
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	_, err = Connect(context.Background())
	require.Error(t, err)

	var missingErr *config.MissingEnvError
	require.ErrorAs(t, err, &missingErr)
	assert.ElementsMatch(t, []string{"DB_USER", "DB_PASSWORD", "DB_NAME"}, missingErr.Vars)
}
