// Package salesdata loads retailer sales tables from PostgreSQL into
// in-memory datasets. Connection settings come from the repo-root .env file
// and the process environment, with the process environment taking
// precedence.
package salesdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/retailforecast/salesdata/pkg/config"
	"github.com/retailforecast/salesdata/pkg/dataset"
	"github.com/retailforecast/salesdata/pkg/postgres"
)

// DefaultTable is the table LoadSales reads.
const DefaultTable = "walmart_sales"

// dateColumn is normalized to time.Time after every load.
const dateColumn = "date"

// ErrInvalidTable marks a table name that is not a plain SQL identifier.
var ErrInvalidTable = errors.New("invalid table name")

// tablePattern matches unqualified PostgreSQL identifiers.
var tablePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// DB wraps a verified database handle.
type DB struct {
	Conn *sql.DB
}

// Connect resolves configuration and opens a verified connection.
func Connect(ctx context.Context) (*DB, error) {
	cfg, err := config.Resolve()
	if err != nil {
		return nil, err
	}
	conn, err := postgres.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &DB{Conn: conn}, nil
}

// Close releases the underlying handle.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// LoadSales loads the default sales table.
func (db *DB) LoadSales(ctx context.Context) (*dataset.Dataset, error) {
	return db.LoadTable(ctx, DefaultTable)
}

// LoadTable reads the whole table into memory and normalizes its date
// column, when present, to time.Time values. The table name must be a plain
// identifier; anything else is rejected before reaching the database.
func (db *DB) LoadTable(ctx context.Context, table string) (*dataset.Dataset, error) {
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}

	query := fmt.Sprintf("SELECT * FROM %s;", table)
	rows, err := db.Conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	ds, err := dataset.Collect(rows)
	if err != nil {
		return nil, err
	}
	if err := ds.CoerceDate(dateColumn); err != nil {
		return nil, err
	}
	return ds, nil
}

// connectFn lets tests substitute the connection constructor.
var connectFn = Connect

// LoadSales opens a connection scoped to this call, loads the default sales
// table and releases the connection.
func LoadSales(ctx context.Context) (*dataset.Dataset, error) {
	return LoadTable(ctx, DefaultTable)
}

// LoadTable opens a connection scoped to this call, loads one table and
// releases the connection whether or not the load succeeds.
func LoadTable(ctx context.Context, table string) (*dataset.Dataset, error) {
	db, err := connectFn(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.LoadTable(ctx, table)
}
