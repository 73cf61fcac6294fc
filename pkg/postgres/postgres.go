// Package postgres opens verified PostgreSQL connections.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/retailforecast/salesdata/pkg/config"
)

// EnsureSSLMode disables SSL by default when the DSN does not specify an
// sslmode. Both the postgres:// and postgresql:// schemes are recognized.
func EnsureSSLMode(dsn string) string {
	if strings.HasPrefix(dsn, "postgres") && !strings.Contains(dsn, "sslmode=") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "sslmode=disable"
	}
	return dsn
}

// openFn lets tests substitute the driver constructor.
var openFn = sql.Open

// Connect opens a database handle for cfg and verifies it with a ping. The
// handle keeps the driver's default pool settings.
func Connect(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dsn := EnsureSSLMode(cfg.URL())

	conn, err := openFn("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}
