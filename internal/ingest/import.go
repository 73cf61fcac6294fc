package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS walmart_sales (
	store INTEGER NOT NULL,
	date DATE NOT NULL,
	weekly_sales DOUBLE PRECISION NOT NULL,
	holiday_flag BOOLEAN NOT NULL,
	temperature DOUBLE PRECISION NOT NULL,
	fuel_price DOUBLE PRECISION NOT NULL,
	cpi DOUBLE PRECISION NOT NULL,
	unemployment DOUBLE PRECISION NOT NULL
)`

const insertSQL = `INSERT INTO walmart_sales (store, date, weekly_sales, holiday_flag, temperature, fuel_price, cpi, unemployment)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// EnsureTable creates the walmart_sales table when it does not exist yet.
func EnsureTable(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create sales table: %w", err)
	}
	return nil
}

// Import writes all sales in a single transaction and returns the number of
// inserted rows. Any failed insert rolls the whole import back.
func Import(ctx context.Context, db *sql.DB, sales []Sale) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, sale := range sales {
		_, err := stmt.ExecContext(ctx,
			sale.Store,
			sale.Date,
			sale.WeeklySales,
			sale.HolidayFlag,
			sale.Temperature,
			sale.FuelPrice,
			sale.CPI,
			sale.Unemployment,
		)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("failed to insert record: %w", err)
		}

		count++
		if count%1000 == 0 {
			log.Printf("Imported %d records...", count)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return count, nil
}
