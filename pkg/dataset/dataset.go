// Package dataset holds query results as column-ordered, schema-less tables.
package dataset

import (
	"database/sql"
	"fmt"
)

// Dataset is a fully materialized result set. Every row maps positionally
// onto Columns.
type Dataset struct {
	Columns []string
	Rows    [][]any
}

// Collect drains rows into a Dataset. The caller keeps ownership of rows and
// is responsible for closing them.
func Collect(rows *sql.Rows) (*Dataset, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	ds := &Dataset{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		ds.Rows = append(ds.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ds, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.Columns) }

// ColumnIndex returns the position of the named column, or -1 when the
// dataset has no such column.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool { return d.ColumnIndex(name) >= 0 }

// Column returns a copy of the named column's values.
func (d *Dataset) Column(name string) ([]any, bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out, true
}
