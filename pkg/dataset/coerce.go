package dataset

import (
	"fmt"
	"time"
)

// dateLayouts are the accepted textual date formats, tried in order.
// Day-first precedes ISO; Walmart exports write day-month-year.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02-01-2006",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
}

// ParseDate parses a textual date in one of the accepted layouts. Date-only
// layouts land at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// CoerceDate converts every value in the named column to time.Time in place.
// A dataset without the column is left untouched; NULLs stay nil.
func (d *Dataset) CoerceDate(column string) error {
	idx := d.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	for i, row := range d.Rows {
		v, err := toTime(row[idx])
		if err != nil {
			return fmt.Errorf("column %q row %d: %w", column, i, err)
		}
		row[idx] = v
	}
	return nil
}

// toTime normalizes a single driver value to time.Time.
func toTime(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return t, nil
	case []byte:
		return ParseDate(string(t))
	case string:
		return ParseDate(t)
	default:
		return nil, fmt.Errorf("cannot interpret %v (%T) as a date", v, v)
	}
}
