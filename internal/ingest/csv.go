// Package ingest extracts, parses and imports the Walmart sales dataset.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/retailforecast/salesdata/pkg/dataset"
)

// Sale is a single row of the Walmart weekly sales dataset.
type Sale struct {
	Store        int
	Date         time.Time
	WeeklySales  float64
	HolidayFlag  bool
	Temperature  float64
	FuelPrice    float64
	CPI          float64
	Unemployment float64
}

// ParseCSV reads the dataset file. Rows that cannot be parsed are skipped
// with a warning rather than failing the whole run.
func ParseCSV(path string) ([]Sale, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Header row is discarded.
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	sales := make([]Sale, 0, 1024)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping unreadable record: %v", err)
			continue
		}

		sale, err := parseRecord(record)
		if err != nil {
			log.Printf("Warning: skipping invalid record: %v", err)
			continue
		}
		sales = append(sales, sale)
	}

	return sales, nil
}

func parseRecord(record []string) (Sale, error) {
	if len(record) < 8 {
		return Sale{}, fmt.Errorf("record has insufficient columns: %d", len(record))
	}

	store, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return Sale{}, fmt.Errorf("invalid store: %w", err)
	}

	rawDate := strings.TrimSpace(record[1])
	parsed, err := dataset.ParseDate(rawDate)
	if err != nil {
		return Sale{}, fmt.Errorf("invalid date %q: %w", rawDate, err)
	}
	date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)

	weeklySales, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return Sale{}, fmt.Errorf("invalid weekly_sales: %w", err)
	}

	holidayFlag := strings.TrimSpace(record[3]) == "1"

	temperature, err := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
	if err != nil {
		return Sale{}, fmt.Errorf("invalid temperature: %w", err)
	}

	fuelPrice, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
	if err != nil {
		return Sale{}, fmt.Errorf("invalid fuel_price: %w", err)
	}

	cpi, err := strconv.ParseFloat(strings.TrimSpace(record[6]), 64)
	if err != nil {
		return Sale{}, fmt.Errorf("invalid cpi: %w", err)
	}

	unemployment, err := strconv.ParseFloat(strings.TrimSpace(record[7]), 64)
	if err != nil {
		return Sale{}, fmt.Errorf("invalid unemployment: %w", err)
	}

	return Sale{
		Store:        store,
		Date:         date,
		WeeklySales:  weeklySales,
		HolidayFlag:  holidayFlag,
		Temperature:  temperature,
		FuelPrice:    fuelPrice,
		CPI:          cpi,
		Unemployment: unemployment,
	}, nil
}
