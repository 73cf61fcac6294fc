package main

import (
	"context"
	"fmt"
	"time"

	"github.com/retailforecast/salesdata"
)

func main() {
	ctx := context.Background()

	// 1) Load the default sales table (walmart_sales)
	ds, err := salesdata.LoadSales(ctx)
	if err != nil {
		panic(fmt.Errorf("load sales: %w", err))
	}
	fmt.Printf("✅ Loaded %d rows x %d columns\n", ds.Len(), ds.Width())
	fmt.Printf("Columns: %v\n", ds.Columns)

	// 2) Dates come back as time.Time
	if dates, ok := ds.Column("date"); ok && len(dates) > 0 {
		if first, isTime := dates[0].(time.Time); isTime {
			fmt.Printf("✅ First date: %s\n", first.Format("2006-01-02"))
		}
	}

	// 3) Load another table over one long-lived connection
	db, err := salesdata.Connect(ctx)
	if err != nil {
		panic(fmt.Errorf("connect: %w", err))
	}
	defer db.Close()

	stores, err := db.LoadTable(ctx, "stores")
	if err != nil {
		panic(fmt.Errorf("load stores: %w", err))
	}
	fmt.Printf("✅ Loaded %d store rows\n", stores.Len())
}
