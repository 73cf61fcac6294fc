package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/retailforecast/salesdata/internal/ingest"
	"github.com/retailforecast/salesdata/internal/kaggle"
	"github.com/retailforecast/salesdata/pkg/config"
	"github.com/retailforecast/salesdata/pkg/postgres"
)

func NewRunCmd() *cobra.Command {
	var (
		csvPath string
		rawDir  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download, extract and import the Walmart sales dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Resolve()
			if err != nil {
				return err
			}
			pipe := config.ResolvePipeline()
			if rawDir != "" {
				pipe.RawDataDir = rawDir
			}

			log.Println("=== Walmart sales ingestion ===")
			log.Printf("Raw data dir: %s", pipe.RawDataDir)

			if csvPath == "" {
				log.Println("Step 1: Loading Kaggle credentials...")
				creds, err := kaggle.LoadCredentials(pipe.CredentialsPath)
				if err != nil {
					return fmt.Errorf("failed to load Kaggle credentials: %w", err)
				}
				log.Printf("Credentials loaded for user: %s", creds.Username)

				log.Println("Step 2: Downloading dataset from Kaggle...")
				zipPath, err := kaggle.Download(ctx, kaggle.NewClient(), pipe.DatasetURL, pipe.RawDataDir, creds)
				if err != nil {
					return err
				}
				log.Printf("Dataset downloaded to: %s", zipPath)

				log.Println("Step 3: Extracting dataset...")
				csvPath, err = ingest.ExtractZip(zipPath, pipe.RawDataDir)
				if err != nil {
					return err
				}
				log.Printf("Dataset extracted; CSV found at: %s", csvPath)
			}

			log.Println("Step 4: Parsing CSV data...")
			sales, err := ingest.ParseCSV(csvPath)
			if err != nil {
				return err
			}
			log.Printf("Parsed %d records", len(sales))

			log.Println("Step 5: Connecting to PostgreSQL...")
			db, err := postgres.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			log.Println("Connected to PostgreSQL")

			log.Println("Step 6: Importing data to PostgreSQL...")
			if err := ingest.EnsureTable(ctx, db); err != nil {
				return err
			}
			count, err := ingest.Import(ctx, db, sales)
			if err != nil {
				return err
			}
			log.Printf("Successfully imported %d records", count)

			log.Println("=== Pipeline completed successfully ===")
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to an extracted CSV; skips download and extraction")
	cmd.Flags().StringVar(&rawDir, "raw-dir", "", "Directory for downloaded dataset files")
	return cmd
}
