package cli

import (
	"github.com/spf13/cobra"
)

func version() string {
	return "v0.1.0"
}

// NewVersionCmd builds the `version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version())
		},
	}
}

// NewRootCmd builds the top-level `salespipe` command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "salespipe",
		Short: "Walmart sales dataset ingestion pipeline",
		Long: `salespipe downloads the Walmart weekly sales dataset from Kaggle,
extracts it and imports it into PostgreSQL.

Connection settings are read from the repo-root .env file and the process
environment (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME). Kaggle
credentials come from a kaggle.json file, by default under .secrets/.

Examples:
  salespipe run
  salespipe run --csv data/raw/walmart/Walmart.csv
  salespipe run --raw-dir /srv/data/walmart`,
	}
	root.AddCommand(NewRunCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}
