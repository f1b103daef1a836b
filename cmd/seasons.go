package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/report"
	"github.com/lcamara/capmetrics/internal/storage"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List the cached season tables",
	Args:  cobra.NoArgs,
	RunE:  runSeasons,
}

func runSeasons(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	tables, err := db.ListTables()
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	if len(tables) == 0 {
		fmt.Println("No season tables cached yet. Run 'capmetrics fetch' to download them.")
		return nil
	}

	report.PrintCachedTables(os.Stdout, tables)
	return nil
}
