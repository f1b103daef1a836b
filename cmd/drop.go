package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/storage"
)

var (
	dropSource string
	dropSeason int
	dropAll    bool
	dropForce  bool
)

// dropCmd removes cached tables, or the whole cache file with --all.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove cached season tables",
	Long: `Remove a single cached table (--source and --season) so the next run
re-fetches it, or delete the whole cache file with --all. Deleting the cache
is permanent; re-run 'capmetrics fetch' afterwards to rebuild it.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().StringVar(&dropSource, "source", "", "table source (bbref or hoopshype)")
	dropCmd.Flags().IntVar(&dropSeason, "season", 0, "season year, e.g. 2021")
	dropCmd.Flags().BoolVar(&dropAll, "all", false, "delete the whole cache file")
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropAll {
		if !dropForce {
			fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.CachePath)
			fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
			return nil
		}
		if err := os.Remove(cfg.CachePath); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("Cache does not exist, nothing to drop.")
				return nil
			}
			return fmt.Errorf("remove cache: %w", err)
		}
		fmt.Printf("Deleted: %s\n", cfg.CachePath)
		return nil
	}

	if dropSource == "" || dropSeason == 0 {
		return fmt.Errorf("need --source and --season, or --all")
	}

	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	if err := db.DeleteTable(dropSource, dropSeason); err != nil {
		if errors.Is(err, storage.ErrNotCached) {
			fmt.Printf("%s %d is not cached, nothing to drop.\n", dropSource, dropSeason)
			return nil
		}
		return fmt.Errorf("delete table: %w", err)
	}
	fmt.Printf("Dropped: %s %d\n", dropSource, dropSeason)
	return nil
}
