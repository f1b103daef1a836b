package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/bbref"
	"github.com/lcamara/capmetrics/internal/hoopshype"
	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/storage"
)

// fetch command flags.
var (
	// fetchFirst and fetchLast override the configured season range.
	fetchFirst int
	fetchLast  int
	// fetchSource restricts fetching to one site.
	fetchSource string
	// fetchForce refetches seasons that are already cached.
	fetchForce bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download season tables into the local cache",
	Long: `Fetches the advanced-stat table for every configured season and the
salary table for every salary-joined season, storing the raw tables in the
SQLite cache. Already-cached seasons are skipped unless --force is set.

Examples:
  # Everything the default analysis needs
  capmetrics fetch

  # Refresh one site for one season
  capmetrics fetch --source hoopshype --first 2021 --last 2021 --force`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchFirst, "first", 0, "first season-ending year (default from config)")
	fetchCmd.Flags().IntVar(&fetchLast, "last", 0, "last season-ending year (default from config)")
	fetchCmd.Flags().StringVar(&fetchSource, "source", "", "only fetch one site: bbref or hoopshype")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "refetch seasons that are already cached")
}

func runFetch(cmd *cobra.Command, args []string) error {
	first, last := cfg.FirstSeason, cfg.LastSeason
	if fetchFirst > 0 {
		first = fetchFirst
	}
	if fetchLast > 0 {
		last = fetchLast
	}
	if first > last {
		return fmt.Errorf("first season %d after last season %d", first, last)
	}
	if fetchSource != "" && fetchSource != bbref.Source && fetchSource != hoopshype.Source {
		return fmt.Errorf("unknown source %q (use %s or %s)", fetchSource, bbref.Source, hoopshype.Source)
	}

	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	bb, hh := newScrapers(cfg)
	ctx := cmd.Context()

	type target struct {
		source string
		get    func(context.Context, int) (model.RawTable, error)
	}

	stored, cached, failed := 0, 0, 0
	for season := first; season <= last; season++ {
		var targets []target
		if fetchSource == "" || fetchSource == bbref.Source {
			targets = append(targets, target{bbref.Source, bb.AdvancedTable})
		}
		if (fetchSource == "" || fetchSource == hoopshype.Source) && season >= cfg.SalaryFrom {
			targets = append(targets, target{hoopshype.Source, hh.SalaryTable})
		}

		for _, t := range targets {
			wasStored, err := fetchTable(ctx, db, t.source, season, t.get)
			switch {
			case err != nil:
				fmt.Fprintf(os.Stderr, "  [error] %s %d: %v\n", t.source, season, err)
				failed++
			case wasStored:
				stored++
			default:
				cached++
			}
		}
	}

	fmt.Printf("\nDone: %d stored, %d already cached, %d failed\n", stored, cached, failed)
	if failed > 0 {
		return fmt.Errorf("%d fetch(es) failed", failed)
	}
	return nil
}

// fetchTable fetches one (source, season) into the cache unless it is
// already there.
func fetchTable(ctx context.Context, db *storage.DB, source string, season int,
	get func(context.Context, int) (model.RawTable, error)) (bool, error) {
	if !fetchForce {
		ok, err := db.HasTable(source, season)
		if err != nil {
			return false, err
		}
		if ok {
			fmt.Printf("  cached:  %s %d\n", source, season)
			return false, nil
		}
	}

	tbl, err := get(ctx, season)
	if err != nil {
		return false, err
	}
	if err := db.PutTable(source, season, tbl, time.Now()); err != nil {
		return false, fmt.Errorf("store %s/%d: %w", source, season, err)
	}
	fmt.Printf("  stored:  %s %d (%d rows)\n", source, season, len(tbl.Rows))
	return true, nil
}
