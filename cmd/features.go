package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/panel"
	"github.com/lcamara/capmetrics/internal/report"
	"github.com/lcamara/capmetrics/internal/storage"
)

var featuresOut string

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Print or export the modeling dataset",
	Long: `Builds the panel and prints the engineered feature rows. With --out
the rows are written as CSV for external plotting instead.

Example:
  capmetrics features --out features.csv`,
	Args: cobra.NoArgs,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().StringVar(&featuresOut, "out", "", "write CSV to this path instead of printing a table")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	p, _, err := buildPanel(cmd.Context(), db)
	if err != nil {
		return err
	}
	rows, fstats := panel.Features(p, featureGate())

	if featuresOut == "" {
		report.PrintFeatureRows(os.Stdout, rows)
		fmt.Printf("\n%d rows (%d with non-finite values)\n", len(rows), fstats.NonFinite)
		return nil
	}

	if err := writeFeatureCSV(featuresOut, rows); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %d row(s) to %s\n", len(rows), featuresOut)
	return nil
}

// writeFeatureCSV writes every emitted row, finite or not; filtering is the
// consumer's call. Non-finite cells come out as NaN/+Inf/-Inf.
func writeFeatureCSV(path string, rows []model.FeatureRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	header := []string{"player", "season", "impact_scaled", "value_ratio",
		"prev_impact_scaled", "prev_growth", "prev_cap_fraction", "prev_value_ratio"}
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Player,
			strconv.Itoa(r.Season),
			formatCell(r.ImpactScaled),
			formatCell(r.ValueRatio),
			formatCell(r.PrevImpactScaled),
			formatCell(r.PrevGrowth),
			formatCell(r.PrevCapFraction),
			formatCell(r.PrevValueRatio),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
