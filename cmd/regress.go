package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/panel"
	"github.com/lcamara/capmetrics/internal/report"
	"github.com/lcamara/capmetrics/internal/storage"
)

var regressCmd = &cobra.Command{
	Use:   "regress",
	Short: "Fit the lag regressions and print coefficient tables",
	Long: `Builds the panel, engineers the lag features and fits the OLS models:
impact on last season's impact and growth, and the contract value ratio on
the same lags plus on last season's ratio alone.`,
	Args: cobra.NoArgs,
	RunE: runRegress,
}

func runRegress(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	p, _, err := buildPanel(cmd.Context(), db)
	if err != nil {
		return err
	}
	rows, _ := panel.Features(p, featureGate())
	finite, skipped := panel.FiniteRows(rows)

	models, err := fitModels(finite)
	if err != nil {
		return err
	}
	for _, s := range models {
		report.PrintRegression(os.Stdout, *s)
	}
	fmt.Printf("\n%d rows fitted (%d dropped as non-finite)\n", len(finite), skipped)
	return nil
}
