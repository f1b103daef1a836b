package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/classify"
	"github.com/lcamara/capmetrics/internal/panel"
	"github.com/lcamara/capmetrics/internal/report"
	"github.com/lcamara/capmetrics/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis and print the report",
	Long: `Builds the player panel from cached tables (fetching any missing
seasons), engineers the lag features, fits the value regressions, sweeps the
neighbor-count classifier, and prints the report with a per-stage drop audit.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	p, audit, err := buildPanel(cmd.Context(), db)
	if err != nil {
		return err
	}
	refRatio, err := panel.ReferenceRatio(p, cfg.ReferencePlayer, cfg.ReferenceSeason)
	if err != nil {
		return err
	}

	rows, fstats := panel.Features(p, featureGate())
	audit.Features = fstats
	finite, skipped := panel.FiniteRows(rows)
	if skipped > 0 {
		logFor("features").WithField("rows", skipped).Warn("non-finite feature rows excluded from models")
	}

	out := os.Stdout
	report.PrintPanelSummary(out, p)
	report.PrintReference(out, cfg.ReferencePlayer, cfg.ReferenceSeason, refRatio)

	sums, err := fitModels(finite)
	if err != nil {
		return err
	}
	for _, s := range sums {
		report.PrintRegression(out, *s)
	}

	train, res, err := evaluateClassifier(finite, refRatio, cfg.KMin, cfg.KMax)
	if err != nil {
		return err
	}
	eff, total := classify.Balance(train)
	fmt.Fprintln(out)
	report.PrintClassBalance(out, eff, total)
	report.PrintSweep(out, res)
	report.PrintConfusion(out, res.Confusion)

	report.PrintAudit(out, *audit)
	return nil
}
