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

var (
	sweepKMin int
	sweepKMax int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the neighbor count of the cost-efficiency classifier",
	Long: `Labels every feature row against the reference player's value ratio,
splits the rows into train and test sets and reports test accuracy for
each neighbor count in the range.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepKMin, "k-min", 0, "smallest neighbor count (0 = config)")
	sweepCmd.Flags().IntVar(&sweepKMax, "k-max", 0, "largest neighbor count (0 = config)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	kMin, kMax := cfg.KMin, cfg.KMax
	if sweepKMin > 0 {
		kMin = sweepKMin
	}
	if sweepKMax > 0 {
		kMax = sweepKMax
	}

	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	p, _, err := buildPanel(cmd.Context(), db)
	if err != nil {
		return err
	}
	refRatio, err := panel.ReferenceRatio(p, cfg.ReferencePlayer, cfg.ReferenceSeason)
	if err != nil {
		return err
	}
	rows, _ := panel.Features(p, featureGate())
	finite, _ := panel.FiniteRows(rows)

	train, res, err := evaluateClassifier(finite, refRatio, kMin, kMax)
	if err != nil {
		return err
	}
	efficient, total := classify.Balance(train)

	out := os.Stdout
	report.PrintReference(out, cfg.ReferencePlayer, cfg.ReferenceSeason, refRatio)
	fmt.Fprintln(out)
	report.PrintClassBalance(out, efficient, total)
	report.PrintSweep(out, res)
	report.PrintConfusion(out, res.Confusion)
	return nil
}
