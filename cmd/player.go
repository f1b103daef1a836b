package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/report"
	"github.com/lcamara/capmetrics/internal/storage"
)

// playerCmd prints one player's season-by-season trajectory.
var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Season-by-season trajectory for one player",
	Long: `Prints every cached season for the named player: minutes, box
plus/minus splits, salary and the contract value ratio. The name must match
basketball-reference exactly, e.g. "Fred VanVleet".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	p, _, err := buildPanel(cmd.Context(), db)
	if err != nil {
		return err
	}

	recs, ok := p.Players[name]
	if !ok {
		if match := closestName(p, name); match != "" {
			return fmt.Errorf("no player named %q, did you mean %q?", name, match)
		}
		return fmt.Errorf("no player named %q", name)
	}

	report.PrintPlayerTrajectory(os.Stdout, name, recs)
	return nil
}

// closestName scans for a case-insensitive match so a miscapitalized name
// still gets a useful suggestion.
func closestName(p model.Panel, name string) string {
	lower := strings.ToLower(name)
	for candidate := range p.Players {
		if strings.ToLower(candidate) == lower {
			return candidate
		}
	}
	return ""
}
