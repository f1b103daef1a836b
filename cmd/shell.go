package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/panel"
	"github.com/lcamara/capmetrics/internal/report"
	"github.com/lcamara/capmetrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a persistent session against the season cache. The panel is built
once on first use and reused by later commands. Type 'help' for the command
list.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := storage.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer db.Close()

	cGreeting.Println("capmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	// The panel is expensive to build (and may fetch missing seasons), so it
	// is built lazily and cached for the rest of the session.
	var (
		p      model.Panel
		loaded bool
	)
	ensurePanel := func() (model.Panel, bool) {
		if loaded {
			return p, true
		}
		built, _, err := buildPanel(cmd.Context(), db)
		if err != nil {
			cError.Fprintf(os.Stderr, "build panel: %v\n", err)
			return model.Panel{}, false
		}
		p, loaded = built, true
		return p, true
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("capmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "seasons":
			shellSeasons(db)
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			if pp, ok := ensurePanel(); ok {
				shellPlayer(pp, strings.Join(args, " "))
			}
		case "ref":
			if pp, ok := ensurePanel(); ok {
				shellRef(pp)
			}
		case "features":
			if pp, ok := ensurePanel(); ok {
				rows, _ := panel.Features(pp, featureGate())
				report.PrintFeatureRows(os.Stdout, rows)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q — type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"seasons", "list the cached season tables"},
		{"player <name>", "season-by-season trajectory for one player"},
		{"ref", "show the configured reference player's value ratio"},
		{"features", "print the engineered feature rows"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellSeasons(db *storage.DB) {
	tables, err := db.ListTables()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(tables) == 0 {
		cMuted.Println("No season tables cached yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%6s  %-10s  %6s  %s\n", "SEASON", "SOURCE", "ROWS", "FETCHED")
	cMuted.Fprintf(os.Stdout, "%6s  %-10s  %6s  %s\n", "──────", "──────────", "──────", "───────────────")
	for _, t := range tables {
		fmt.Fprintf(os.Stdout, "%6d  %-10s  %6d  %s\n",
			t.Season, t.Source, t.Rows, t.FetchedAt.Format("2006-01-02 15:04"))
	}
}

func shellPlayer(p model.Panel, name string) {
	recs, ok := p.Players[name]
	if !ok {
		if match := closestName(p, name); match != "" {
			cError.Fprintf(os.Stderr, "no player named %q, did you mean %q?\n", name, match)
		} else {
			cError.Fprintf(os.Stderr, "no player named %q\n", name)
		}
		return
	}
	report.PrintPlayerTrajectory(os.Stdout, name, recs)
}

func shellRef(p model.Panel) {
	ratio, err := panel.ReferenceRatio(p, cfg.ReferencePlayer, cfg.ReferenceSeason)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintReference(os.Stdout, cfg.ReferencePlayer, cfg.ReferenceSeason, ratio)
}
