package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/lcamara/capmetrics/internal/classify"
	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/regress"
	"github.com/lcamara/capmetrics/internal/storage"
)

// num formats v with the given verb, with a dash for missing values.
// Infinities print as-is so growth singularities stay visible.
func num(format string, v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf(format, v)
}

func money(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("$%.1fM", v/1e6)
}

// PrintPanelSummary prints a one-line summary header for the assembled panel.
func PrintPanelSummary(w io.Writer, p model.Panel) {
	first, last := 0, 0
	if len(p.Seasons) > 0 {
		first, last = p.Seasons[0], p.Seasons[len(p.Seasons)-1]
	}
	fmt.Fprintf(w, "\nPanel: %d players  |  Seasons: %d–%d  |  Records: %d\n",
		len(p.Players), first, last, p.Size())
}

// PrintReference prints the player-season whose value ratio sets the
// cost-efficiency boundary.
func PrintReference(w io.Writer, player string, season int, ratio float64) {
	fmt.Fprintf(w, "Reference: %s %d  |  Value ratio: %s\n", player, season, num("%.4f", ratio))
}

// PrintRegression writes one fitted model: a header line with the formula
// and fit stats, then a per-term coefficient table.
func PrintRegression(w io.Writer, s regress.Summary) {
	rhs := make([]string, 0, len(s.Terms))
	for _, t := range s.Terms[1:] {
		rhs = append(rhs, t.Name)
	}
	fmt.Fprintf(w, "\nOLS: %s ~ %s  |  n = %d  |  R² = %s\n",
		s.Target, strings.Join(rhs, " + "), s.N, num("%.4f", s.R2))

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("TERM", "COEF", "STD_ERR", "T", "P>|T|")

	for _, t := range s.Terms {
		table.Append(
			t.Name,
			num("%.4f", t.Coef),
			num("%.4f", t.StdErr),
			num("%.2f", t.TStat),
			num("%.4f", t.PValue),
		)
	}
	table.Render()
}

// PrintSweep writes the plot-ready (k, accuracy) curve and the winner.
func PrintSweep(w io.Writer, res classify.SweepResult) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("K", "ACCURACY")

	for _, pt := range res.Points {
		table.Append(strconv.Itoa(pt.K), num("%.4f", pt.Accuracy))
	}
	table.Render()

	fmt.Fprintf(w, "\nBest k = %d  |  Test accuracy = %s\n", res.BestK, num("%.4f", res.BestAccuracy))
}

// PrintConfusion writes the 2x2 matrix for the best-k classifier, actual
// classes in rows and predictions in columns.
func PrintConfusion(w io.Writer, c classify.Confusion) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header(" ", "PRED_EFFICIENT", "PRED_NOT")
	table.Append("EFFICIENT", strconv.Itoa(c.TP), strconv.Itoa(c.FN))
	table.Append("NOT_EFFICIENT", strconv.Itoa(c.FP), strconv.Itoa(c.TN))
	table.Render()
}

// PrintClassBalance prints the share of cost-efficient labels in the
// training split.
func PrintClassBalance(w io.Writer, efficient, total int) {
	pct := "—"
	if total > 0 {
		pct = fmt.Sprintf("%.1f%%", float64(efficient)/float64(total)*100)
	}
	fmt.Fprintf(w, "Training labels: %d of %d cost-efficient (%s)\n", efficient, total, pct)
}

// badCells flattens a per-column failure count into one cell.
func badCells(m map[string]int) string {
	if len(m) == 0 {
		return "—"
	}
	cols := make([]string, 0, len(m))
	for col := range m {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		parts = append(parts, fmt.Sprintf("%s:%d", col, m[col]))
	}
	return strings.Join(parts, " ")
}

// PrintAudit writes the per-stage drop accounting so the modeling numbers
// can be traced back to the raw tables.
func PrintAudit(w io.Writer, a model.RunAudit) {
	fmt.Fprintln(w, "\nNormalization:")
	norm := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	norm.Header("SEASON", "RAW", "KEPT", "COLLAPSED", "INCONSISTENT", "BAD_CELLS")
	for _, n := range a.Normalize {
		norm.Append(
			strconv.Itoa(n.Season),
			strconv.Itoa(n.RawRows),
			strconv.Itoa(n.Kept),
			strconv.Itoa(n.DuplicatesCollapsed),
			strconv.Itoa(len(n.Inconsistent)),
			badCells(n.BadCells),
		)
	}
	norm.Render()

	if len(a.Joins) > 0 {
		fmt.Fprintln(w, "\nSalary join:")
		join := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		join.Header("SEASON", "MATCHED", "PERF_ONLY", "SALARY_ONLY", "BAD_SALARY")
		for _, j := range a.Joins {
			join.Append(
				strconv.Itoa(j.Season),
				strconv.Itoa(j.Matched),
				strconv.Itoa(j.PerfOnly),
				strconv.Itoa(j.SalaryOnly),
				strconv.Itoa(j.BadSalaries),
			)
		}
		join.Render()
	}

	fmt.Fprintln(w, "\nFeature gates:")
	feat := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	feat.Header("CANDIDATES", "LOW_MINUTES", "LOW_CAP_FRACTION", "MISSING_LAG", "EMITTED", "NON_FINITE")
	feat.Append(
		strconv.Itoa(a.Features.Candidates),
		strconv.Itoa(a.Features.LowMinutes),
		strconv.Itoa(a.Features.LowCapFraction),
		strconv.Itoa(a.Features.MissingLag),
		strconv.Itoa(a.Features.Emitted),
		strconv.Itoa(a.Features.NonFinite),
	)
	feat.Render()
}

// PrintFeatureRows writes the modeling dataset, one row per player-season.
func PrintFeatureRows(w io.Writer, rows []model.FeatureRow) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("PLAYER", "SEASON", "IMPACT_SCALED", "VALUE_RATIO",
		"PREV_IMPACT", "PREV_GROWTH", "PREV_CAP_FRAC", "PREV_RATIO")

	for _, r := range rows {
		table.Append(
			r.Player,
			strconv.Itoa(r.Season),
			num("%.4f", r.ImpactScaled),
			num("%.3f", r.ValueRatio),
			num("%.4f", r.PrevImpactScaled),
			num("%.3f", r.PrevGrowth),
			num("%.4f", r.PrevCapFraction),
			num("%.3f", r.PrevValueRatio),
		)
	}
	table.Render()
}

// PrintPlayerTrajectory writes one player's season-by-season records.
func PrintPlayerTrajectory(w io.Writer, player string, recs []model.PlayerSeasonRecord) {
	fmt.Fprintf(w, "\nPlayer: %s  |  Seasons: %d\n", player, len(recs))

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header("SEASON", "TEAM", "MIN", "OBPM", "DBPM", "BPM", "IMPACT_SCALED", "SALARY", "CAP_FRAC", "VALUE_RATIO")

	for _, r := range recs {
		table.Append(
			strconv.Itoa(r.Season),
			r.Team,
			num("%.0f", r.Minutes),
			num("%.1f", r.OffImpact),
			num("%.1f", r.DefImpact),
			num("%.1f", r.Impact),
			num("%.4f", r.ImpactScaled),
			money(r.Salary),
			num("%.4f", r.CapFraction),
			num("%.3f", r.ValueRatio()),
		)
	}
	table.Render()
}

// PrintCachedTables lists the raw tables sitting in the ingestion cache.
func PrintCachedTables(w io.Writer, tables []storage.CachedTable) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("SEASON", "SOURCE", "ROWS", "FETCHED")

	for _, c := range tables {
		table.Append(
			strconv.Itoa(c.Season),
			c.Source,
			strconv.Itoa(c.Rows),
			c.FetchedAt.Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}
