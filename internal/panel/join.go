package panel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lcamara/capmetrics/internal/hoopshype"
	"github.com/lcamara/capmetrics/internal/model"
)

// JoinSalaries joins one season's normalized records against that season's
// salary table on exact player name and fills in Salary and CapFraction.
// Records without a salary match are dropped: a player not under contract has
// no defined cost side. Name mismatches between the two sites (nicknames,
// suffixes) are a known data-quality gap and deliberately not papered over.
func JoinSalaries(recs []model.PlayerSeasonRecord, salaries model.RawTable, season int, cap float64) ([]model.PlayerSeasonRecord, model.JoinStats, error) {
	stats := model.JoinStats{Season: season}

	if cap <= 0 {
		return nil, stats, fmt.Errorf("season %d: salary cap %v not positive", season, cap)
	}
	if len(salaries.Rows) == 0 {
		return nil, stats, fmt.Errorf("season %d: empty salary table", season)
	}
	playerCol := salaries.ColumnIndex(hoopshype.ColPlayer)
	if playerCol < 0 {
		return nil, stats, fmt.Errorf("season %d: salary table missing %s column", season, hoopshype.ColPlayer)
	}
	salaryCol := salaries.ColumnIndex(hoopshype.SeasonColumn(season))
	if salaryCol < 0 {
		// Older page layouts caption the column differently; fall back to
		// the first column after the name, which carries the raw salary.
		for i := range salaries.Header {
			if i > playerCol {
				salaryCol = i
				break
			}
		}
	}
	if salaryCol < 0 {
		return nil, stats, fmt.Errorf("season %d: salary table has no salary column", season)
	}

	// ---- Pass 1: index salaries by exact name, first entry wins. ----

	bySalaryName := make(map[string]float64, len(salaries.Rows))
	for _, row := range salaries.Rows {
		name := strings.TrimSpace(row[playerCol])
		if name == "" {
			continue
		}
		if _, dup := bySalaryName[name]; dup {
			continue
		}
		v, ok, bad := parseSalary(row[salaryCol])
		if bad {
			stats.BadSalaries++
		}
		if ok {
			bySalaryName[name] = v
		}
	}

	// ---- Pass 2: left-join records, dropping the salary-less. ----

	out := make([]model.PlayerSeasonRecord, 0, len(recs))
	matched := make(map[string]bool, len(recs))
	for _, rec := range recs {
		sal, ok := bySalaryName[rec.Player]
		if !ok {
			stats.PerfOnly++
			continue
		}
		rec.Salary = sal
		rec.CapFraction = sal / cap
		matched[rec.Player] = true
		out = append(out, rec)
	}
	stats.Matched = len(out)
	for name := range bySalaryName {
		if !matched[name] {
			stats.SalaryOnly++
		}
	}

	return out, stats, nil
}

// parseSalary coerces a "$12,345,678" cell. Empty cells and dashes mean no
// contract value listed (absent, not bad); anything else non-numeric is bad.
func parseSalary(text string) (v float64, ok, bad bool) {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return 0, false, false
	}
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(text)
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false, true
	}
	return f, true, false
}
