// Package panel turns raw scraped tables into the player-season panel and
// derives the modeling dataset from it. Every stage is a pure transform that
// reports what it dropped, so the final report can account for each row.
package panel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lcamara/capmetrics/internal/bbref"
	"github.com/lcamara/capmetrics/internal/model"
)

// Normalize reduces one season's advanced table to canonical records: one row
// per player, numeric columns coerced, traded players collapsed onto their
// aggregate row. Cells that fail to parse become Missing and are counted per
// column; only a structurally broken table (empty, or without the required
// columns) is an error.
func Normalize(season int, tbl model.RawTable) ([]model.PlayerSeasonRecord, model.NormalizeStats, error) {
	stats := model.NormalizeStats{Season: season, BadCells: map[string]int{}}

	if len(tbl.Rows) == 0 {
		return nil, stats, fmt.Errorf("season %d: empty advanced table", season)
	}
	playerCol := tbl.ColumnIndex(bbref.ColPlayer)
	teamCol := tbl.ColumnIndex(bbref.ColTeam)
	if teamCol < 0 {
		teamCol = tbl.ColumnIndex(bbref.ColTeamNew)
	}
	offCol := tbl.ColumnIndex(bbref.ColOffense)
	defCol := tbl.ColumnIndex(bbref.ColDefense)
	impCol := tbl.ColumnIndex(bbref.ColImpact)
	minCol := tbl.ColumnIndex(bbref.ColMinutes)
	if playerCol < 0 || teamCol < 0 {
		return nil, stats, fmt.Errorf("season %d: advanced table missing player/team columns", season)
	}
	for _, c := range []struct {
		caption string
		idx     int
	}{
		{bbref.ColOffense, offCol},
		{bbref.ColDefense, defCol},
		{bbref.ColImpact, impCol},
		{bbref.ColMinutes, minCol},
	} {
		if c.idx < 0 {
			return nil, stats, fmt.Errorf("season %d: advanced table missing %s column", season, c.caption)
		}
	}

	// ---- Pass 1: group data rows by player, keeping first-seen order. ----

	var order []string
	groups := make(map[string][]int)
	for i, row := range tbl.Rows {
		name := strings.TrimSpace(row[playerCol])
		if name == "" {
			continue
		}
		stats.RawRows++
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], i)
	}

	// ---- Pass 2: pick one row per player, preferring the aggregate row. ----

	pick := make(map[string]int, len(groups))
	for _, name := range order {
		idxs := groups[name]
		if len(idxs) == 1 {
			pick[name] = idxs[0]
			continue
		}
		chosen := -1
		for _, i := range idxs {
			if isAggregateTeam(tbl.Rows[i][teamCol]) {
				chosen = i
				break
			}
		}
		if chosen < 0 {
			// Duplicate entries with no aggregate row is inconsistent
			// source data; keep the first and let the caller warn.
			chosen = idxs[0]
			stats.Inconsistent = append(stats.Inconsistent, name)
		}
		stats.DuplicatesCollapsed += len(idxs) - 1
		pick[name] = chosen
	}

	// ---- Pass 3: coerce cells and project onto the canonical record. ----

	out := make([]model.PlayerSeasonRecord, 0, len(order))
	for _, name := range order {
		row := tbl.Rows[pick[name]]
		rec := model.PlayerSeasonRecord{
			Player:       name,
			Season:       season,
			Team:         strings.TrimSpace(row[teamCol]),
			Salary:       model.Missing(),
			CapFraction:  model.Missing(),
			ImpactScaled: model.Missing(),
		}
		if isAggregateTeam(rec.Team) {
			rec.Team = model.TeamTotal
		}
		rec.OffImpact = coerce(row[offCol], bbref.ColOffense, stats.BadCells)
		rec.DefImpact = coerce(row[defCol], bbref.ColDefense, stats.BadCells)
		rec.Impact = coerce(row[impCol], bbref.ColImpact, stats.BadCells)
		rec.Minutes = coerce(row[minCol], bbref.ColMinutes, stats.BadCells)
		out = append(out, rec)
	}

	stats.Kept = len(out)
	return out, stats, nil
}

// coerce parses a numeric cell. Empty cells are null, not errors; anything
// else that fails to parse is counted against its column caption.
func coerce(text, caption string, bad map[string]int) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Missing()
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		bad[caption]++
		return model.Missing()
	}
	return v
}

// isAggregateTeam matches the multi-team total markers the site has used
// ("TOT" historically, "2TM"/"3TM"/... after the redesign).
func isAggregateTeam(team string) bool {
	switch strings.TrimSpace(team) {
	case model.TeamTotal, "2TM", "3TM", "4TM", "5TM":
		return true
	}
	return false
}
