package model

import (
	"math"
	"strings"
)

// TeamTotal is the pseudo-team basketball-reference assigns to the aggregate
// row of a player who suited up for more than one franchise in a season.
const TeamTotal = "TOT"

// Missing is the sentinel for an absent numeric value. Records carry it for
// cells that were empty upstream or seasons that have no salary data; it
// propagates through arithmetic instead of masquerading as a real zero.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// ---- Raw scraped tables ----

// RawTable is one scraped HTML table reduced to text. Header holds the column
// captions in document order and every row has exactly len(Header) cells.
// Cells are stored verbatim; all coercion happens in the normalizer.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the column whose caption equals name
// (case-insensitive, surrounding whitespace ignored), or -1 if absent.
func (t RawTable) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// ---- Player-season panel ----

// PlayerSeasonRecord is one player's line for one season after normalization
// and (for salary-bearing seasons) the salary join. Numeric fields use the
// Missing sentinel for values that could not be parsed or were never joined.
type PlayerSeasonRecord struct {
	Player string
	Season int    // season-ending year: 2021 means the 2020-21 season
	Team   string // TeamTotal for multi-team seasons

	OffImpact float64 // offensive box plus-minus
	DefImpact float64 // defensive box plus-minus
	Impact    float64 // box plus-minus
	Minutes   float64

	Salary       float64 // USD; Missing for performance-only seasons
	CapFraction  float64 // Salary over that season's cap; Missing with Salary
	ImpactScaled float64 // Impact min-max scaled across the whole panel
}

// ValueRatio is scaled impact per unit of cap space. It inherits IEEE
// semantics on purpose: a Missing operand yields Missing and a zero cap
// fraction yields an infinity, which later stages count rather than clamp.
func (r PlayerSeasonRecord) ValueRatio() float64 {
	return r.ImpactScaled / r.CapFraction
}

// HasSalary reports whether the record was joined against a salary table.
func (r PlayerSeasonRecord) HasSalary() bool { return !IsMissing(r.Salary) }

// Panel is the full multi-season collection of records grouped by player.
// Each player's slice is sorted by season ascending.
type Panel struct {
	Seasons []int // distinct seasons present, ascending
	Players map[string][]PlayerSeasonRecord
}

// Lookup returns the record for (player, season) if present.
func (p Panel) Lookup(player string, season int) (PlayerSeasonRecord, bool) {
	for _, r := range p.Players[player] {
		if r.Season == season {
			return r, true
		}
	}
	return PlayerSeasonRecord{}, false
}

// Size returns the total number of records across all players.
func (p Panel) Size() int {
	n := 0
	for _, recs := range p.Players {
		n += len(recs)
	}
	return n
}

// ---- Engineered features ----

// FeatureRow is the modeling dataset row for one (player, season): the
// current-season targets plus the one- and two-season lag features. A row is
// only emitted when every lag feature is defined; PrevGrowth may still be
// non-finite when the two-seasons-ago impact was exactly zero.
type FeatureRow struct {
	Player string
	Season int

	ImpactScaled float64 // target: current-season scaled impact
	ValueRatio   float64 // target: current-season impact per cap fraction

	PrevImpactScaled float64 // scaled impact one season back
	PrevGrowth       float64 // relative impact change from two seasons back to one
	PrevCapFraction  float64 // cap fraction one season back
	PrevValueRatio   float64 // value ratio one season back
}

// Predictors returns the lag features in the order the classifier uses them.
func (f FeatureRow) Predictors() [3]float64 {
	return [3]float64{f.PrevImpactScaled, f.PrevGrowth, f.PrevCapFraction}
}

// Finite reports whether both targets and all predictors are finite, i.e.
// whether the row is usable by the regression and classification stages.
func (f FeatureRow) Finite() bool {
	for _, v := range []float64{
		f.ImpactScaled, f.ValueRatio,
		f.PrevImpactScaled, f.PrevGrowth, f.PrevCapFraction, f.PrevValueRatio,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ---- Pipeline audit counters ----

// NormalizeStats records what one season's normalization kept and dropped.
type NormalizeStats struct {
	Season              int
	RawRows             int
	Kept                int
	DuplicatesCollapsed int            // multi-team rows replaced by the TOT row
	Inconsistent        []string       // players duplicated without a TOT row (first kept)
	BadCells            map[string]int // column caption -> cells that failed to parse
}

// JoinStats records the outcome of one season's salary join.
type JoinStats struct {
	Season      int
	Matched     int
	PerfOnly    int // performance rows with no salary match (dropped)
	SalaryOnly  int // salary rows that matched no performance row (discarded)
	BadSalaries int // salary cells that failed to parse
}

// FeatureStats records how the candidate pool shrank on the way to the
// modeling dataset.
type FeatureStats struct {
	Candidates     int // joined records eligible as a target season
	LowMinutes     int // dropped: minutes at or below the floor
	LowCapFraction int // dropped: cap fraction at or below the floor
	MissingLag     int // dropped: lag chain incomplete
	Emitted        int
	NonFinite      int // emitted rows with a non-finite value, skipped by models
}

// RunAudit collects every stage's drop counters for the end-of-run report.
type RunAudit struct {
	Normalize []NormalizeStats
	Joins     []JoinStats
	Features  FeatureStats
}
