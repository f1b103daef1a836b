package panel

import (
	"sort"

	"github.com/lcamara/capmetrics/internal/model"
)

// Features walks each player's season-ordered records and emits one
// FeatureRow per gated target season whose lag chain is complete: the season
// one back must carry scaled impact and a cap fraction, and the season two
// back must carry scaled impact for the growth rate. A missing intermediate
// season breaks the chain; there is no gap tolerance and no imputation.
//
// Growth inherits IEEE division: a zero impact two seasons back produces an
// infinity (or NaN), which is emitted and counted, never clamped.
func Features(p model.Panel, gate Gate) ([]model.FeatureRow, model.FeatureStats) {
	var stats model.FeatureStats

	names := make([]string, 0, len(p.Players))
	for name := range p.Players {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []model.FeatureRow
	for _, name := range names {
		for _, rec := range p.Players[name] {
			if model.IsMissing(rec.ImpactScaled) || model.IsMissing(rec.CapFraction) {
				continue // lag-support season, never a target
			}
			stats.Candidates++

			if !gate.admit(rec, &stats) {
				continue
			}

			prev, ok1 := p.Lookup(name, rec.Season-1)
			prev2, ok2 := p.Lookup(name, rec.Season-2)
			if !ok1 || !ok2 ||
				model.IsMissing(prev.ImpactScaled) ||
				model.IsMissing(prev.CapFraction) ||
				model.IsMissing(prev2.ImpactScaled) {
				stats.MissingLag++
				continue
			}

			row := model.FeatureRow{
				Player:           name,
				Season:           rec.Season,
				ImpactScaled:     rec.ImpactScaled,
				ValueRatio:       rec.ValueRatio(),
				PrevImpactScaled: prev.ImpactScaled,
				PrevGrowth:       (prev.ImpactScaled - prev2.ImpactScaled) / prev2.ImpactScaled,
				PrevCapFraction:  prev.CapFraction,
				PrevValueRatio:   prev.ValueRatio(),
			}
			rows = append(rows, row)
			stats.Emitted++
			if !row.Finite() {
				stats.NonFinite++
			}
		}
	}

	return rows, stats
}

// FiniteRows splits off the rows the models can consume, returning them with
// the count of non-finite rows skipped.
func FiniteRows(rows []model.FeatureRow) ([]model.FeatureRow, int) {
	out := make([]model.FeatureRow, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		if r.Finite() {
			out = append(out, r)
		} else {
			skipped++
		}
	}
	return out, skipped
}
