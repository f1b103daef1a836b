package panel

import (
	"fmt"
	"math"
	"sort"

	"github.com/lcamara/capmetrics/internal/model"
)

// Build assembles per-season record slices into a Panel and min-max scales
// impact across the whole panel, so every season shares one [0, 1] scale and
// the impact-to-salary ratio stays non-negative. Fails when the panel has no
// finite impact values or they are all identical, since scaling would be
// meaningless.
func Build(recordsBySeason map[int][]model.PlayerSeasonRecord) (model.Panel, error) {
	p := model.Panel{Players: make(map[string][]model.PlayerSeasonRecord)}

	for season, recs := range recordsBySeason {
		p.Seasons = append(p.Seasons, season)
		for _, rec := range recs {
			p.Players[rec.Player] = append(p.Players[rec.Player], rec)
		}
	}
	sort.Ints(p.Seasons)
	for name := range p.Players {
		recs := p.Players[name]
		sort.Slice(recs, func(i, j int) bool { return recs[i].Season < recs[j].Season })
	}

	// ---- Scale impact over the entire panel, not per season. ----

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, recs := range p.Players {
		for _, rec := range recs {
			if model.IsMissing(rec.Impact) {
				continue
			}
			lo = math.Min(lo, rec.Impact)
			hi = math.Max(hi, rec.Impact)
		}
	}
	if math.IsInf(lo, 1) {
		return model.Panel{}, fmt.Errorf("panel has no finite impact values")
	}
	if hi == lo {
		return model.Panel{}, fmt.Errorf("degenerate panel: every impact equals %v", lo)
	}

	span := hi - lo
	for name := range p.Players {
		recs := p.Players[name]
		for i := range recs {
			if model.IsMissing(recs[i].Impact) {
				continue
			}
			recs[i].ImpactScaled = (recs[i].Impact - lo) / span
		}
	}

	return p, nil
}

// ReferenceRatio returns the value ratio of the record that anchors the
// cost-efficient label.
func ReferenceRatio(p model.Panel, player string, season int) (float64, error) {
	rec, ok := p.Lookup(player, season)
	if !ok {
		return 0, fmt.Errorf("reference %s/%d not in panel", player, season)
	}
	ratio := rec.ValueRatio()
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0, fmt.Errorf("reference %s/%d has no finite value ratio", player, season)
	}
	return ratio, nil
}
