package panel

import "github.com/lcamara/capmetrics/internal/model"

// Gate filters which player-seasons may become modeling targets. Both bounds
// are strict: a value must exceed the floor to pass. Seasons used only as lag
// inputs are never gated.
type Gate struct {
	MinMinutes     float64
	MinCapFraction float64
}

// admit applies the gates to one candidate target season, recording the
// first failed gate in stats. Low-minute seasons go first so a row never
// counts against both gates.
func (g Gate) admit(rec model.PlayerSeasonRecord, stats *model.FeatureStats) bool {
	if !(rec.Minutes > g.MinMinutes) {
		stats.LowMinutes++
		return false
	}
	if !(rec.CapFraction > g.MinCapFraction) {
		stats.LowCapFraction++
		return false
	}
	return true
}
