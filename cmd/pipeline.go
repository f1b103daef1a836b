package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lcamara/capmetrics/internal/bbref"
	"github.com/lcamara/capmetrics/internal/classify"
	"github.com/lcamara/capmetrics/internal/config"
	"github.com/lcamara/capmetrics/internal/hoopshype"
	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/panel"
	"github.com/lcamara/capmetrics/internal/regress"
	"github.com/lcamara/capmetrics/internal/storage"
	"github.com/lcamara/capmetrics/internal/webclient"
)

// newScrapers builds the shared rate-limited web client and both site
// clients. One limiter covers both sites.
func newScrapers(c *config.Config) (*bbref.Client, *hoopshype.Client) {
	web := webclient.New(webclient.Options{
		UserAgent: c.UserAgent,
		RPS:       c.RequestsPerSecond,
		Burst:     c.Burst,
		Timeout:   time.Duration(c.TimeoutSeconds) * time.Second,
	}, logFor("webclient"))
	return bbref.NewClient(web, logFor("bbref")), hoopshype.NewClient(web, logFor("hoopshype"))
}

// loadTable returns the cached table for (source, season), fetching and
// caching it on a miss.
func loadTable(ctx context.Context, db *storage.DB, source string, season int,
	fetch func(context.Context, int) (model.RawTable, error)) (model.RawTable, error) {
	tbl, err := db.GetTable(source, season)
	if err == nil {
		logFor("cache").WithFields(logrus.Fields{"source": source, "season": season}).Debug("cache hit")
		return tbl, nil
	}
	if !errors.Is(err, storage.ErrNotCached) {
		return model.RawTable{}, err
	}

	tbl, err = fetch(ctx, season)
	if err != nil {
		return model.RawTable{}, err
	}
	if err := db.PutTable(source, season, tbl, time.Now()); err != nil {
		return model.RawTable{}, fmt.Errorf("cache %s/%d: %w", source, season, err)
	}
	return tbl, nil
}

// buildPanel ingests every configured season, normalizes and joins it, and
// assembles the scaled panel. Per-stage drop counters accumulate into the
// returned audit.
func buildPanel(ctx context.Context, db *storage.DB) (model.Panel, *model.RunAudit, error) {
	bb, hh := newScrapers(cfg)
	audit := &model.RunAudit{}

	bySeason := make(map[int][]model.PlayerSeasonRecord)
	for season := cfg.FirstSeason; season <= cfg.LastSeason; season++ {
		adv, err := loadTable(ctx, db, bbref.Source, season, bb.AdvancedTable)
		if err != nil {
			return model.Panel{}, nil, err
		}
		recs, nstats, err := panel.Normalize(season, adv)
		if err != nil {
			return model.Panel{}, nil, err
		}
		for _, name := range nstats.Inconsistent {
			logFor("normalize").WithFields(logrus.Fields{"season": season, "player": name}).
				Warn("duplicate rows without an aggregate row, kept the first")
		}
		audit.Normalize = append(audit.Normalize, nstats)

		if season >= cfg.SalaryFrom {
			sal, err := loadTable(ctx, db, hoopshype.Source, season, hh.SalaryTable)
			if err != nil {
				return model.Panel{}, nil, err
			}
			seasonCap, ok := config.SalaryCap(season)
			if !ok {
				return model.Panel{}, nil, fmt.Errorf("no salary cap known for season %d", season)
			}
			joined, jstats, err := panel.JoinSalaries(recs, sal, season, seasonCap)
			if err != nil {
				return model.Panel{}, nil, err
			}
			audit.Joins = append(audit.Joins, jstats)
			recs = joined
		}
		bySeason[season] = recs
	}

	p, err := panel.Build(bySeason)
	if err != nil {
		return model.Panel{}, nil, err
	}
	return p, audit, nil
}

// featureGate maps the configured floors onto the panel gate.
func featureGate() panel.Gate {
	return panel.Gate{MinMinutes: cfg.MinMinutes, MinCapFraction: cfg.MinCapFraction}
}

// fitModels runs the three fixed regressions on the finite modeling rows:
// both current-season targets on the lag pair, and the value ratio on its
// own lag.
func fitModels(rows []model.FeatureRow) ([]*regress.Summary, error) {
	n := len(rows)
	impact := make([]float64, n)
	ratio := make([]float64, n)
	prevImpact := make([]float64, n)
	prevGrowth := make([]float64, n)
	prevRatio := make([]float64, n)
	for i, r := range rows {
		impact[i] = r.ImpactScaled
		ratio[i] = r.ValueRatio
		prevImpact[i] = r.PrevImpactScaled
		prevGrowth[i] = r.PrevGrowth
		prevRatio[i] = r.PrevValueRatio
	}

	lagImpact := regress.Column{Name: "prev_impact_scaled", Values: prevImpact}
	lagGrowth := regress.Column{Name: "prev_growth", Values: prevGrowth}
	lagRatio := regress.Column{Name: "prev_value_ratio", Values: prevRatio}

	models := []struct {
		target string
		y      []float64
		cols   []regress.Column
	}{
		{"impact_scaled", impact, []regress.Column{lagImpact, lagGrowth}},
		{"value_ratio", ratio, []regress.Column{lagImpact, lagGrowth}},
		{"value_ratio", ratio, []regress.Column{lagRatio}},
	}

	out := make([]*regress.Summary, 0, len(models))
	for _, m := range models {
		s, err := regress.Fit(m.target, m.y, m.cols...)
		if err != nil {
			return nil, fmt.Errorf("fit %s: %w", m.target, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// evaluateClassifier labels the finite rows against the reference ratio,
// splits them with the configured seed, and sweeps the neighbor count.
func evaluateClassifier(rows []model.FeatureRow, refRatio float64, kMin, kMax int) ([]classify.Example, classify.SweepResult, error) {
	examples := classify.Label(rows, refRatio)
	train, test, err := classify.Split(examples, cfg.TrainFraction, cfg.Seed)
	if err != nil {
		return nil, classify.SweepResult{}, fmt.Errorf("split examples: %w", err)
	}
	res, err := classify.Sweep(train, test, kMin, kMax)
	if err != nil {
		return nil, classify.SweepResult{}, err
	}
	return train, res, nil
}
