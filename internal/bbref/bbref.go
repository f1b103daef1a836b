// Package bbref fetches per-season advanced-stat tables from
// basketball-reference.com.
package bbref

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/scrape"
	"github.com/lcamara/capmetrics/internal/webclient"
)

// Source names this site in the cache and in log lines.
const Source = "bbref"

const defaultBaseURL = "https://www.basketball-reference.com"

// Column captions in the advanced table that the pipeline depends on. The
// site renamed the team column in a later redesign, so both spellings are
// listed.
const (
	ColPlayer  = "Player"
	ColTeam    = "Tm"
	ColTeamNew = "Team"
	ColOffense = "OBPM"
	ColDefense = "DBPM"
	ColImpact  = "BPM"
	ColMinutes = "MP"
)

// The advanced table's id also changed across redesigns; match either.
const tableSelector = "table#advanced_stats, table#advanced"

// Client fetches advanced-stat tables.
type Client struct {
	web     *webclient.Client
	baseURL string
	log     *logrus.Entry
}

// NewClient returns a basketball-reference client on top of web.
func NewClient(web *webclient.Client, log *logrus.Entry) *Client {
	return &Client{web: web, baseURL: defaultBaseURL, log: log}
}

// URL returns the advanced-stats page for a season-ending year.
func (c *Client) URL(season int) string {
	return fmt.Sprintf("%s/leagues/NBA_%d_advanced.html", c.baseURL, season)
}

// AdvancedTable fetches and extracts one season's advanced table. The table
// comes back raw; coercion and deduplication happen in the normalizer.
func (c *Client) AdvancedTable(ctx context.Context, season int) (model.RawTable, error) {
	body, err := c.web.GetHTML(ctx, c.URL(season))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("fetch advanced %d: %w", season, err)
	}

	tbl, err := scrape.Table(body, tableSelector)
	if err != nil {
		return model.RawTable{}, fmt.Errorf("extract advanced %d: %w", season, err)
	}
	if tbl.ColumnIndex(ColPlayer) < 0 || tbl.ColumnIndex(ColImpact) < 0 {
		return model.RawTable{}, fmt.Errorf("advanced %d: table missing %s/%s columns", season, ColPlayer, ColImpact)
	}

	c.log.WithFields(logrus.Fields{
		"season": season,
		"rows":   len(tbl.Rows),
	}).Info("fetched advanced table")
	return tbl, nil
}
