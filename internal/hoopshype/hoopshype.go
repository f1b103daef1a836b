// Package hoopshype fetches per-season player salary tables from
// hoopshype.com.
package hoopshype

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lcamara/capmetrics/internal/model"
	"github.com/lcamara/capmetrics/internal/scrape"
	"github.com/lcamara/capmetrics/internal/webclient"
)

// Source names this site in the cache and in log lines.
const Source = "hoopshype"

const defaultBaseURL = "https://hoopshype.com"

// ColPlayer is the caption of the name column on salary pages.
const ColPlayer = "Player"

const tableSelector = "table.hh-salaries-ranking-table"

// Client fetches salary tables.
type Client struct {
	web     *webclient.Client
	baseURL string
	log     *logrus.Entry
}

// NewClient returns a hoopshype client on top of web.
func NewClient(web *webclient.Client, log *logrus.Entry) *Client {
	return &Client{web: web, baseURL: defaultBaseURL, log: log}
}

// URL returns the player-salaries page for a season-ending year, e.g.
// /salaries/players/2020-2021/ for the 2021 season.
func (c *Client) URL(season int) string {
	return fmt.Sprintf("%s/salaries/players/%d-%d/", c.baseURL, season-1, season)
}

// SeasonColumn returns the caption of the salary column for a season-ending
// year, e.g. "2020/21" for 2021. Pages carry additional columns (inflation
// adjusted, future years) that the join ignores.
func SeasonColumn(season int) string {
	return fmt.Sprintf("%d/%02d", season-1, season%100)
}

// SalaryTable fetches and extracts one season's salary table raw. Salary
// cells keep their "$12,345,678" formatting; the joiner coerces them.
func (c *Client) SalaryTable(ctx context.Context, season int) (model.RawTable, error) {
	body, err := c.web.GetHTML(ctx, c.URL(season))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("fetch salaries %d: %w", season, err)
	}

	tbl, err := scrape.Table(body, tableSelector)
	if err != nil {
		// Older page layouts drop the class; fall back to the first table.
		tbl, err = scrape.Table(body, "table")
	}
	if err != nil {
		return model.RawTable{}, fmt.Errorf("extract salaries %d: %w", season, err)
	}
	if tbl.ColumnIndex(ColPlayer) < 0 {
		return model.RawTable{}, fmt.Errorf("salaries %d: table missing %s column", season, ColPlayer)
	}

	c.log.WithFields(logrus.Fields{
		"season": season,
		"rows":   len(tbl.Rows),
	}).Info("fetched salary table")
	return tbl, nil
}
