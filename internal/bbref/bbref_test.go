package bbref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcamara/capmetrics/internal/webclient"
)

func quietLog() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func fixtureServer(t *testing.T, name string) *httptest.Server {
	body, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
}

func testWeb() *webclient.Client {
	return webclient.New(webclient.Options{
		UserAgent: "capmetrics-test/1.0",
		RPS:       100,
		Burst:     10,
		Timeout:   5 * time.Second,
	}, quietLog())
}

func TestURL(t *testing.T) {
	c := NewClient(testWeb(), quietLog())
	assert.Equal(t, "https://www.basketball-reference.com/leagues/NBA_2021_advanced.html", c.URL(2021))
}

func TestAdvancedTable(t *testing.T) {
	srv := fixtureServer(t, "advanced_2021.html")
	defer srv.Close()

	c := NewClient(testWeb(), quietLog())
	c.baseURL = srv.URL

	tbl, err := c.AdvancedTable(context.Background(), 2021)
	require.NoError(t, err)

	require.Positive(t, tbl.ColumnIndex(ColPlayer))
	require.Positive(t, tbl.ColumnIndex(ColImpact))
	require.Positive(t, tbl.ColumnIndex(ColMinutes))

	// 7 data rows; the repeated mid-table header must not survive.
	require.Len(t, tbl.Rows, 7)
	for _, row := range tbl.Rows {
		assert.NotEqual(t, "Player", row[tbl.ColumnIndex(ColPlayer)])
	}

	// Traded players appear once per team plus a TOT row, all kept raw.
	var aldridge int
	for _, row := range tbl.Rows {
		if row[tbl.ColumnIndex(ColPlayer)] == "LaMarcus Aldridge" {
			aldridge++
		}
	}
	assert.Equal(t, 3, aldridge)

	// Empty cells come through as empty strings, not zeros.
	adams := tbl.Rows[1]
	assert.Equal(t, "Jaylen Adams", adams[tbl.ColumnIndex(ColPlayer)])
	assert.Equal(t, "", adams[tbl.ColumnIndex("TS%")])
}

func TestAdvancedTableMissingColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<table id="advanced"><thead><tr><th>Rk</th><th>Name</th></tr></thead>` +
			`<tbody><tr><td>1</td><td>x</td></tr></tbody></table>`))
	}))
	defer srv.Close()

	c := NewClient(testWeb(), quietLog())
	c.baseURL = srv.URL

	_, err := c.AdvancedTable(context.Background(), 2021)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestAdvancedTableFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testWeb(), quietLog())
	c.baseURL = srv.URL

	_, err := c.AdvancedTable(context.Background(), 2021)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch advanced 2021")
}
