package hoopshype

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
	assert.Equal(t, "https://hoopshype.com/salaries/players/2020-2021/", c.URL(2021))
	assert.Equal(t, "https://hoopshype.com/salaries/players/2016-2017/", c.URL(2017))
}

func TestSeasonColumn(t *testing.T) {
	assert.Equal(t, "2020/21", SeasonColumn(2021))
	assert.Equal(t, "2016/17", SeasonColumn(2017))
	assert.Equal(t, "2008/09", SeasonColumn(2009))
}

func TestSalaryTable(t *testing.T) {
	body, err := os.ReadFile(filepath.Join("testdata", "salaries_2021.html"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	c := NewClient(testWeb(), quietLog())
	c.baseURL = srv.URL

	tbl, err := c.SalaryTable(context.Background(), 2021)
	require.NoError(t, err)

	require.Len(t, tbl.Rows, 5)
	playerCol := tbl.ColumnIndex(ColPlayer)
	salaryCol := tbl.ColumnIndex(SeasonColumn(2021))
	require.GreaterOrEqual(t, playerCol, 0)
	require.GreaterOrEqual(t, salaryCol, 0)

	assert.Equal(t, "Stephen Curry", tbl.Rows[0][playerCol])
	assert.Equal(t, "$43,006,362", tbl.Rows[0][salaryCol], "salary text stays raw")

	// The inflation-adjusted column must not be confused with the season column.
	assert.NotEqual(t, salaryCol, tbl.ColumnIndex("2020/21(*)"))
}

func TestSalaryTableWithoutPlayerColumn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<table><thead><tr><td>Name</td><td>Pay</td></tr></thead>` +
			`<tbody><tr><td>x</td><td>1</td></tr></tbody></table>`))
	}))
	defer srv.Close()

	c := NewClient(testWeb(), quietLog())
	c.baseURL = srv.URL

	_, err := c.SalaryTable(context.Background(), 2021)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing Player column")
}
