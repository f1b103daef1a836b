package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<table id="advanced">
  <thead>
    <tr class="over_header"><th colspan="3">Advanced</th></tr>
    <tr><th>Rk</th><th>Player</th><th>BPM</th></tr>
  </thead>
  <tbody>
    <tr><th>1</th><td>Stephen Curry</td><td>8.1</td></tr>
    <tr class="thead"><th>Rk</th><td>Player</td><td>BPM</td></tr>
    <tr><th>2</th><td>Nikola Jokic</td><td>11.7</td></tr>
    <tr><th>3</th><td>Short Row</td></tr>
  </tbody>
</table>
<table id="second"><thead><tr><th>X</th></tr></thead><tbody><tr><td>y</td></tr></tbody></table>
</body></html>`

func TestTableExtractsHeaderAndRows(t *testing.T) {
	tbl, err := Table([]byte(fixture), "table#advanced")
	require.NoError(t, err)

	assert.Equal(t, []string{"Rk", "Player", "BPM"}, tbl.Header)
	require.Len(t, tbl.Rows, 3, "mid-table thead row is dropped")
	assert.Equal(t, []string{"1", "Stephen Curry", "8.1"}, tbl.Rows[0])
	assert.Equal(t, []string{"2", "Nikola Jokic", "11.7"}, tbl.Rows[1])
}

func TestTableSkipsOverHeaderRow(t *testing.T) {
	tbl, err := Table([]byte(fixture), "table#advanced")
	require.NoError(t, err)
	assert.NotContains(t, tbl.Header, "Advanced")
}

func TestTablePadsShortRows(t *testing.T) {
	tbl, err := Table([]byte(fixture), "table#advanced")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "Short Row", ""}, tbl.Rows[2])
}

func TestTableSelectorMiss(t *testing.T) {
	_, err := Table([]byte(fixture), "table#salaries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no table matches")
}

func TestTableRequiresHeader(t *testing.T) {
	_, err := Table([]byte(`<table id="x"><tbody><tr><td>1</td></tr></tbody></table>`), "table#x")
	require.Error(t, err)
}
