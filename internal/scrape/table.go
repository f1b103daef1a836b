// Package scrape turns fetched HTML into model.RawTable values. It knows
// nothing about either stat site beyond the CSS selector it is handed.
package scrape

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lcamara/capmetrics/internal/model"
)

// Table extracts the first table matching selector from body. The header is
// taken from the last thead row so over-header decoration rows are skipped,
// and repeated mid-table header rows (class "thead") are dropped. Every
// returned row is padded or truncated to the header width.
func Table(body []byte, selector string) (model.RawTable, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return model.RawTable{}, fmt.Errorf("parse html: %w", err)
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return model.RawTable{}, fmt.Errorf("no table matches %q", selector)
	}

	var header []string
	sel.Find("thead tr").Last().Find("th, td").Each(func(_ int, s *goquery.Selection) {
		header = append(header, strings.TrimSpace(s.Text()))
	})
	if len(header) == 0 {
		return model.RawTable{}, fmt.Errorf("table %q has no header row", selector)
	}

	var rows [][]string
	sel.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("thead") {
			return
		}
		cells := make([]string, 0, len(header))
		tr.Find("th, td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		rows = append(rows, cells[:len(header)])
	})

	return model.RawTable{Header: header, Rows: rows}, nil
}
