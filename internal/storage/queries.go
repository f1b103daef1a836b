package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lcamara/capmetrics/internal/model"
)

// ErrNotCached is returned when a (source, season) table is not in the cache.
var ErrNotCached = errors.New("season table not cached")

// CachedTable is a lightweight record for the seasons listing.
type CachedTable struct {
	Source    string
	Season    int
	Rows      int
	FetchedAt time.Time
}

// HasTable returns true if a table for (source, season) is already cached.
func (db *DB) HasTable(source string, season int) (bool, error) {
	var count int
	err := db.conn.QueryRow(
		"SELECT COUNT(1) FROM season_tables WHERE source = ? AND season = ?",
		source, season).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PutTable stores a scraped table, replacing any previous copy for the same
// (source, season). Rows are bulk-inserted in one transaction.
func (db *DB) PutTable(source string, season int, tbl model.RawTable, fetchedAt time.Time) error {
	header, err := json.Marshal(tbl.Header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replace the parent row and clear old child rows explicitly rather
	// than leaning on the cascade, so a partial previous write cannot
	// leave strays behind.
	if _, err := tx.Exec(
		"DELETE FROM season_rows WHERE source = ? AND season = ?", source, season); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO season_tables(source, season, header, row_count, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
		source, season, string(header), len(tbl.Rows), fetchedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO season_rows(source, season, pos, cells)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range tbl.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if _, err := stmt.Exec(source, season, i, string(cells)); err != nil {
			return fmt.Errorf("insert row %d for %s/%d: %w", i, source, season, err)
		}
	}
	return tx.Commit()
}

// GetTable loads a cached table in its original row order. Returns
// ErrNotCached when the season was never fetched.
func (db *DB) GetTable(source string, season int) (model.RawTable, error) {
	var headerJSON string
	err := db.conn.QueryRow(
		"SELECT header FROM season_tables WHERE source = ? AND season = ?",
		source, season).Scan(&headerJSON)
	if err == sql.ErrNoRows {
		return model.RawTable{}, fmt.Errorf("%s/%d: %w", source, season, ErrNotCached)
	}
	if err != nil {
		return model.RawTable{}, err
	}

	var tbl model.RawTable
	if err := json.Unmarshal([]byte(headerJSON), &tbl.Header); err != nil {
		return model.RawTable{}, fmt.Errorf("decode header for %s/%d: %w", source, season, err)
	}

	rows, err := db.conn.Query(
		"SELECT cells FROM season_rows WHERE source = ? AND season = ? ORDER BY pos",
		source, season)
	if err != nil {
		return model.RawTable{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var cellsJSON string
		if err := rows.Scan(&cellsJSON); err != nil {
			return model.RawTable{}, err
		}
		var cells []string
		if err := json.Unmarshal([]byte(cellsJSON), &cells); err != nil {
			return model.RawTable{}, fmt.Errorf("decode row for %s/%d: %w", source, season, err)
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl, rows.Err()
}

// ListTables returns all cached tables ordered by season then source.
func (db *DB) ListTables() ([]CachedTable, error) {
	rows, err := db.conn.Query(`
		SELECT source, season, row_count, fetched_at
		FROM season_tables ORDER BY season, source`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CachedTable
	for rows.Next() {
		var c CachedTable
		var fetchedAt string
		if err := rows.Scan(&c.Source, &c.Season, &c.Rows, &fetchedAt); err != nil {
			return nil, err
		}
		c.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns the result stringified, for
// the sql command. NULLs come back as empty strings.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		for i := range vals {
			vals[i] = new(sql.NullString)
		}
		if err := rows.Scan(vals...); err != nil {
			return nil, nil, err
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			if ns := v.(*sql.NullString); ns.Valid {
				rec[i] = ns.String
			}
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

// DeleteTable removes a cached table and its rows. Returns ErrNotCached when
// there was nothing to delete.
func (db *DB) DeleteTable(source string, season int) error {
	res, err := db.conn.Exec(
		"DELETE FROM season_tables WHERE source = ? AND season = ?", source, season)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s/%d: %w", source, season, ErrNotCached)
	}
	_, err = db.conn.Exec(
		"DELETE FROM season_rows WHERE source = ? AND season = ?", source, season)
	return err
}
