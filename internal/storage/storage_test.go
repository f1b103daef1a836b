package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/lcamara/capmetrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleTable() model.RawTable {
	return model.RawTable{
		Header: []string{"Rk", "Player", "Tm", "MP", "BPM"},
		Rows: [][]string{
			{"1", "Stephen Curry", "GSW", "2152", "8.1"},
			{"2", "Nikola Jokic", "DEN", "2488", "11.7"},
			{"3", "Jaylen Adams", "MIL", "18", ""},
		},
	}
}

func TestPutAndHasTable(t *testing.T) {
	db := openMemDB(t)

	if err := db.PutTable("bbref", 2021, sampleTable(), time.Now()); err != nil {
		t.Fatalf("PutTable: %v", err)
	}

	has, err := db.HasTable("bbref", 2021)
	if err != nil {
		t.Fatalf("HasTable: %v", err)
	}
	if !has {
		t.Error("expected table to exist after put")
	}

	has2, _ := db.HasTable("hoopshype", 2021)
	if has2 {
		t.Error("expected missing source to not exist")
	}
}

func TestGetTableRoundTrip(t *testing.T) {
	db := openMemDB(t)

	want := sampleTable()
	if err := db.PutTable("bbref", 2021, want, time.Now()); err != nil {
		t.Fatalf("PutTable: %v", err)
	}

	got, err := db.GetTable("bbref", 2021)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if len(got.Header) != len(want.Header) {
		t.Fatalf("header width: want %d, got %d", len(want.Header), len(got.Header))
	}
	if len(got.Rows) != len(want.Rows) {
		t.Fatalf("row count: want %d, got %d", len(want.Rows), len(got.Rows))
	}
	// Row order and cell text must survive exactly, empty cells included.
	for i := range want.Rows {
		for j := range want.Rows[i] {
			if got.Rows[i][j] != want.Rows[i][j] {
				t.Errorf("cell [%d][%d]: want %q, got %q", i, j, want.Rows[i][j], got.Rows[i][j])
			}
		}
	}
}

func TestGetTableNotCached(t *testing.T) {
	db := openMemDB(t)

	_, err := db.GetTable("bbref", 1999)
	if !errors.Is(err, ErrNotCached) {
		t.Fatalf("expected ErrNotCached, got %v", err)
	}
}

func TestPutTableReplaces(t *testing.T) {
	db := openMemDB(t)

	if err := db.PutTable("bbref", 2021, sampleTable(), time.Now()); err != nil {
		t.Fatalf("first PutTable: %v", err)
	}

	smaller := model.RawTable{
		Header: []string{"Player", "BPM"},
		Rows:   [][]string{{"Only Player", "1.0"}},
	}
	if err := db.PutTable("bbref", 2021, smaller, time.Now()); err != nil {
		t.Fatalf("second PutTable: %v", err)
	}

	got, err := db.GetTable("bbref", 2021)
	if err != nil {
		t.Fatalf("GetTable: %v", err)
	}
	if len(got.Rows) != 1 {
		t.Errorf("expected old rows gone after replace, got %d rows", len(got.Rows))
	}
	if got.Rows[0][0] != "Only Player" {
		t.Errorf("unexpected row content %v", got.Rows[0])
	}
}

func TestListTablesOrdering(t *testing.T) {
	db := openMemDB(t)

	fetched := time.Date(2021, 7, 1, 12, 0, 0, 0, time.UTC)
	db.PutTable("hoopshype", 2021, sampleTable(), fetched)
	db.PutTable("bbref", 2020, sampleTable(), fetched)
	db.PutTable("bbref", 2021, sampleTable(), fetched)

	list, err := db.ListTables()
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 tables, got %d", len(list))
	}
	// Ordered by season then source.
	if list[0].Season != 2020 || list[0].Source != "bbref" {
		t.Errorf("unexpected first entry %+v", list[0])
	}
	if list[1].Source != "bbref" || list[2].Source != "hoopshype" {
		t.Errorf("sources out of order: %+v", list)
	}
	if list[0].Rows != 3 {
		t.Errorf("row_count: want 3, got %d", list[0].Rows)
	}
	if !list[0].FetchedAt.Equal(fetched) {
		t.Errorf("fetched_at: want %v, got %v", fetched, list[0].FetchedAt)
	}
}

func TestDeleteTable(t *testing.T) {
	db := openMemDB(t)

	db.PutTable("bbref", 2021, sampleTable(), time.Now())

	if err := db.DeleteTable("bbref", 2021); err != nil {
		t.Fatalf("DeleteTable: %v", err)
	}
	if _, err := db.GetTable("bbref", 2021); !errors.Is(err, ErrNotCached) {
		t.Errorf("expected ErrNotCached after delete, got %v", err)
	}
	if err := db.DeleteTable("bbref", 2021); !errors.Is(err, ErrNotCached) {
		t.Errorf("expected ErrNotCached for double delete, got %v", err)
	}
}
