package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/goldstar/internal/apperr"
)

func testSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goldstar-test.db")
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, path
}

func TestSQLiteSchemaCreation(t *testing.T) {
	db, _ := testSQLite(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM kv`).Scan(&count); err != nil {
		t.Fatalf("kv table missing: %v", err)
	}
}

func TestSQLiteSaveLoadUpsert(t *testing.T) {
	db, _ := testSQLite(t)
	if _, err := db.Load("k"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing key err = %v", err)
	}
	if err := db.Save("k", []byte("v1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := db.Save("k", []byte("v2")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := db.Load("k")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("value = %q, want v2", got)
	}
	var rows int
	_ = db.conn.QueryRow(`SELECT count(*) FROM kv`).Scan(&rows)
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	db, path := testSQLite(t)
	_ = db.Save("k", []byte("durable"))
	db.Close()

	again, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	got, err := again.Load("k")
	if err != nil || string(got) != "durable" {
		t.Errorf("after reopen = %q, %v", got, err)
	}
}
