package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "002_indexes.sql", "CREATE INDEX idx ON hospital (name);")
	writeMigration(t, dir, "001_hospitals.sql", "CREATE TABLE hospital (id TEXT PRIMARY KEY);")
	writeMigration(t, dir, "010_later.sql", "ALTER TABLE hospital ADD COLUMN notes TEXT;")
	writeMigration(t, dir, "README.md", "not a migration")
	writeMigration(t, dir, "nonnumeric_file.sql", "SELECT 1;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	wantOrder := []int{1, 2, 10}
	for i, want := range wantOrder {
		if migrations[i].Version != want {
			t.Errorf("position %d: expected version %d, got %d", i, want, migrations[i].Version)
		}
	}
	if migrations[0].Name != "001_hospitals.sql" {
		t.Errorf("unexpected name: %s", migrations[0].Name)
	}
	if migrations[0].SQL == "" {
		t.Error("expected SQL content loaded")
	}
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	m := NewMigrator(nil, filepath.Join(t.TempDir(), "nope"))
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}
