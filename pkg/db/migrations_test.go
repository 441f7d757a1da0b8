package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("db:migrations_test - failed to write test file %s: %v", name, err)
		}
	}
}

func TestLoadMigrationFiles_SortOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"0003_third.sql":  "THIRD",
		"0001_first.sql":  "FIRST",
		"0002_second.sql": "SECOND",
	})

	result, err := LoadMigrationFiles(dir)
	if err != nil {
		t.Fatalf("db:migrations_test - unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("db:migrations_test - expected 3, got %d", len(result))
	}

	want := []Migration{
		{Version: "0001_first", SQL: "FIRST"},
		{Version: "0002_second", SQL: "SECOND"},
		{Version: "0003_third", SQL: "THIRD"},
	}
	for i, m := range want {
		if result[i] != m {
			t.Errorf("db:migrations_test - migration %d = %+v, want %+v", i, result[i], m)
		}
	}
}

func TestLoadMigrationFiles_SkipsNonSQL(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"0001_create.sql": "CREATE TABLE t1;",
		"README.md":       "# Migrations",
		"0002_alter.sql":  "ALTER TABLE t1;",
	})
	// A directory with a .sql suffix is skipped as well.
	if err := os.Mkdir(filepath.Join(dir, "subdir.sql"), 0755); err != nil {
		t.Fatalf("db:migrations_test - failed to create subdir: %v", err)
	}

	result, err := LoadMigrationFiles(dir)
	if err != nil {
		t.Fatalf("db:migrations_test - unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("db:migrations_test - expected 2 SQL files, got %d", len(result))
	}
}

func TestLoadMigrationFiles_NonExistentDir(t *testing.T) {
	if _, err := LoadMigrationFiles(filepath.Join(t.TempDir(), "nonexistent")); err == nil {
		t.Error("db:migrations_test - expected error for non-existent directory")
	}
}

func TestLoadMigrationFiles_Repository(t *testing.T) {
	result, err := LoadMigrationFiles(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("db:migrations_test - unexpected error: %v", err)
	}
	if len(result) == 0 || result[0].Version != "0001_callbacks" {
		t.Errorf("db:migrations_test - unexpected repository migrations %+v", result)
	}
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: "0001"}, {Version: "0002"}, {Version: "0003"}}

	tests := []struct {
		name    string
		applied []string
		want    []string
	}{
		{name: "none applied", applied: nil, want: []string{"0001", "0002", "0003"}},
		{name: "some applied", applied: []string{"0001"}, want: []string{"0002", "0003"}},
		{name: "all applied", applied: []string{"0001", "0002", "0003"}, want: nil},
		{name: "unknown applied", applied: []string{"0009"}, want: []string{"0001", "0002", "0003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pending(all, tt.applied)
			if len(got) != len(tt.want) {
				t.Fatalf("db:migrations_test - got %d pending, want %d", len(got), len(tt.want))
			}
			for i, v := range tt.want {
				if got[i].Version != v {
					t.Errorf("db:migrations_test - pending[%d] = %s, want %s", i, got[i].Version, v)
				}
			}
		})
	}
}
