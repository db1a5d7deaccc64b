package datasource

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/canopy/pkg/selection"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeTreeDB(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE nodes (id TEXT PRIMARY KEY, label TEXT NOT NULL DEFAULT '', parent TEXT, position INTEGER NOT NULL DEFAULT 0)`,
		`INSERT INTO nodes VALUES ('fruits', 'Fruits', NULL, 0)`,
		`INSERT INTO nodes VALUES ('citrus', 'Citrus', 'fruits', 1)`,
		`INSERT INTO nodes VALUES ('apple', 'Apple', 'fruits', 0)`,
		`INSERT INTO nodes VALUES ('lemon', 'Lemon', 'citrus', 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscoverSourcesEmptyDir(t *testing.T) {
	sources, err := DiscoverSources(DiscoveryOptions{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("expected no sources, got %v", sources)
	}
}

func TestDiscoverSourcesFindsCandidates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tree.json"), `[{"id":"a","label":"A"}]`)
	writeFile(t, filepath.Join(dir, "nodes.jsonl"), `{"id":"b","label":"B"}`)

	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", sources)
	}
}

func TestDiscoverSourcesPriorityBreaksTies(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "tree.json")
	jsonlPath := filepath.Join(dir, "nodes.jsonl")
	writeFile(t, jsonPath, `[{"id":"a","label":"A"}]`)
	writeFile(t, jsonlPath, `{"id":"b","label":"B"}`)

	// Equal mtimes: the higher-priority tree file must win.
	now := time.Now()
	if err := os.Chtimes(jsonPath, now, now); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(jsonlPath, now, now); err != nil {
		t.Fatal(err)
	}

	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sources[0].Type != SourceTypeTreeFile {
		t.Errorf("expected tree file first, got %v", sources[0])
	}
}

func TestDiscoverSourcesFreshestWins(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "tree.json")
	jsonlPath := filepath.Join(dir, "nodes.jsonl")
	writeFile(t, jsonPath, `[{"id":"a","label":"A"}]`)
	writeFile(t, jsonlPath, `{"id":"b","label":"B"}`)

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(jsonPath, old, old); err != nil {
		t.Fatal(err)
	}

	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sources[0].Type != SourceTypeJSONL {
		t.Errorf("newer low-priority source should win, got %v", sources[0])
	}
}

func TestDiscoverSourcesValidationFiltersBroken(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tree.json"), `this is not json`)
	writeFile(t, filepath.Join(dir, "nodes.jsonl"), `{"id":"b","label":"B"}`)

	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir, Validate: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 1 || sources[0].Type != SourceTypeJSONL {
		t.Errorf("expected only the valid jsonl source, got %v", sources)
	}
	if sources[0].NodeCount != 1 {
		t.Errorf("expected node count 1, got %d", sources[0].NodeCount)
	}
}

func TestDiscoverSourcesIncludeInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tree.json"), `broken`)

	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir, Validate: true, IncludeInvalid: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 1 || sources[0].Valid {
		t.Errorf("expected one invalid source, got %v", sources)
	}
	if sources[0].ValidationError == "" {
		t.Error("expected validation error message")
	}
}

func TestSQLiteReaderLoadTree(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tree.db")
	writeTreeDB(t, dbPath)

	roots, src, err := LoadTree(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Type != SourceTypeSQLite {
		t.Errorf("expected sqlite source, got %v", src.Type)
	}
	if len(roots) != 1 || roots[0].ID != "fruits" {
		t.Fatalf("unexpected roots: %v", roots)
	}
	// Position orders apple before citrus.
	if roots[0].Children[0].ID != "apple" || roots[0].Children[1].ID != "citrus" {
		t.Errorf("siblings not ordered by position: %v", roots[0].Children)
	}

	idx := selection.BuildIndex(roots)
	if idx.Lookup("lemon") == nil {
		t.Error("expected lemon under citrus")
	}
}

func TestLoadTreeNoSources(t *testing.T) {
	if _, _, err := LoadTree(t.TempDir()); err == nil {
		t.Error("expected error for empty directory")
	}
}
