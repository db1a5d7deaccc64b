package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitIDs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , ,b ", []string{"a", "b"}},
	}
	for _, c := range cases {
		if got := splitIDs(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitIDs(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLoadForestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	content := `[{"id":"a","label":"A","children":[{"id":"b","label":"B"}]}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	roots, dataPath, err := loadForest(path)
	if err != nil {
		t.Fatalf("loadForest: %v", err)
	}
	if dataPath != path {
		t.Errorf("dataPath = %q, want %q", dataPath, path)
	}
	if len(roots) != 1 || roots[0].ID != "a" || len(roots[0].Children) != 1 {
		t.Errorf("unexpected forest: %+v", roots)
	}
}

func TestLoadForestFromDirDiscovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(path, []byte(`[{"id":"root","label":"Root"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	roots, dataPath, err := loadForest(dir)
	if err != nil {
		t.Fatalf("loadForest: %v", err)
	}
	if dataPath != path {
		t.Errorf("dataPath = %q, want %q", dataPath, path)
	}
	if len(roots) != 1 || roots[0].ID != "root" {
		t.Errorf("unexpected forest: %+v", roots)
	}
}

func TestLoadForestMissingPath(t *testing.T) {
	if _, _, err := loadForest(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing path")
	}
}
