package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
)

// TB is the subset of testing.TB the assertion helpers use. It is declared
// locally so property tests can pass the rapid run handle through (keeping
// shrinking working) even though *rapid.T lags behind testing.TB's method
// set (Go 1.25 added Attr, which rapid does not yet implement).
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

var _ TB = testing.TB(nil)

// AssertSetEqual verifies two id sets have the same members. The helpers
// take TB so property tests can pass the rapid run handle through
// and keep shrinking working.
func AssertSetEqual(t TB, want, got selection.Set) {
	t.Helper()
	if !want.Equal(got) {
		t.Errorf("set mismatch:\nwant: %v\ngot:  %v", want.IDs(), got.IDs())
	}
}

// AssertMembers verifies the set contains exactly the given ids.
func AssertMembers(t TB, got selection.Set, ids ...string) {
	t.Helper()
	AssertSetEqual(t, selection.NewSet(ids...), got)
}

// AssertClosure verifies the cascade invariant: every member that resolves
// to a node in the tree has all of its descendants in the set too.
func AssertClosure(t TB, roots []*model.Node, set selection.Set) {
	t.Helper()
	idx := selection.BuildIndex(roots)
	for id := range set {
		node := idx.Lookup(id)
		if node == nil {
			continue
		}
		for _, desc := range selection.Descendants(node) {
			if !set.Has(desc) {
				t.Errorf("closure violated: %s selected but descendant %s is not", id, desc)
			}
		}
	}
}

// AssertAntichain verifies the top-level invariant: no member is a strict
// ancestor of another member.
func AssertAntichain(t TB, roots []*model.Node, set selection.Set) {
	t.Helper()
	for id := range set {
		for ancestor := range selection.AncestorsOf(selection.Set{id: true}, roots) {
			if set.Has(ancestor) {
				t.Errorf("antichain violated: %s and its ancestor %s are both selected", id, ancestor)
			}
		}
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
// If GENERATE_GOLDEN env var is set, golden files are updated instead.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}

	if string(expected) != actual {
		expectedLines := strings.Split(string(expected), "\n")
		actualLines := strings.Split(actual, "\n")
		for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
			var expLine, actLine string
			if i < len(expectedLines) {
				expLine = expectedLines[i]
			}
			if i < len(actualLines) {
				actLine = actualLines[i]
			}
			if expLine != actLine {
				g.t.Errorf("golden file mismatch at line %d:\nexpected: %s\nactual:   %s", i+1, expLine, actLine)
				return
			}
		}
		g.t.Errorf("golden file mismatch (length differs)")
	}
}
