package selection

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/canopy/pkg/model"
)

func TestDescendantsExcludesNodeItself(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	got := Descendants(idx.Lookup("fruits"))
	want := []string{"apple", "banana", "citrus", "orange", "lemon"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDescendantsOfLeaf(t *testing.T) {
	idx := BuildIndex(fruitTree())
	if got := Descendants(idx.Lookup("lemon")); got != nil {
		t.Errorf("expected nil for leaf, got %v", got)
	}
}

func TestDescendantsNilNode(t *testing.T) {
	if got := Descendants(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestAncestorsOfSingleTarget(t *testing.T) {
	got := AncestorsOf(NewSet("lemon"), fruitTree())
	if !got.Equal(NewSet("fruits", "citrus")) {
		t.Errorf("expected {fruits citrus}, got %v", got.IDs())
	}
}

func TestAncestorsOfRoot(t *testing.T) {
	got := AncestorsOf(NewSet("fruits"), fruitTree())
	if len(got) != 0 {
		t.Errorf("root has no ancestors, got %v", got.IDs())
	}
}

func TestAncestorsOfUnionsTargets(t *testing.T) {
	roots := []*model.Node{
		node("left", node("l1", node("l2"))),
		node("right", node("r1")),
	}

	got := AncestorsOf(NewSet("l2", "r1"), roots)
	if !got.Equal(NewSet("left", "l1", "right")) {
		t.Errorf("expected union of both paths, got %v", got.IDs())
	}
}

func TestAncestorsOfStopsAtFirstContainingRoot(t *testing.T) {
	// The same id appears under two roots; only the first root's path counts.
	roots := []*model.Node{
		node("a", node("shared")),
		node("b", node("mid", node("shared"))),
	}

	got := AncestorsOf(NewSet("shared"), roots)
	if !got.Equal(NewSet("a")) {
		t.Errorf("expected {a}, got %v", got.IDs())
	}
}

func TestAncestorsOfUnknownTarget(t *testing.T) {
	got := AncestorsOf(NewSet("ghost"), fruitTree())
	if len(got) != 0 {
		t.Errorf("unknown target should contribute no ancestors, got %v", got.IDs())
	}
}

func TestAncestorsOfEmptyTargets(t *testing.T) {
	got := AncestorsOf(NewSet(), fruitTree())
	if len(got) != 0 {
		t.Errorf("expected empty set, got %v", got.IDs())
	}
}

func TestSeedExpandedOpensPathToSelection(t *testing.T) {
	sel := NewSet("lemon")
	expanded := SeedExpanded(sel, fruitTree())
	if !expanded.Equal(NewSet("fruits", "citrus")) {
		t.Errorf("expected path to lemon expanded, got %v", expanded.IDs())
	}
}
