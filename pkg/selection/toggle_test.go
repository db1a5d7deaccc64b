package selection

import (
	"testing"

	"github.com/vanderheijden86/canopy/pkg/model"
)

func TestToggleCascadeCheckAddsSubtree(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	got := Toggle(idx.Lookup("citrus"), true, NewSet(), model.ModeCascade, roots)
	if !got.Equal(NewSet("citrus", "orange", "lemon")) {
		t.Errorf("expected citrus subtree, got %v", got.IDs())
	}
}

func TestToggleCascadeUncheckRemovesSubtree(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	current := NewSet("citrus", "orange", "lemon")
	got := Toggle(idx.Lookup("citrus"), false, current, model.ModeCascade, roots)
	if len(got) != 0 {
		t.Errorf("expected empty set, got %v", got.IDs())
	}
}

func TestToggleCascadeUncheckReleasesAncestors(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	// Everything under fruits is checked; unchecking citrus leaves fruits
	// with an incomplete subtree, so fruits must drop out of the set too.
	current := Normalize(roots, []string{"fruits"}, model.ModeCascade)
	got := Toggle(idx.Lookup("citrus"), false, current, model.ModeCascade, roots)
	if !got.Equal(NewSet("apple", "banana")) {
		t.Errorf("expected {apple, banana}, got %v", got.IDs())
	}

	st := StateOf(idx.Lookup("fruits"), got, false)
	if st.Value != model.Indeterminate {
		t.Errorf("fruits state = %v, want indeterminate", st.Value)
	}
}

func TestToggleCascadeUncheckLeavesSiblings(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	current := NewSet("apple", "citrus", "orange", "lemon")
	got := Toggle(idx.Lookup("citrus"), false, current, model.ModeCascade, roots)
	if !got.Equal(NewSet("apple")) {
		t.Errorf("expected {apple}, got %v", got.IDs())
	}
}

func TestToggleTopLevelCheckSubsumesDescendants(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	current := NewSet("orange")
	got := Toggle(idx.Lookup("citrus"), true, current, model.ModeTopLevel, roots)
	if !got.Equal(NewSet("citrus")) {
		t.Errorf("orange should be subsumed, got %v", got.IDs())
	}
}

func TestToggleTopLevelCheckUnderSelectedAncestorIsNoop(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	current := NewSet("fruits")
	got := Toggle(idx.Lookup("apple"), true, current, model.ModeTopLevel, roots)
	if !got.Equal(NewSet("fruits")) {
		t.Errorf("pre-existing ancestor selection wins, got %v", got.IDs())
	}
}

func TestToggleTopLevelUncheckLeavesDescendants(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	// orange was selected independently before citrus; unchecking citrus
	// must not release orange.
	current := NewSet("citrus", "orange")
	got := Toggle(idx.Lookup("citrus"), false, current, model.ModeTopLevel, roots)
	if !got.Equal(NewSet("orange")) {
		t.Errorf("expected {orange}, got %v", got.IDs())
	}
}

func TestToggleNeverMutatesInput(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	current := NewSet("apple")
	before := current.Clone()

	Toggle(idx.Lookup("citrus"), true, current, model.ModeCascade, roots)
	Toggle(idx.Lookup("apple"), false, current, model.ModeCascade, roots)
	Toggle(idx.Lookup("fruits"), true, current, model.ModeTopLevel, roots)

	if !current.Equal(before) {
		t.Errorf("input set was mutated: %v", current.IDs())
	}
}

func TestToggleRoundTrip(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	for _, mode := range []model.Mode{model.ModeCascade, model.ModeTopLevel} {
		start := NewSet("banana")
		on := Toggle(idx.Lookup("citrus"), true, start, mode, roots)
		off := Toggle(idx.Lookup("citrus"), false, on, mode, roots)
		if !off.Equal(start) {
			t.Errorf("%s: toggle round-trip changed the set: %v", mode, off.IDs())
		}
	}
}

func TestToggleNilNode(t *testing.T) {
	current := NewSet("apple")
	got := Toggle(nil, true, current, model.ModeCascade, fruitTree())
	if !got.Equal(current) {
		t.Errorf("nil node toggle must be a no-op, got %v", got.IDs())
	}
}
