package selection

import (
	"testing"

	"github.com/vanderheijden86/canopy/pkg/model"
)

func TestStateOfChecked(t *testing.T) {
	idx := BuildIndex(fruitTree())
	st := StateOf(idx.Lookup("apple"), NewSet("apple"), false)
	if st.Value != model.Checked || st.Disabled {
		t.Errorf("expected enabled checked, got %+v", st)
	}
}

func TestStateOfPartialSubtree(t *testing.T) {
	idx := BuildIndex(fruitTree())

	// apple selected: fruits is partially selected, citrus is not.
	sel := NewSet("apple")
	if st := StateOf(idx.Lookup("fruits"), sel, false); st.Value != model.Indeterminate {
		t.Errorf("expected fruits indeterminate, got %v", st.Value)
	}
	if st := StateOf(idx.Lookup("citrus"), sel, false); st.Value != model.Unchecked {
		t.Errorf("expected citrus unchecked, got %v", st.Value)
	}
}

func TestStateOfSelectedAncestorDisables(t *testing.T) {
	idx := BuildIndex(fruitTree())

	// Top-level selection of fruits: apple is covered but not a member.
	st := StateOf(idx.Lookup("apple"), NewSet("fruits"), true)
	if st.Value != model.Indeterminate || !st.Disabled {
		t.Errorf("expected disabled indeterminate, got %+v", st)
	}
}

func TestStateOfCascadeMemberUnderSelectedAncestor(t *testing.T) {
	idx := BuildIndex(fruitTree())

	// Cascade closure makes covered descendants members: checked, enabled.
	sel := NewSet("citrus", "orange", "lemon")
	st := StateOf(idx.Lookup("orange"), sel, true)
	if st.Value != model.Checked || st.Disabled {
		t.Errorf("expected enabled checked, got %+v", st)
	}
}

func TestStateOfFirstSelectedNodeClaimsSubtree(t *testing.T) {
	roots := []*model.Node{
		node("top",
			node("mid",
				node("leaf"),
			),
		),
	}
	idx := BuildIndex(roots)

	// mid and leaf both selected: top sees mid as the claiming node; the
	// walk must not descend past mid looking for further selections.
	sel := NewSet("mid", "leaf")
	if st := StateOf(idx.Lookup("top"), sel, false); st.Value != model.Indeterminate {
		t.Errorf("expected top indeterminate, got %v", st.Value)
	}
}

func TestStateOfDeepSelectionPropagatesUp(t *testing.T) {
	roots := fruitTree()
	idx := BuildIndex(roots)

	// lemon selected: both citrus and fruits are indeterminate.
	sel := NewSet("lemon")
	for _, id := range []string{"citrus", "fruits"} {
		if st := StateOf(idx.Lookup(id), sel, false); st.Value != model.Indeterminate {
			t.Errorf("expected %s indeterminate, got %v", id, st.Value)
		}
	}
}

func TestStateOfUncheckedLeaf(t *testing.T) {
	idx := BuildIndex(fruitTree())
	st := StateOf(idx.Lookup("banana"), NewSet("apple"), false)
	if st.Value != model.Unchecked || st.Disabled {
		t.Errorf("expected enabled unchecked, got %+v", st)
	}
}

func TestStateOfNilNode(t *testing.T) {
	st := StateOf(nil, NewSet("apple"), false)
	if st.Value != model.Unchecked {
		t.Errorf("expected unchecked for nil node, got %v", st.Value)
	}
}
