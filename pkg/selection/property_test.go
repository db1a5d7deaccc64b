package selection_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/canopy/pkg/model"
	"github.com/vanderheijden86/canopy/pkg/selection"
	"github.com/vanderheijden86/canopy/pkg/testutil"
)

var modeGen = rapid.SampledFrom([]model.Mode{model.ModeCascade, model.ModeTopLevel})

// drawTree generates a random tree plus its id universe (with two ghost ids
// that are never in the tree, so unknown-id paths get exercised too).
func drawTree(t *rapid.T) ([]*model.Node, []string) {
	seed := rapid.Int64().Draw(t, "seed")
	size := rapid.IntRange(1, 60).Draw(t, "size")
	roots := testutil.RandomTree(seed, size)
	ids := append(testutil.AllIDs(roots), "ghost-1", "ghost-2")
	return roots, ids
}

func drawRawIDs(t *rapid.T, ids []string) []string {
	return rapid.SliceOfN(rapid.SampledFrom(ids), 0, len(ids)).Draw(t, "raw")
}

func TestNormalizeCascadeClosureProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, ids := drawTree(rt)
		raw := drawRawIDs(rt, ids)

		set := selection.Normalize(roots, raw, model.ModeCascade)
		testutil.AssertClosure(rt, roots, set)
	})
}

func TestNormalizeTopLevelAntichainProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, ids := drawTree(rt)
		raw := drawRawIDs(rt, ids)

		set := selection.Normalize(roots, raw, model.ModeTopLevel)
		testutil.AssertAntichain(rt, roots, set)
	})
}

func TestNormalizeIdempotenceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, ids := drawTree(rt)
		raw := drawRawIDs(rt, ids)
		mode := modeGen.Draw(rt, "mode")

		once := selection.Normalize(roots, raw, mode)
		twice := selection.Normalize(roots, once.IDs(), mode)
		if !once.Equal(twice) {
			rt.Fatalf("not idempotent: %v vs %v", once.IDs(), twice.IDs())
		}
	})
}

func TestNormalizeOrderIndependenceProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, ids := drawTree(rt)
		raw := drawRawIDs(rt, ids)
		mode := modeGen.Draw(rt, "mode")

		reversed := make([]string, len(raw))
		for i, id := range raw {
			reversed[len(raw)-1-i] = id
		}

		a := selection.Normalize(roots, raw, mode)
		b := selection.Normalize(roots, reversed, mode)
		if !a.Equal(b) {
			rt.Fatalf("order changed membership: %v vs %v", a.IDs(), b.IDs())
		}
	})
}

func TestToggleRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, ids := drawTree(rt)
		raw := drawRawIDs(rt, ids)
		mode := modeGen.Draw(rt, "mode")

		set := selection.Normalize(roots, raw, mode)
		idx := selection.BuildIndex(roots)

		// Round-trip holds for a node with no selected relatives: not a
		// member itself, no selected ancestor, no selected descendant.
		target := rapid.SampledFrom(testutil.AllIDs(roots)).Draw(rt, "target")
		node := idx.Lookup(target)
		if set.Has(target) {
			rt.Skip("target already selected")
		}
		for ancestor := range selection.AncestorsOf(selection.Set{target: true}, roots) {
			if set.Has(ancestor) {
				rt.Skip("target has a selected ancestor")
			}
		}
		for _, desc := range selection.Descendants(node) {
			if set.Has(desc) {
				rt.Skip("target has a selected descendant")
			}
		}

		on := selection.Toggle(node, true, set, mode, roots)
		off := selection.Toggle(node, false, on, mode, roots)
		if !off.Equal(set) {
			rt.Fatalf("round-trip changed the set:\nstart: %v\nend:   %v", set.IDs(), off.IDs())
		}
	})
}

func TestToggleMaintainsInvariantProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, ids := drawTree(rt)
		raw := drawRawIDs(rt, ids)
		mode := modeGen.Draw(rt, "mode")

		set := selection.Normalize(roots, raw, mode)
		idx := selection.BuildIndex(roots)

		target := rapid.SampledFrom(testutil.AllIDs(roots)).Draw(rt, "target")
		checked := rapid.Bool().Draw(rt, "checked")

		next := selection.Toggle(idx.Lookup(target), checked, set, mode, roots)

		// Whatever the toggle did, the mode invariant must still hold for
		// ids that are actually in the tree.
		if mode == model.ModeCascade {
			testutil.AssertClosure(rt, roots, next)
		} else {
			testutil.AssertAntichain(rt, roots, next)
		}
	})
}

func TestUnknownIDsSurviveEverythingProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roots, ids := drawTree(rt)
		raw := append(drawRawIDs(rt, ids), "ghost-1")
		mode := modeGen.Draw(rt, "mode")

		set := selection.Normalize(roots, raw, mode)
		if !set.Has("ghost-1") {
			rt.Fatalf("unknown id dropped by normalize: %v", set.IDs())
		}
	})
}
