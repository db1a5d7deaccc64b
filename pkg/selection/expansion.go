package selection

import "github.com/vanderheijden86/canopy/pkg/model"

// SeedExpanded returns the initial expansion set for a selection: the
// ancestors of every selected id, so a pre-selected leaf is visible on first
// render. The returned set is mutable UI state; after seeding it changes
// only through explicit expand/collapse toggles.
func SeedExpanded(sel Set, roots []*model.Node) Set {
	return AncestorsOf(sel, roots)
}
