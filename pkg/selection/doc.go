// Package selection is the reconciliation engine for hierarchical
// multi-selection. Given an immutable tree of labeled nodes and a raw list
// of selected ids, it maintains a canonical selection set under one of two
// semantics (cascade vs top-level), applies single-node toggles, and
// computes per-node tri-state display values.
//
// Every operation is a pure, synchronous function over in-memory data. The
// engine never mutates the tree and never mutates a caller-supplied set;
// hosts that are themselves concurrent must serialize calls, since Toggle
// takes the previous canonical set as an explicit input.
package selection
