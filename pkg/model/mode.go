package model

import (
	"fmt"
	"strings"
)

// Mode selects the reconciliation semantics for the canonical selection set.
//
// The two modes are deliberately an explicit enum rather than a boolean:
// historical variants of this logic flipped the polarity of a "cascade" flag
// between versions, and an enum makes that drift impossible.
type Mode string

const (
	// ModeCascade: selecting a node implies selecting its entire subtree.
	// Canonical-set invariant: closed under descent.
	ModeCascade Mode = "cascade"

	// ModeTopLevel: the canonical set holds only branch roots of selection.
	// Canonical-set invariant: no member is a strict ancestor of another.
	ModeTopLevel Mode = "top-level"
)

// ParseMode parses a user-supplied mode string. Accepts a few aliases seen
// in config files and on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cascade":
		return ModeCascade, nil
	case "top-level", "top_level", "toplevel", "top-level-only":
		return ModeTopLevel, nil
	default:
		return ModeCascade, fmt.Errorf("unknown selection mode %q (want cascade or top-level)", s)
	}
}

// Valid reports whether m is one of the two defined modes.
func (m Mode) Valid() bool {
	return m == ModeCascade || m == ModeTopLevel
}

func (m Mode) String() string {
	return string(m)
}

// TriState is the per-node display state derived from the canonical set.
type TriState int

const (
	Unchecked TriState = iota
	Indeterminate
	Checked
)

func (t TriState) String() string {
	switch t {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}
