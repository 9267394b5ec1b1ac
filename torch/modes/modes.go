// Package modes holds the static definition of mode groups: up to 16
// groups of up to 16 ordered output values, plus the special codes that
// select decorative patterns instead of a steady level.
package modes

import (
	"strconv"

	"torchfw-go/errcode"
)

// ModeValue is a raw output code. Positive values drive the primary
// channel, negative values the secondary channel (dual-channel hardware
// only). A small closed set of per-table special codes selects a
// decorative pattern. Zero in a table slot is the sentinel that ends the
// group early.
type ModeValue int16

const (
	MaxGroups = 16
	MaxModes  = 16
)

// Pattern identifies a decorative blink sequence.
type Pattern uint8

const (
	PatternNone Pattern = iota
	PatternStrobe
	PatternPolice
	PatternSOS
)

// Special maps the table's reserved codes to patterns. A zero entry
// disables that pattern.
type Special struct {
	Strobe ModeValue
	Police ModeValue
	SOS    ModeValue
}

// Table is the groups × modes definition for one hardware variant.
type Table struct {
	Groups  [][]ModeValue
	Special Special

	// Full is the code driven during impulse blinks (battery check,
	// patterns); the brightest the hardware can do.
	Full ModeValue

	// Turbo is the maximum-brightness code subject to the turbo
	// timeout. Zero means no turbo handling.
	Turbo ModeValue
}

// GroupCount returns the number of groups.
func (t *Table) GroupCount() int { return len(t.Groups) }

// Width returns the number of slots per group.
func (t *Table) Width() int {
	if len(t.Groups) == 0 {
		return 0
	}
	return len(t.Groups[0])
}

// Validate checks the table against the 16×16 bounds and the sentinel
// convention.
func (t *Table) Validate() error {
	if len(t.Groups) == 0 || len(t.Groups) > MaxGroups {
		return &errcode.E{C: errcode.InvalidTable, Op: "validate", Msg: "group count out of range"}
	}
	w := t.Width()
	if w == 0 || w > MaxModes {
		return &errcode.E{C: errcode.InvalidTable, Op: "validate", Msg: "mode count out of range"}
	}
	for gi, g := range t.Groups {
		if len(g) != w {
			return &errcode.E{C: errcode.InvalidTable, Op: "validate", Msg: "ragged group widths"}
		}
		if g[0] == 0 {
			return &errcode.E{C: errcode.InvalidTable, Op: "validate",
				Msg: "group " + strconv.Itoa(gi) + " has an empty first slot"}
		}
	}
	return nil
}

// Reduce maps stored indices into valid range. Any byte, however stale or
// corrupted in its upper bits, decodes to a usable pair.
func (t *Table) Reduce(g, m uint8) (uint8, uint8) {
	return g % uint8(t.GroupCount()), m % uint8(t.Width())
}

// Value returns the raw code at (g, m). Indices are reduced first.
func (t *Table) Value(g, m uint8) ModeValue {
	g, m = t.Reduce(g, m)
	return t.Groups[g][m]
}

// EffectiveLen returns the usable mode count of a group: the index of the
// first zero slot, or the full width if none.
func (t *Table) EffectiveLen(g uint8) int {
	g, _ = t.Reduce(g, 0)
	for i, v := range t.Groups[g] {
		if v == 0 {
			return i
		}
	}
	return t.Width()
}

// Next returns the mode after m in group g, wrapping at the group's
// effective length.
func (t *Table) Next(g, m uint8) uint8 {
	g, m = t.Reduce(g, m)
	n := (m + 1) % uint8(t.Width())
	if t.Groups[g][n] == 0 {
		n = 0
	}
	return n
}

// NextGroup returns the group after g, with wrap.
func (t *Table) NextGroup(g uint8) uint8 {
	g, _ = t.Reduce(g, 0)
	return (g + 1) % uint8(t.GroupCount())
}

// Pattern classifies a raw code as a decorative pattern, if it is one.
func (t *Table) Pattern(v ModeValue) (Pattern, bool) {
	switch {
	case v != 0 && v == t.Special.Strobe:
		return PatternStrobe, true
	case v != 0 && v == t.Special.Police:
		return PatternPolice, true
	case v != 0 && v == t.Special.SOS:
		return PatternSOS, true
	}
	return PatternNone, false
}
