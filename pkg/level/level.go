// Package level defines the severity enumeration shared by every other
// dynalog package. It has no dependencies so that message, dynalog, sink,
// policy, and dispatch can all import it without risking a cycle.
package level

import "fmt"

// Level is a log severity. The ordering is stable and numeric: lower
// values are more severe.
type Level uint8

const (
	Critical Level = iota
	Error
	Warning
	Info
	Verbose

	numLevels = int(Verbose) + 1
)

// String returns the uppercase name of the level, or a diagnostic
// placeholder for an out-of-range value.
func (l Level) String() string {
	switch l {
	case Critical:
		return "CRITICAL"
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	case Verbose:
		return "VERBOSE"
	default:
		return fmt.Sprintf("<invalid Level(%d)>", uint8(l))
	}
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return int(l) < numLevels
}

// Mask is a bit-set over the level enumeration. Bit i corresponds to
// Level(i); a site is permitted to emit at a level iff the matching bit
// is set.
type Mask uint8

// All is the mask with every defined level enabled — the initial mask of
// a newly constructed, not-yet-configured call site.
const All Mask = Mask(1<<numLevels) - 1

// None disables every level.
const None Mask = 0

// MaskFor builds a mask containing exactly the given levels.
func MaskFor(levels ...Level) Mask {
	var m Mask
	for _, l := range levels {
		m = m.With(l)
	}
	return m
}

// AtOrAbove builds a mask containing every level at or above the given
// severity (i.e. Level values <= l, since lower numbers are more severe).
func AtOrAbove(l Level) Mask {
	var m Mask
	for i := Level(0); i <= l && int(i) < numLevels; i++ {
		m = m.With(i)
	}
	return m
}

// Has reports whether the mask permits the given level.
func (m Mask) Has(l Level) bool {
	if !l.Valid() {
		return false
	}
	return m&(1<<l) != 0
}

// With returns a copy of the mask with l enabled.
func (m Mask) With(l Level) Mask {
	if !l.Valid() {
		return m
	}
	return m | (1 << l)
}

// Without returns a copy of the mask with l disabled.
func (m Mask) Without(l Level) Mask {
	if !l.Valid() {
		return m
	}
	return m &^ (1 << l)
}
