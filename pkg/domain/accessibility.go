package domain

import (
	"fmt"
	"strings"
)

// AccessibilityLevel is the confidence tier that a location or node is currently reachable.
// The zero value is None.
type AccessibilityLevel uint8

const (
	// None means the target cannot be reached or seen.
	None AccessibilityLevel = iota
	// Inspect means the target can be looked at (its contents identified) but not collected.
	Inspect
	// Partial means some, but not all, of the target can be collected.
	Partial
	// SequenceBreak means the target is reachable only by relying on a known glitch or trick.
	SequenceBreak
	// Normal means the target is reachable with intended logic.
	Normal
)

var levelNames = [...]string{
	None:          "none",
	Inspect:       "inspect",
	Partial:       "partial",
	SequenceBreak: "sequence_break",
	Normal:        "normal",
}

// Levels lists every level in ascending order.
var Levels = []AccessibilityLevel{None, Inspect, Partial, SequenceBreak, Normal}

// Meet returns the minimum of the given levels ("all of these must hold").
// Meet of no levels is Normal, its identity.
func Meet(levels ...AccessibilityLevel) AccessibilityLevel {
	result := Normal
	for _, l := range levels {
		if l < result {
			result = l
		}
		if result == None {
			break
		}
	}
	return result
}

// Join returns the maximum of the given levels ("any of these paths suffices").
// Join of no levels is None, its identity.
func Join(levels ...AccessibilityLevel) AccessibilityLevel {
	result := None
	for _, l := range levels {
		if l > result {
			result = l
		}
		if result == Normal {
			break
		}
	}
	return result
}

// Reachable reports whether the level is at least SequenceBreak.
func (l AccessibilityLevel) Reachable() bool {
	return l >= SequenceBreak
}

// Valid reports whether l is one of the five defined levels.
func (l AccessibilityLevel) Valid() bool {
	return l <= Normal
}

func (l AccessibilityLevel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("AccessibilityLevel(%d)", uint8(l))
	}
	return levelNames[l]
}

// ParseAccessibilityLevel converts a level name (case-insensitive, "-" and "_" interchangeable)
// into an AccessibilityLevel.
func ParseAccessibilityLevel(s string) (AccessibilityLevel, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if name == "sequencebreak" {
		name = "sequence_break"
	}
	for i, n := range levelNames {
		if n == name {
			return AccessibilityLevel(i), nil
		}
	}
	return None, fmt.Errorf("unknown accessibility level %q", s)
}

// MarshalText encodes the level by name.
func (l AccessibilityLevel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid accessibility level %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *AccessibilityLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseAccessibilityLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
