package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MarkKind is a player-set hint annotation on a Section.
// The empty MarkKind means no marking has been set.
type MarkKind string

const (
	MarkUnknown   MarkKind = ""
	MarkInspected MarkKind = "inspected"
)

// SectionKind selects how a Section derives its Accessible count and Accessibility.
type SectionKind string

const (
	KindItem     SectionKind = "item"
	KindDungeon  SectionKind = "dungeon"
	KindBoss     SectionKind = "boss"
	KindPrize    SectionKind = "prize"
	KindEntrance SectionKind = "entrance"
	KindDropdown SectionKind = "dropdown"
	KindShop     SectionKind = "shop"
	KindTakeAny  SectionKind = "take_any"
)

// SectionKinds lists every supported kind.
var SectionKinds = []SectionKind{
	KindItem, KindDungeon, KindBoss, KindPrize, KindEntrance, KindDropdown, KindShop, KindTakeAny,
}

// Valid reports whether k names a supported kind.
func (k SectionKind) Valid() bool {
	for _, known := range SectionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Singleton reports whether sections of this kind always have a Total of 1.
func (k SectionKind) Singleton() bool {
	switch k {
	case KindItem, KindDungeon:
		return false
	default:
		return true
	}
}

// Visible reports whether the kind supports a secondary "visible from" node.
func (k SectionKind) Visible() bool {
	switch k {
	case KindEntrance, KindDropdown, KindShop, KindTakeAny:
		return true
	default:
		return false
	}
}

// MarkableByDefault reports whether the first click on an inspectable section
// of this kind marks it instead of collecting it.
func (k SectionKind) MarkableByDefault() bool {
	return k == KindItem || k.Visible()
}

// SectionState is the persisted part of a Section.
// Everything else about a section is re-derived from the live graph.
type SectionState struct {
	Available       int      `json:"available" yaml:"available"`
	UserManipulated bool     `json:"user_manipulated,omitempty" yaml:"user_manipulated,omitempty"`
	Marking         MarkKind `json:"marking,omitempty" yaml:"marking,omitempty"`
}

// SectionRef addresses a section by its location id and index inside the location.
type SectionRef struct {
	Location string `json:"location"`
	Index    int    `json:"index"`
}

func (r SectionRef) String() string {
	return r.Location + "/" + strconv.Itoa(r.Index)
}

// ParseSectionRef parses the "location/index" form produced by SectionRef.String.
func ParseSectionRef(s string) (SectionRef, error) {
	i := strings.LastIndex(s, "/")
	if i <= 0 || i == len(s)-1 {
		return SectionRef{}, fmt.Errorf("invalid section reference %q", s)
	}
	idx, err := strconv.Atoi(s[i+1:])
	if err != nil || idx < 0 {
		return SectionRef{}, fmt.Errorf("invalid section index in %q", s)
	}
	return SectionRef{Location: s[:i], Index: idx}, nil
}
