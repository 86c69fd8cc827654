package dsl

import (
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/schema"
)

// LocationBuilder provides a fluent API for configuring a location.
type LocationBuilder struct {
	spec     schema.LocationSpec
	sections []*SectionBuilder
}

// Section appends a section. Its index is its position in the location.
func (l *LocationBuilder) Section(kind domain.SectionKind, name string) *SectionBuilder {
	sb := &SectionBuilder{spec: schema.SectionSpec{Kind: string(kind), Name: name}}
	if !kind.Singleton() {
		sb.spec.Total = 1
	}
	l.sections = append(l.sections, sb)
	return sb
}

// SectionBuilder provides a fluent API for configuring a section.
type SectionBuilder struct {
	spec schema.SectionSpec
}

// Total sets the number of items of an item or dungeon section.
func (s *SectionBuilder) Total(n int) *SectionBuilder {
	s.spec.Total = n
	return s
}

// At places the section on a node.
func (s *SectionBuilder) At(node string) *SectionBuilder {
	s.spec.Node = node
	return s
}

// Requires gates the section behind a requirement.
func (s *SectionBuilder) Requires(requirement string) *SectionBuilder {
	s.spec.Requirement = requirement
	return s
}

// VisibleFrom lets the section be inspected from another node.
func (s *SectionBuilder) VisibleFrom(node string) *SectionBuilder {
	s.spec.Visible = node
	return s
}

// Pool feeds a dungeon section from a pool.
func (s *SectionBuilder) Pool(pool string) *SectionBuilder {
	s.spec.Pool = pool
	return s
}

// Value auto-tracks the section from a value reporting how many items were obtained.
func (s *SectionBuilder) Value(value string) *SectionBuilder {
	s.spec.Value = value
	return s
}

// Placement binds a boss or prize section to its slot.
func (s *SectionBuilder) Placement(placement string) *SectionBuilder {
	s.spec.Placement = placement
	return s
}

// ExitTo opens node while an entrance section is collected.
func (s *SectionBuilder) ExitTo(node string) *SectionBuilder {
	s.spec.ExitNode = node
	return s
}

// Markable overrides whether the first click at Inspect marks instead of collecting.
func (s *SectionBuilder) Markable(v bool) *SectionBuilder {
	s.spec.Markable = &v
	return s
}

// Spec returns the underlying schema.SectionSpec.
func (s *SectionBuilder) Spec() schema.SectionSpec {
	return s.spec
}
