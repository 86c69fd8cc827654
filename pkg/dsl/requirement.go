package dsl

import (
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/schema"
)

// RequirementBuilder provides a fluent API for configuring a requirement.
// Each kind setter replaces the arguments of the previous one.
type RequirementBuilder struct {
	spec schema.RequirementSpec
}

func (r *RequirementBuilder) set(kind string, args map[string]any) *RequirementBuilder {
	r.spec.Type = kind
	r.spec.Args = args
	return r
}

// Static makes the requirement a constant level.
func (r *RequirementBuilder) Static(level domain.AccessibilityLevel) *RequirementBuilder {
	return r.set("static", map[string]any{"level": level.String()})
}

// Item requires at least min of an item.
func (r *RequirementBuilder) Item(item string, min int) *RequirementBuilder {
	return r.set("item", map[string]any{"item": item, "min": min})
}

// Mode requires the mode key to hold one of values.
func (r *RequirementBuilder) Mode(key string, values ...string) *RequirementBuilder {
	return r.set("mode", map[string]any{"key": key, "values": values})
}

// SequenceBreak is SequenceBreak while the named break is enabled.
func (r *RequirementBuilder) SequenceBreak(name string) *RequirementBuilder {
	return r.set("sequence_break", map[string]any{"name": name})
}

// All is the Meet of the children.
func (r *RequirementBuilder) All(children ...string) *RequirementBuilder {
	return r.set("all", map[string]any{"children": children})
}

// Any is the Join of the children.
func (r *RequirementBuilder) Any(children ...string) *RequirementBuilder {
	return r.set("any", map[string]any{"children": children})
}

// Cap limits a child requirement to level.
func (r *RequirementBuilder) Cap(child string, level domain.AccessibilityLevel) *RequirementBuilder {
	return r.set("cap", map[string]any{"child": child, "level": level.String()})
}

// Grants changes the level a satisfied item or mode requirement yields.
func (r *RequirementBuilder) Grants(level domain.AccessibilityLevel) *RequirementBuilder {
	r.spec.Args["level"] = level.String()
	return r
}

// Spec returns the underlying schema.RequirementSpec.
func (r *RequirementBuilder) Spec() schema.RequirementSpec {
	return r.spec
}
