package dsl

import "github.com/aretw0/checkmark/pkg/schema"

// ValueBuilder provides a fluent API for configuring an auto-track value.
type ValueBuilder struct {
	spec schema.ValueSpec
}

func (v *ValueBuilder) set(kind string, args map[string]any) *ValueBuilder {
	v.spec.Type = kind
	v.spec.Args = args
	return v
}

// AddressBool is 1 when the reading at addr compares true against operand.
func (v *ValueBuilder) AddressBool(addr int, compare string, operand int) *ValueBuilder {
	return v.set("address_bool", map[string]any{"address": addr, "compare": compare, "value": operand})
}

// AddressValue is the reading at addr minus adjustment, capped at max.
func (v *ValueBuilder) AddressValue(addr, adjustment, max int) *ValueBuilder {
	return v.set("address_value", map[string]any{"address": addr, "adjustment": adjustment, "max": max})
}

// BitwiseInteger extracts (reading & mask) >> shift.
func (v *ValueBuilder) BitwiseInteger(addr, mask int, shift uint) *ValueBuilder {
	return v.set("bitwise_integer", map[string]any{"address": addr, "mask": mask, "shift": shift})
}

// FlagBool is multiplier when flag is set in the reading, else 0.
func (v *ValueBuilder) FlagBool(addr, flag, multiplier int) *ValueBuilder {
	return v.set("flag_bool", map[string]any{"address": addr, "flag": flag, "multiplier": multiplier})
}

// Sum adds the children.
func (v *ValueBuilder) Sum(children ...string) *ValueBuilder {
	return v.set("sum", map[string]any{"children": children})
}

// Override is the first present child.
func (v *ValueBuilder) Override(children ...string) *ValueBuilder {
	return v.set("override", map[string]any{"children": children})
}

// Difference is a minus b.
func (v *ValueBuilder) Difference(a, b string) *ValueBuilder {
	return v.set("difference", map[string]any{"a": a, "b": b})
}

// Conditional is a while the requirement is reachable, else b.
func (v *ValueBuilder) Conditional(requirement, a, b string) *ValueBuilder {
	return v.set("conditional", map[string]any{"requirement": requirement, "a": a, "b": b})
}

// Static is a constant.
func (v *ValueBuilder) Static(n int) *ValueBuilder {
	return v.set("static", map[string]any{"constant": n})
}

// Spec returns the underlying schema.ValueSpec.
func (v *ValueBuilder) Spec() schema.ValueSpec {
	return v.spec
}
