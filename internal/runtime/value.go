package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/checkmark/pkg/domain"
)

// ValueKind selects how an auto-track value is computed.
type ValueKind string

const (
	ValueAddressBool    ValueKind = "address_bool"
	ValueAddressValue   ValueKind = "address_value"
	ValueBitwiseInteger ValueKind = "bitwise_integer"
	ValueFlagBool       ValueKind = "flag_bool"
	ValueSum            ValueKind = "sum"
	ValueOverride       ValueKind = "override"
	ValueDifference     ValueKind = "difference"
	ValueConditional    ValueKind = "conditional"
	ValueStatic         ValueKind = "static"
)

// Comparison operators accepted by address_bool.
const (
	CompareEq = "eq"
	CompareNe = "ne"
	CompareGt = "gt"
	CompareGe = "ge"
	CompareLt = "lt"
	CompareLe = "le"
)

// ValueDef describes an auto-track value. Children must be registered before their parent.
type ValueDef struct {
	Kind    ValueKind
	Address int

	Compare string
	Operand int

	Adjustment int
	Max        int
	HasMax     bool

	Mask  int
	Shift uint

	Flag       int
	Multiplier int

	Constant int

	// Children are summed, overridden in order, or used as a/b by difference and conditional.
	Children    []ValueID
	Requirement ReqID
}

// AddressBool is 1 when the raw value at addr compares true against operand, else 0.
func AddressBool(addr int, compare string, operand int) ValueDef {
	return ValueDef{Kind: ValueAddressBool, Address: addr, Compare: compare, Operand: operand}
}

// AddressValue is the raw value at addr minus adjustment, capped at max.
func AddressValue(addr, adjustment, max int) ValueDef {
	return ValueDef{Kind: ValueAddressValue, Address: addr, Adjustment: adjustment, Max: max, HasMax: true}
}

// BitwiseInteger is (raw & mask) >> shift.
func BitwiseInteger(addr, mask int, shift uint) ValueDef {
	return ValueDef{Kind: ValueBitwiseInteger, Address: addr, Mask: mask, Shift: shift}
}

// FlagBool is multiplier when raw & flag is non-zero, else 0.
func FlagBool(addr, flag, multiplier int) ValueDef {
	return ValueDef{Kind: ValueFlagBool, Address: addr, Flag: flag, Multiplier: multiplier}
}

// Sum adds its children. It has no value while any child has none.
func Sum(children ...ValueID) ValueDef {
	return ValueDef{Kind: ValueSum, Children: children}
}

// Override takes the first child that has a value.
func Override(children ...ValueID) ValueDef {
	return ValueDef{Kind: ValueOverride, Children: children}
}

// Difference is a minus b.
func Difference(a, b ValueID) ValueDef {
	return ValueDef{Kind: ValueDifference, Children: []ValueID{a, b}}
}

// Conditional is a while the requirement is met (at least SequenceBreak), else b.
func Conditional(req ReqID, a, b ValueID) ValueDef {
	return ValueDef{Kind: ValueConditional, Requirement: req, Children: []ValueID{a, b}}
}

// StaticValue is a constant.
func StaticValue(n int) ValueDef {
	return ValueDef{Kind: ValueStatic, Constant: n}
}

type value struct {
	name    string
	def     ValueDef
	current int
	present bool

	dependents []ValueID
	sections   []SectionID
}

// AddValue registers an auto-track value and returns its id.
func (e *Engine) AddValue(name string, def ValueDef) (ValueID, error) {
	if err := e.checkBuilding(); err != nil {
		return NoValue, err
	}
	if name != "" {
		if _, dup := e.valueNames[name]; dup {
			return NoValue, fmt.Errorf("%w: duplicate value %q", domain.ErrConfiguration, name)
		}
	}
	id := ValueID(len(e.values) + 1)
	switch def.Kind {
	case ValueAddressBool:
		switch def.Compare {
		case "":
			def.Compare = CompareEq
		case CompareEq, CompareNe, CompareGt, CompareGe, CompareLt, CompareLe:
		default:
			return NoValue, fmt.Errorf("%w: value %q: unknown comparison %q", domain.ErrConfiguration, name, def.Compare)
		}
	case ValueAddressValue, ValueBitwiseInteger, ValueStatic:
	case ValueFlagBool:
		if def.Multiplier == 0 {
			def.Multiplier = 1
		}
	case ValueSum, ValueOverride:
		if len(def.Children) == 0 {
			return NoValue, fmt.Errorf("%w: value %q: %s needs children", domain.ErrConfiguration, name, def.Kind)
		}
	case ValueDifference:
		if len(def.Children) != 2 {
			return NoValue, fmt.Errorf("%w: value %q: difference takes exactly two children", domain.ErrConfiguration, name)
		}
	case ValueConditional:
		if len(def.Children) != 2 {
			return NoValue, fmt.Errorf("%w: value %q: conditional takes exactly two children", domain.ErrConfiguration, name)
		}
		if !e.validReq(def.Requirement) {
			return NoValue, fmt.Errorf("%w: value %q: conditional references unknown requirement", domain.ErrConfiguration, name)
		}
	default:
		return NoValue, fmt.Errorf("%w: value %q: unknown kind %q", domain.ErrConfiguration, name, def.Kind)
	}
	for _, child := range def.Children {
		if child <= NoValue || child >= id {
			return NoValue, fmt.Errorf("%w: value %q references unregistered child %d", domain.ErrConfiguration, name, child)
		}
	}

	def.Children = slices.Clone(def.Children)
	e.values = append(e.values, &value{name: name, def: def})
	e.dirtyValues.grow()
	if name != "" {
		e.valueNames[name] = id
	}
	for _, child := range def.Children {
		c := e.value(child)
		c.dependents = append(c.dependents, id)
	}
	if def.usesAddress() {
		e.addressObservers[def.Address] = append(e.addressObservers[def.Address], id)
	}
	if def.Kind == ValueConditional {
		r := e.req(def.Requirement)
		r.values = append(r.values, id)
	}
	return id, nil
}

func (d ValueDef) usesAddress() bool {
	switch d.Kind {
	case ValueAddressBool, ValueAddressValue, ValueBitwiseInteger, ValueFlagBool:
		return true
	}
	return false
}

// ValueByName resolves a value id.
func (e *Engine) ValueByName(name string) (ValueID, bool) {
	id, ok := e.valueNames[name]
	return id, ok
}

// Value returns the current auto-track value and whether it has one.
func (e *Engine) Value(id ValueID) (int, bool) {
	if id == NoValue {
		return 0, false
	}
	v := e.value(id)
	return v.current, v.present
}

func (e *Engine) value(id ValueID) *value {
	return e.values[id-1]
}

func (e *Engine) evalValue(v *value) (int, bool) {
	d := v.def
	switch d.Kind {
	case ValueAddressBool:
		raw, ok := e.memory[d.Address]
		if !ok {
			return 0, false
		}
		if compare(raw, d.Compare, d.Operand) {
			return 1, true
		}
		return 0, true
	case ValueAddressValue:
		raw, ok := e.memory[d.Address]
		if !ok {
			return 0, false
		}
		n := raw - d.Adjustment
		if d.HasMax && n > d.Max {
			n = d.Max
		}
		return n, true
	case ValueBitwiseInteger:
		raw, ok := e.memory[d.Address]
		if !ok {
			return 0, false
		}
		return (raw & d.Mask) >> d.Shift, true
	case ValueFlagBool:
		raw, ok := e.memory[d.Address]
		if !ok {
			return 0, false
		}
		if raw&d.Flag != 0 {
			return d.Multiplier, true
		}
		return 0, true
	case ValueSum:
		total := 0
		for _, child := range d.Children {
			c := e.value(child)
			if !c.present {
				return 0, false
			}
			total += c.current
		}
		return total, true
	case ValueOverride:
		for _, child := range d.Children {
			if c := e.value(child); c.present {
				return c.current, true
			}
		}
		return 0, false
	case ValueDifference:
		a, b := e.value(d.Children[0]), e.value(d.Children[1])
		if !a.present || !b.present {
			return 0, false
		}
		return a.current - b.current, true
	case ValueConditional:
		pick := e.value(d.Children[1])
		if e.RequirementLevel(d.Requirement).Reachable() {
			pick = e.value(d.Children[0])
		}
		return pick.current, pick.present
	case ValueStatic:
		return d.Constant, true
	}
	return 0, false
}

func compare(raw int, op string, operand int) bool {
	switch op {
	case CompareNe:
		return raw != operand
	case CompareGt:
		return raw > operand
	case CompareGe:
		return raw >= operand
	case CompareLt:
		return raw < operand
	case CompareLe:
		return raw <= operand
	default:
		return raw == operand
	}
}

// settleValues recomputes dirty values in index order and flags owning sections for reconciliation.
func (e *Engine) settleValues() {
	if e.dirtyValues.empty() {
		return
	}
	for i, v := range e.values {
		if !e.dirtyValues.take(i) {
			continue
		}
		n, ok := e.evalValue(v)
		if !ok {
			n = 0
		}
		if n == v.current && ok == v.present {
			continue
		}
		v.current, v.present = n, ok
		for _, dep := range v.dependents {
			e.dirtyValues.mark(int(dep) - 1)
		}
		for _, s := range v.sections {
			sec := e.section(s)
			sec.valueDirty = true
			e.markSection(sec)
		}
	}
}
