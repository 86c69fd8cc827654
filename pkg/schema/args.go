package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// DecodeRequirementArgs decodes the variant arguments of a requirement.
func DecodeRequirementArgs(spec RequirementSpec) (RequirementArgs, error) {
	var out RequirementArgs
	err := decodeArgs(spec.Args, &out)
	return out, err
}

// DecodeValueArgs decodes the variant arguments of an auto-track value.
func DecodeValueArgs(spec ValueSpec) (ValueArgs, error) {
	var out ValueArgs
	err := decodeArgs(spec.Args, &out)
	return out, err
}

// Refs lists the requirements a requirement depends on.
func (a RequirementArgs) Refs() []string {
	refs := append([]string(nil), a.Children...)
	if a.Child != "" {
		refs = append(refs, a.Child)
	}
	return refs
}

// Refs lists the values a value depends on, in operand order.
func (a ValueArgs) Refs() []string {
	refs := append([]string(nil), a.Children...)
	if a.A != "" {
		refs = append(refs, a.A)
	}
	if a.B != "" {
		refs = append(refs, a.B)
	}
	return refs
}

func decodeArgs(args map[string]any, out any) error {
	if len(args) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			hexStringToIntHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid args: %w", err)
	}
	return nil
}

// hexStringToIntHook accepts "0x"-prefixed strings for integer fields, as
// memory addresses and masks are usually written in hexadecimal.
func hexStringToIntHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint64:
	default:
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") && !strings.HasPrefix(s, "0b") {
		return data, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return n, nil
}
