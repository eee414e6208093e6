// Package ctyconv converts between cty values and plain Go values for the
// output surfaces (reports, snapshots, progress events, CLI flags).
package ctyconv

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ToInterface recursively converts a cty.Value to its most natural Go
// counterpart. Numbers become float64; null and unknown values become nil.
func ToInterface(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			native, err := ToInterface(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			native, err := ToInterface(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = native
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported cty type for conversion: %s", ty.FriendlyName())
	}
}

// FromInterface converts a decoded Go value (as produced by JSON, YAML or
// msgpack decoders) back into a cty.Value.
func FromInterface(data any) (cty.Value, error) {
	switch v := data.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case float32:
		return cty.NumberFloatVal(float64(v)), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int8:
		return cty.NumberIntVal(int64(v)), nil
	case int16:
		return cty.NumberIntVal(int64(v)), nil
	case int32:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint8:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint16:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint32:
		return cty.NumberUIntVal(uint64(v)), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(v))
		for key, elem := range v {
			val, err := FromInterface(elem)
			if err != nil {
				return cty.NilVal, fmt.Errorf("in attribute '%s': %w", key, err)
			}
			attrs[key] = val
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		elems := make([]cty.Value, 0, len(v))
		for _, elem := range v {
			val, err := FromInterface(elem)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, val)
		}
		return cty.TupleVal(elems), nil
	default:
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("unsupported type for conversion to cty.Value: %T", v)
		}
		return gocty.ToCtyValue(v, ty)
	}
}

// ParseLiteral interprets a command-line literal: a number, true or false,
// or otherwise a string.
func ParseLiteral(raw string) cty.Value {
	s := strings.TrimSpace(raw)
	if n, err := cty.ParseNumberVal(s); err == nil {
		return n
	}
	switch s {
	case "true":
		return cty.True
	case "false":
		return cty.False
	}
	return cty.StringVal(raw)
}

// Format renders a value for human-readable output.
func Format(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	if !v.IsKnown() {
		return "(unknown)"
	}
	if v.Type() == cty.Number {
		return v.AsBigFloat().Text('g', -1)
	}
	native, err := ToInterface(v)
	if err != nil {
		return v.GoString()
	}
	return fmt.Sprint(native)
}
