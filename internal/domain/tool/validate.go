package tool

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Validate checks arguments against the descriptor's parameter specs and
// returns the validated set in declared parameter order.
//
// For each ParameterSpec, in order:
//  1. present → runtime kind must match (TypeMismatchError)
//  2. absent + required → MissingParameterError
//  3. absent + optional → declared default, or omitted entirely
//
// Any input key not declared by the descriptor fails with
// UnknownParameterError, so typos never reach the remote API.
func Validate(desc *Descriptor, arguments map[string]any) (Args, error) {
	args := newArgs(len(desc.Params))

	declared := make(map[string]struct{}, len(desc.Params))
	for _, spec := range desc.Params {
		declared[spec.Name] = struct{}{}

		raw, present := arguments[spec.Name]
		if !present {
			if spec.Required {
				return Args{}, &MissingParameterError{Parameter: spec.Name}
			}
			if spec.Default != nil {
				value, _, ok := coerce(spec.Default, spec.Kind)
				if !ok {
					return Args{}, fmt.Errorf("tool %q: default for %q is not a %s", desc.Name, spec.Name, spec.Kind)
				}
				args.set(spec.Name, value)
			}
			continue
		}

		value, actual, ok := coerce(raw, spec.Kind)
		if !ok {
			return Args{}, &TypeMismatchError{Parameter: spec.Name, Expected: spec.Kind, Actual: actual}
		}
		args.set(spec.Name, value)
	}

	// Sorted so the reported key is deterministic when several are unknown.
	extra := make([]string, 0)
	for key := range arguments {
		if _, ok := declared[key]; !ok {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return Args{}, &UnknownParameterError{Key: extra[0]}
	}

	return args, nil
}

// coerce checks that value matches kind and normalizes it (integers to
// int64). Returns the runtime type name on mismatch. JSON numbers arrive as
// float64; an Integer parameter accepts one only if it is integral — there is
// no implicit coercion from strings or fractional numbers.
func coerce(value any, kind Kind) (normalized any, actual string, ok bool) {
	switch kind {
	case KindString:
		if s, isStr := value.(string); isStr {
			return s, "", true
		}
	case KindInteger:
		switch n := value.(type) {
		case int:
			return int64(n), "", true
		case int64:
			return n, "", true
		case float64:
			if n == math.Trunc(n) {
				return int64(n), "", true
			}
			return nil, "number", false
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, "", true
			}
			return nil, "number", false
		}
	case KindBoolean:
		if b, isBool := value.(bool); isBool {
			return b, "", true
		}
	case KindObject:
		if m, isMap := value.(map[string]any); isMap {
			return m, "", true
		}
	case KindArray:
		if a, isArr := value.([]any); isArr {
			return a, "", true
		}
	}
	return nil, typeName(value), false
}

// typeName names a runtime value the way a JSON schema would.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", value)
	}
}
