package casefile

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/referee/packages/matcher"
	"github.com/xeipuuv/gojsonschema"
)

// DecodeMatcher converts a decoded matcher document into a value accepted by
// matcher.From. Operator objects become matchers; other maps and lists are
// decoded recursively. A bare null is returned as nil and so stays invalid.
func DecodeMatcher(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		if op, arg, ok := operator(val); ok {
			return decodeOperator(op, arg)
		}
		out := make(map[string]any, len(val))
		for k, sub := range val {
			decoded, err := DecodeMatcher(sub)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = decoded
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, sub := range val {
			decoded, err := DecodeMatcher(sub)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = decoded
		}
		return out, nil
	}
	return v, nil
}

func operator(m map[string]any) (string, any, bool) {
	if len(m) != 1 {
		return "", nil, false
	}
	for k, v := range m {
		if strings.HasPrefix(k, "$") {
			return k, v, true
		}
	}
	return "", nil, false
}

func decodeOperator(op string, arg any) (any, error) {
	switch op {
	case "$regex":
		expr, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("$regex expects a string, got %T", arg)
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern: %v", err)
		}
		return matcher.Regex(re), nil
	case "$glob":
		pattern, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("$glob expects a string, got %T", arg)
		}
		return matcher.Glob(pattern), nil
	case "$type":
		name, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("$type expects a string, got %T", arg)
		}
		if !validTypeNames[name] {
			return nil, fmt.Errorf("unknown type %q, expected one of %s", name, strings.Join(typeNames(), ", "))
		}
		return matcher.Func(func(actual any) bool {
			return TypeName(actual) == name
		}), nil
	case "$schema":
		return schemaMatcher(arg)
	case "$null":
		return matcher.Null(), nil
	}
	return nil, fmt.Errorf("unknown operator %s", op)
}

var validTypeNames = map[string]bool{
	"null":    true,
	"boolean": true,
	"number":  true,
	"string":  true,
	"array":   true,
	"object":  true,
}

func typeNames() []string {
	names := make([]string, 0, len(validTypeNames))
	for n := range validTypeNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TypeName returns the JSON type name of a decoded value.
func TypeName(actual any) string {
	switch actual.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, uint64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	switch reflect.ValueOf(actual).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return reflect.TypeOf(actual).String()
}

func schemaMatcher(arg any) (any, error) {
	var loader gojsonschema.JSONLoader
	switch s := arg.(type) {
	case map[string]any:
		loader = gojsonschema.NewGoLoader(s)
	case string:
		loader = gojsonschema.NewStringLoader(s)
	default:
		return nil, fmt.Errorf("$schema expects an object or a JSON string, got %T", arg)
	}

	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return matcher.Predicate(func(actual any) (bool, error) {
		result, err := schema.Validate(gojsonschema.NewGoLoader(actual))
		if err != nil {
			return false, fmt.Errorf("schema validation error: %w", err)
		}
		return result.Valid(), nil
	}), nil
}
