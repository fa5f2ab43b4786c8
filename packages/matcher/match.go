package matcher

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
)

// Match reports whether actual satisfies m. An error is returned for an
// invalid matcher or when a predicate fails.
func (m Matcher) Match(actual any) (bool, error) {
	actual = Normalize(actual)

	switch m.kind {
	case KindLiteral:
		return matchLiteral(actual, m.value), nil
	case KindRegex:
		s, ok := stringForm(actual)
		return ok && m.re.MatchString(s), nil
	case KindPredicate:
		ok, err := m.pred(actual)
		if err != nil {
			return false, fmt.Errorf("predicate: %w", err)
		}
		return ok, nil
	case KindPattern:
		return m.matchPattern(actual)
	case KindList:
		return m.matchList(actual)
	case KindGlob:
		s, ok := stringForm(actual)
		return ok && match.Match(s, m.glob), nil
	case KindTime:
		t, ok := asTime(actual)
		return ok && t.Equal(m.t), nil
	case KindNull:
		return isNil(actual), nil
	default:
		return false, fmt.Errorf("%w: zero matcher", ErrInvalidMatcher)
	}
}

func matchLiteral(actual, expected any) bool {
	switch want := expected.(type) {
	case string:
		if s, ok := actual.(string); ok {
			return strings.Contains(strings.ToLower(s), strings.ToLower(want))
		}
		if isFalsy(actual) {
			return false
		}
		s, ok := stringForm(actual)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(want))
	case float64:
		got, ok := toFloat64(actual)
		return ok && got == want
	case bool:
		got, ok := actual.(bool)
		if !ok {
			rv := reflect.ValueOf(actual)
			if rv.Kind() != reflect.Bool {
				return false
			}
			got = rv.Bool()
		}
		return got == want
	}
	return false
}

func (m Matcher) matchPattern(actual any) (bool, error) {
	if !IsObject(actual) {
		return false, nil
	}
	for key, sub := range m.fields {
		value, ok := Lookup(actual, key)
		if sub.kind == KindNull {
			if ok && !isNil(value) {
				return false, nil
			}
			continue
		}
		if !ok {
			return false, nil
		}
		matched, err := sub.Match(value)
		if err != nil {
			return false, fmt.Errorf("key %q: %w", key, err)
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

func (m Matcher) matchList(actual any) (bool, error) {
	rv := reflect.ValueOf(actual)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false, nil
	}
	n := rv.Len()
	if len(m.items) == 0 {
		return true, nil
	}
	for start := 0; start+len(m.items) <= n; start++ {
		all := true
		for i, item := range m.items {
			matched, err := item.Match(rv.Index(start + i).Interface())
			if err != nil {
				return false, fmt.Errorf("index %d: %w", start+i, err)
			}
			if !matched {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

// Normalize unwraps JSON encoded actual values so they can be matched like
// decoded documents. Other values are returned unchanged.
func Normalize(actual any) any {
	switch v := actual.(type) {
	case gjson.Result:
		if !v.Exists() {
			return nil
		}
		return v.Value()
	case *gjson.Result:
		if v == nil {
			return nil
		}
		return Normalize(*v)
	case json.RawMessage:
		if gjson.ValidBytes(v) {
			return gjson.ParseBytes(v).Value()
		}
		return string(v)
	}
	return actual
}

// IsObject reports whether actual can be matched against a pattern by key.
func IsObject(actual any) bool {
	rv := indirect(reflect.ValueOf(Normalize(actual)))
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		_, isTime := rv.Interface().(time.Time)
		return !isTime
	}
	return false
}

// Lookup returns the value stored under key on a map with string keys or a
// struct. Struct fields are found by their json tag name or Go name.
func Lookup(actual any, key string) (any, bool) {
	rv := indirect(reflect.ValueOf(Normalize(actual)))
	if !rv.IsValid() {
		return nil, false
	}
	switch rv.Kind() {
	case reflect.Map:
		kt := rv.Type().Key()
		if kt.Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(kt))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		fv, ok := structFields(rv)[key]
		if !ok {
			return nil, false
		}
		return fv.Interface(), true
	}
	return nil, false
}

// structFields returns the exported fields of a struct keyed by json name,
// falling back to the Go field name.
func structFields(rv reflect.Value) map[string]reflect.Value {
	fields := make(map[string]reflect.Value)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fields[name] = rv.Field(i)
	}
	return fields
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// isFalsy mirrors the values that never contain a string literal: nil, false
// and zero numbers.
func isFalsy(v any) bool {
	if isNil(v) {
		return true
	}
	if b, ok := v.(bool); ok {
		return !b
	}
	if n, ok := toFloat64(v); ok {
		return n == 0
	}
	return false
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

// stringForm renders scalars, Stringers and byte slices for string, regex and
// glob matching. Nil and composite values (maps, structs, slices and arrays)
// have no string form.
func stringForm(v any) (string, bool) {
	if isNil(v) {
		return "", false
	}
	switch v.(type) {
	case string, fmt.Stringer, []byte:
		return stringify(v), true
	}
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return "", false
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return "", false
	}
	return stringify(v), true
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case []byte:
		return string(s)
	}
	return fmt.Sprintf("%v", v)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
