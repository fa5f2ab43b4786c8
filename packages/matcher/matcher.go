package matcher

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"time"
)

// ErrInvalidMatcher is returned when a value cannot be used as a matcher.
var ErrInvalidMatcher = errors.New("invalid matcher")

// Kind identifies the shape of a Matcher.
type Kind int

const (
	KindInvalid Kind = iota
	KindLiteral
	KindRegex
	KindPredicate
	KindPattern
	KindList
	KindGlob
	KindTime
	KindNull
)

var kindNames = map[Kind]string{
	KindInvalid:   "invalid",
	KindLiteral:   "literal",
	KindRegex:     "regex",
	KindPredicate: "predicate",
	KindPattern:   "pattern",
	KindList:      "list",
	KindGlob:      "glob",
	KindTime:      "time",
	KindNull:      "null",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// PredicateFunc decides whether actual matches. A returned error aborts the
// match and is reported as an evaluation failure.
type PredicateFunc func(actual any) (bool, error)

// Matcher describes an expected shape. The zero value is invalid.
type Matcher struct {
	kind   Kind
	value  any // string, float64 or bool for literals
	re     *regexp.Regexp
	pred   PredicateFunc
	fields map[string]Matcher
	items  []Matcher
	glob   string
	t      time.Time
}

// String returns a literal matcher matching strings containing s, ignoring case.
func String(s string) Matcher {
	return Matcher{kind: KindLiteral, value: s}
}

// Number returns a literal matcher matching numerically equal values.
func Number(n float64) Matcher {
	return Matcher{kind: KindLiteral, value: n}
}

// Bool returns a literal matcher matching the boolean b.
func Bool(b bool) Matcher {
	return Matcher{kind: KindLiteral, value: b}
}

// Regex returns a matcher testing the actual value against re.
func Regex(re *regexp.Regexp) Matcher {
	if re == nil {
		return Matcher{}
	}
	return Matcher{kind: KindRegex, re: re}
}

// MustRegex compiles expr and returns a regex matcher. It panics if the
// expression cannot be compiled.
func MustRegex(expr string) Matcher {
	return Regex(regexp.MustCompile(expr))
}

// Predicate returns a matcher delegating to fn.
func Predicate(fn PredicateFunc) Matcher {
	if fn == nil {
		return Matcher{}
	}
	return Matcher{kind: KindPredicate, pred: fn}
}

// Func adapts a plain boolean function into a predicate matcher.
func Func(fn func(actual any) bool) Matcher {
	if fn == nil {
		return Matcher{}
	}
	return Predicate(func(actual any) (bool, error) {
		return fn(actual), nil
	})
}

// Pattern returns an object pattern. Every key must be present on the actual
// value and match its nested matcher.
func Pattern(fields map[string]Matcher) Matcher {
	copied := make(map[string]Matcher, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Matcher{kind: KindPattern, fields: copied}
}

// List returns a matcher requiring the actual list to contain items as a
// contiguous run.
func List(items ...Matcher) Matcher {
	return Matcher{kind: KindList, items: append([]Matcher(nil), items...)}
}

// Glob returns a wildcard matcher. '*' matches any run of characters and '?'
// matches a single character.
func Glob(pattern string) Matcher {
	return Matcher{kind: KindGlob, glob: pattern}
}

// Time returns a matcher for the instant t.
func Time(t time.Time) Matcher {
	return Matcher{kind: KindTime, t: t}
}

// Null returns a matcher for absent or nil values.
func Null() Matcher {
	return Matcher{kind: KindNull}
}

func (m Matcher) Kind() Kind { return m.kind }

// Valid reports whether m can be evaluated.
func (m Matcher) Valid() bool { return m.kind != KindInvalid }

// Literal returns the literal value of a literal matcher.
func (m Matcher) Literal() any { return m.value }

func (m Matcher) Regexp() *regexp.Regexp { return m.re }

// Fields returns a copy of the keys of a pattern matcher.
func (m Matcher) Fields() map[string]Matcher {
	if m.fields == nil {
		return nil
	}
	copied := make(map[string]Matcher, len(m.fields))
	for k, v := range m.fields {
		copied[k] = v
	}
	return copied
}

func (m Matcher) Items() []Matcher { return append([]Matcher(nil), m.items...) }

func (m Matcher) GlobPattern() string { return m.glob }

func (m Matcher) Instant() time.Time { return m.t }

// From classifies v into a Matcher. Values that have no matcher meaning,
// including a top-level nil, return an error wrapping ErrInvalidMatcher.
func From(v any) (Matcher, error) {
	return from(v, false)
}

func from(v any, nested bool) (Matcher, error) {
	switch m := v.(type) {
	case nil:
		if nested {
			return Null(), nil
		}
		return Matcher{}, fmt.Errorf("%w: nil", ErrInvalidMatcher)
	case Matcher:
		if !m.Valid() {
			return Matcher{}, fmt.Errorf("%w: zero matcher", ErrInvalidMatcher)
		}
		return m, nil
	case *Matcher:
		if m == nil {
			return from(nil, nested)
		}
		return from(*m, nested)
	case string:
		return String(m), nil
	case bool:
		return Bool(m), nil
	case *regexp.Regexp:
		if m == nil {
			return Matcher{}, fmt.Errorf("%w: nil regexp", ErrInvalidMatcher)
		}
		return Regex(m), nil
	case PredicateFunc:
		if m == nil {
			return Matcher{}, fmt.Errorf("%w: nil function", ErrInvalidMatcher)
		}
		return Predicate(m), nil
	case func(any) (bool, error):
		if m == nil {
			return Matcher{}, fmt.Errorf("%w: nil function", ErrInvalidMatcher)
		}
		return Predicate(m), nil
	case func(any) bool:
		if m == nil {
			return Matcher{}, fmt.Errorf("%w: nil function", ErrInvalidMatcher)
		}
		return Func(m), nil
	case time.Time:
		return Time(m), nil
	}

	if n, ok := toFloat64(v); ok {
		return Number(n), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return from(nil, nested)
		}
		return from(rv.Elem().Interface(), nested)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Matcher{}, fmt.Errorf("%w: map keys must be strings, got %s", ErrInvalidMatcher, rv.Type().Key())
		}
		fields := make(map[string]Matcher, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			sub, err := from(iter.Value().Interface(), true)
			if err != nil {
				return Matcher{}, fmt.Errorf("key %q: %w", key, err)
			}
			fields[key] = sub
		}
		return Matcher{kind: KindPattern, fields: fields}, nil
	case reflect.Struct:
		exported := structFields(rv)
		if len(exported) == 0 {
			return Matcher{}, fmt.Errorf("%w: %T has no exported fields", ErrInvalidMatcher, v)
		}
		fields := make(map[string]Matcher, len(exported))
		for name, fv := range exported {
			sub, err := from(fv.Interface(), true)
			if err != nil {
				return Matcher{}, fmt.Errorf("field %q: %w", name, err)
			}
			fields[name] = sub
		}
		return Matcher{kind: KindPattern, fields: fields}, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return from(nil, nested)
		}
		items := make([]Matcher, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			sub, err := from(rv.Index(i).Interface(), true)
			if err != nil {
				return Matcher{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = sub
		}
		return Matcher{kind: KindList, items: items}, nil
	}

	return Matcher{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidMatcher, v)
}

// Outcome is the result of evaluating a matcher. Err is set when the matcher
// is invalid or a predicate failed; Matched is meaningful only when Err is nil.
type Outcome struct {
	Matched bool
	Err     error
}

// Invalid reports whether the outcome failed because the matcher had an
// unsupported shape.
func (o Outcome) Invalid() bool {
	return errors.Is(o.Err, ErrInvalidMatcher)
}

// Evaluate classifies matcher and matches actual against it.
func Evaluate(actual, matcher any) Outcome {
	m, err := From(matcher)
	if err != nil {
		return Outcome{Err: err}
	}
	matched, err := m.Match(actual)
	return Outcome{Matched: matched, Err: err}
}
