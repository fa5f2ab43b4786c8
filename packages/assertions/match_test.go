package assertions

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/abdul-hamid-achik/referee/packages/core/config"
	"github.com/abdul-hamid-achik/referee/packages/matcher"
	"github.com/abdul-hamid-achik/referee/packages/referee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invalidNil = "Matcher (null) was not a string, a number, a function, a boolean or an object"

func newReferee(t *testing.T, opts ...referee.Option) *referee.Referee {
	t.Helper()
	r, err := NewReferee(opts...)
	require.NoError(t, err)
	return r
}

func TestMatch(t *testing.T) {
	positive := func(v any) bool {
		n, ok := v.(int)
		return ok && n > 0
	}

	tests := []struct {
		name    string
		actual  any
		matcher any
		want    bool
	}{
		{name: "equal numbers", actual: 3, matcher: 3, want: true},
		{name: "different numbers", actual: 3, matcher: 4, want: false},
		{name: "regexp", actual: "hello", matcher: regexp.MustCompile(`ell`), want: true},
		{name: "regexp miss", actual: "hello", matcher: regexp.MustCompile(`^ell`), want: false},
		{name: "predicate", actual: 5, matcher: positive, want: true},
		{name: "predicate miss", actual: -1, matcher: positive, want: false},
		{name: "pattern", actual: map[string]any{"a": 1, "b": 2}, matcher: map[string]any{"a": 1}, want: true},
		{name: "pattern miss", actual: map[string]any{"b": 2}, matcher: map[string]any{"a": 1}, want: false},
		{name: "boolean", actual: false, matcher: false, want: true},
		{name: "string", actual: "Give me something", matcher: "something", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.actual, tt.matcher)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_InvalidMatcher(t *testing.T) {
	_, err := Match("anything", nil)
	require.Error(t, err)
	assert.Equal(t, invalidNil, err.Error())

	var ime *InvalidMatcherError
	require.True(t, errors.As(err, &ime))
	assert.ErrorIs(t, err, matcher.ErrInvalidMatcher)

	_, err = Match("anything", map[string]any{"c": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Matcher ({ c: ")
	assert.Contains(t, err.Error(), ") was not a string, a number, a function, a boolean or an object")
}

func TestMatch_PredicateErrorIsReported(t *testing.T) {
	boom := errors.New("boom")
	_, err := Match(1, func(any) (bool, error) { return false, boom })
	require.Error(t, err)
	assert.Equal(t, "Matcher (function) was not a string, a number, a function, a boolean or an object", err.Error())
	assert.ErrorIs(t, err, boom)
}

func TestMatchAssertion_Scenarios(t *testing.T) {
	r := newReferee(t)

	assert.NoError(t, r.Assert(MatchName, map[string]any{"name": "Ann", "age": 30}, map[string]any{"name": "Ann"}))

	err := r.Assert(MatchName, map[string]any{"name": "Ann"}, map[string]any{"name": "Bob"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected to match")
	assert.Equal(t, `{ name: "Ann" } expected to match { name: "Bob" }`, err.Error())
}

func TestMatchAssertion_FocusesActual(t *testing.T) {
	r := newReferee(t)

	actual := map[string]any{"name": "Ann", "age": 30, "email": "ann@example.com"}
	err := r.AssertMsg(MatchName, "user", actual, map[string]any{"age": 31})
	require.Error(t, err)
	assert.Equal(t, "user: { age: 30 } expected to match { age: 31 }", err.Error())
}

func TestMatchAssertion_Refute(t *testing.T) {
	r := newReferee(t)

	cases := []struct {
		actual  any
		matcher any
	}{
		{actual: 3, matcher: 3},
		{actual: 3, matcher: 4},
		{actual: "hello", matcher: regexp.MustCompile("ell")},
		{actual: map[string]any{"a": 1}, matcher: map[string]any{"a": 2}},
	}

	for i, c := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			matched, err := Match(c.actual, c.matcher)
			require.NoError(t, err)

			assertErr := r.Assert(MatchName, c.actual, c.matcher)
			refuteErr := r.Refute(MatchName, c.actual, c.matcher)
			assert.Equal(t, matched, assertErr == nil)
			assert.Equal(t, !matched, refuteErr == nil)
		})
	}

	err := r.Refute(MatchName, "hello", "ell")
	require.Error(t, err)
	assert.Equal(t, "hello expected not to match ell", err.Error())
}

func TestMatchAssertion_InvalidMatcherFailsBothDirections(t *testing.T) {
	r := newReferee(t)

	err := r.Assert(MatchName, "anything", nil)
	require.Error(t, err)
	assert.True(t, referee.IsAssertionError(err))
	assert.Equal(t, invalidNil, err.Error())
	assert.NotContains(t, err.Error(), "expected to match")

	err = r.RefuteMsg(MatchName, "lookup", "anything", nil)
	require.Error(t, err)
	assert.Equal(t, "lookup: "+invalidNil, err.Error())
}

func TestMatchAssertion_UnsupportedValues(t *testing.T) {
	r := newReferee(t)
	suffix := ") was not a string, a number, a function, a boolean or an object"

	tests := []struct {
		name     string
		matcher  any
		rendered string
	}{
		{name: "error value", matcher: errors.New("x"), rendered: "x"},
		{name: "empty struct", matcher: struct{}{}, rendered: "{}"},
		{name: "func of other signature", matcher: func(n int) int { return n }, rendered: "function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := "Matcher (" + tt.rendered + suffix

			_, err := Match(42, tt.matcher)
			require.Error(t, err)
			assert.Equal(t, want, err.Error())
			assert.ErrorIs(t, err, matcher.ErrInvalidMatcher)

			err = r.Assert(MatchName, 42, tt.matcher)
			require.Error(t, err)
			assert.Equal(t, want, err.Error())

			err = r.Refute(MatchName, 42, tt.matcher)
			require.Error(t, err)
			assert.Equal(t, want, err.Error())
		})
	}
}

func TestMatchAssertion_ExceptionMessageOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Messages = map[string]string{
		"assert.match.exceptionMessage": "${customMessage}bad matcher -> ${exceptionMessage}",
	}
	r := newReferee(t, referee.WithConfig(cfg))

	err := r.AssertMsg(MatchName, "oops", 1, nil)
	require.Error(t, err)
	assert.Equal(t, "oops: bad matcher -> "+invalidNil, err.Error())

	err = r.Refute(MatchName, 1, nil)
	require.Error(t, err)
	assert.Equal(t, invalidNil, err.Error(), "refute keeps the default template")
}

func TestMatchAssertion_Arity(t *testing.T) {
	r := newReferee(t)

	err := r.Assert(MatchName, 1)
	require.Error(t, err)
	assert.Equal(t, "[assert.match] Expected to receive at least 2 arguments", err.Error())
}

func TestMatchAssertion_Expectation(t *testing.T) {
	r := newReferee(t)

	assert.NoError(t, r.Expect("hello").To(MatchExpectation, regexp.MustCompile("^h")))
	assert.NoError(t, r.Expect("hello").Not().To(MatchExpectation, "bye"))
	assert.Error(t, r.Expect("hello").Not().To(MatchExpectation, nil))
}

func TestMatchAssertion_Idempotent(t *testing.T) {
	r := newReferee(t)
	actual := map[string]any{"a": []any{1, 2}}
	m := map[string]any{"a": []any{2}}

	for i := 0; i < 3; i++ {
		got, err := Match(actual, m)
		require.NoError(t, err)
		assert.True(t, got)
		assert.NoError(t, r.Assert(MatchName, actual, m))
	}
}

func TestRegister_Twice(t *testing.T) {
	r := newReferee(t)
	assert.Error(t, Register(r))
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.True(t, Default().Has(MatchName))
}

type recordingT struct {
	errors []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestAssertMatchHelpers(t *testing.T) {
	rt := &recordingT{}

	assert.True(t, AssertMatch(rt, map[string]any{"id": 7}, map[string]any{"id": 7}))
	assert.False(t, AssertMatch(rt, 7, 8, "ids"))
	assert.True(t, RefuteMatch(rt, 7, 8))
	assert.False(t, RefuteMatch(rt, 7, nil))

	assert.Equal(t, []string{
		"ids: 7 expected to match 8",
		invalidNil,
	}, rt.errors)

	AssertMatch(t, map[string]any{"name": "Ann", "age": 30}, map[string]any{"name": "Ann"})
	RefuteMatch(t, "hello", "xyz")
}
