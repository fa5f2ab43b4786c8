package assertions

import (
	"sync"

	"github.com/abdul-hamid-achik/referee/packages/format"
	"github.com/abdul-hamid-achik/referee/packages/matcher"
	"github.com/abdul-hamid-achik/referee/packages/referee"
)

const (
	// MatchName is the name the match assertion is registered under.
	MatchName = "match"
	// MatchExpectation is the expectation alias of the match assertion.
	MatchExpectation = "toMatch"
	// ExceptionMessageKey selects the template used for unsupported matchers.
	ExceptionMessageKey = "exceptionMessage"

	MatchAssertMessage    = "${customMessage}${actual} expected to match ${expected}"
	MatchRefuteMessage    = "${customMessage}${actual} expected not to match ${expected}"
	MatchExceptionMessage = "${customMessage}${exceptionMessage}"
)

// InvalidMatcherError is returned by Match when the matcher has no supported
// shape or could not be evaluated.
type InvalidMatcherError struct {
	Matcher any
	Err     error
}

func (e *InvalidMatcherError) Error() string {
	return "Matcher (" + format.Format(e.Matcher) + ") was not a string, a number, a function, a boolean or an object"
}

func (e *InvalidMatcherError) Unwrap() error {
	return e.Err
}

// Match reports whether actual matches m.
func Match(actual, m any) (bool, error) {
	outcome := matcher.Evaluate(actual, m)
	if outcome.Err != nil {
		return false, &InvalidMatcherError{Matcher: m, Err: outcome.Err}
	}
	return outcome.Matched, nil
}

// MatchDefinition returns the referee definition of the match assertion.
func MatchDefinition() referee.Definition {
	return referee.Definition{
		Arity: 2,
		Assert: func(c *referee.Check, args []any) bool {
			passed, err := Match(args[0], args[1])
			if err != nil {
				c.Set(ExceptionMessageKey, err.Error())
				return c.Fail(ExceptionMessageKey)
			}
			return passed
		},
		Refute: func(c *referee.Check, args []any) bool {
			passed, err := Match(args[0], args[1])
			if err != nil {
				c.Set(ExceptionMessageKey, err.Error())
				return c.Fail(ExceptionMessageKey)
			}
			return !passed
		},
		AssertMessage: MatchAssertMessage,
		RefuteMessage: MatchRefuteMessage,
		Expectation:   MatchExpectation,
		Values: func(args []any, message string) map[string]any {
			return map[string]any{
				"actual":        format.ActualForMatch(args[0], args[1]),
				"expected":      args[1],
				"customMessage": message,
			}
		},
		Messages: map[string]string{
			ExceptionMessageKey: MatchExceptionMessage,
		},
	}
}

// Register adds the assertions of this package to r.
func Register(r *referee.Referee) error {
	return r.Add(MatchName, MatchDefinition())
}

// NewReferee creates a referee with this package's assertions registered.
func NewReferee(opts ...referee.Option) (*referee.Referee, error) {
	r := referee.New(opts...)
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

var (
	defaultOnce    sync.Once
	defaultReferee *referee.Referee
)

// Default returns a shared referee with the default configuration.
func Default() *referee.Referee {
	defaultOnce.Do(func() {
		r, err := NewReferee()
		if err != nil {
			panic(err)
		}
		defaultReferee = r
	})
	return defaultReferee
}

// AssertMatch fails t unless actual matches m.
func AssertMatch(t referee.TestingT, actual, m any, message ...string) bool {
	t.Helper()
	return Default().T(t).AssertMsg(MatchName, firstMessage(message), actual, m)
}

// RefuteMatch fails t if actual matches m, or if m is not a valid matcher.
func RefuteMatch(t referee.TestingT, actual, m any, message ...string) bool {
	t.Helper()
	return Default().T(t).RefuteMsg(MatchName, firstMessage(message), actual, m)
}

func firstMessage(message []string) string {
	if len(message) == 0 {
		return ""
	}
	return message[0]
}
