package referee

import (
	"errors"
	"fmt"
)

// Directions an assertion can be run in.
const (
	OpAssert = "assert"
	OpRefute = "refute"
)

// Definition describes a named assertion.
type Definition struct {
	// Assert decides the assertion. Returning false fails it with
	// AssertMessage, unless Check.Fail selected another template.
	Assert func(c *Check, args []any) bool
	// Refute decides the negated assertion.
	Refute func(c *Check, args []any) bool

	AssertMessage string
	RefuteMessage string

	// Expectation is the alias used by Expect, e.g. "toMatch".
	Expectation string

	// Values returns the template values for a call. message is the custom
	// message, already prepared for prefixing.
	Values func(args []any, message string) map[string]any

	// Messages holds additional templates selectable with Check.Fail. They
	// apply to both directions.
	Messages map[string]string

	// Arity is the minimum number of arguments.
	Arity int
}

func (d Definition) validate(name string) error {
	if name == "" {
		return errors.New("assertion name is required")
	}
	if d.Assert == nil || d.Refute == nil {
		return fmt.Errorf("assertion %q must define assert and refute", name)
	}
	if d.AssertMessage == "" || d.RefuteMessage == "" {
		return fmt.Errorf("assertion %q must define assert and refute messages", name)
	}
	if d.Arity < 0 {
		return fmt.Errorf("assertion %q has negative arity", name)
	}
	return nil
}

// Check carries the state of a single assertion call.
type Check struct {
	Operator string
	Name     string

	values  map[string]any
	failKey string
}

func newCheck(op, name string) *Check {
	return &Check{Operator: op, Name: name, values: make(map[string]any)}
}

// Set stores a value for message interpolation.
func (c *Check) Set(key string, value any) {
	c.values[key] = value
}

// Get returns a value stored with Set.
func (c *Check) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Fail selects the template stored under key for the failure message and
// returns false so it can be returned directly from Assert or Refute.
func (c *Check) Fail(key string) bool {
	c.failKey = key
	return false
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Operator string
	Name     string
	Message  string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// IsAssertionError reports whether err is, or wraps, an assertion failure.
func IsAssertionError(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}
