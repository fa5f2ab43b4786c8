package referee

import "fmt"

// Expectation runs assertions by their expectation alias, with actual bound
// as the first argument.
type Expectation struct {
	r       *Referee
	actual  any
	negated bool
	message string
}

// Expect starts an expectation on actual.
func (r *Referee) Expect(actual any) *Expectation {
	return &Expectation{r: r, actual: actual}
}

// Not returns a negated copy of the expectation.
func (e *Expectation) Not() *Expectation {
	c := *e
	c.negated = !e.negated
	return &c
}

// WithMessage returns a copy of the expectation that prefixes failures with
// message.
func (e *Expectation) WithMessage(message string) *Expectation {
	c := *e
	c.message = message
	return &c
}

// To runs the assertion registered under alias, e.g. To("toMatch", matcher).
func (e *Expectation) To(alias string, args ...any) error {
	name, ok := e.r.lookupExpectation(alias)
	if !ok {
		return fmt.Errorf("unknown expectation %q", alias)
	}
	op := OpAssert
	if e.negated {
		op = OpRefute
	}
	return e.r.run(op, name, e.message, append([]any{e.actual}, args...))
}
