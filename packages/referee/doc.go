// Package referee is a registry of named assertions.
//
// An assertion is registered once with a Definition describing how to decide
// it in both directions (assert and refute) and which message templates to
// use when it fails. Templates reference values with ${name} placeholders:
//
//	"${customMessage}${actual} expected to match ${expected}"
//
// Values come from the definition's Values function and from Check.Set calls
// made while deciding the assertion. Templates can be overridden per
// direction through config.Config.Messages using keys such as "assert.match"
// or "refute.match.exceptionMessage".
//
// Failures are returned as *AssertionError values. T binds a Referee to a
// testing.T so failures are reported through Errorf.
package referee
