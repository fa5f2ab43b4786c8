// Package assertions provides the assertions registered with referee.
//
// The match assertion checks an actual value against a matcher:
//   - Literals: strings match as case-insensitive substrings, numbers and booleans by value
//   - Regular expressions: *regexp.Regexp tested against the value
//   - Predicates: func(any) bool or func(any) (bool, error)
//   - Object patterns: maps and structs matched key by key, extra keys ignored
//
// It is registered as "match" with the expectation alias "toMatch". An
// unsupported matcher fails the assertion in both directions with the
// exceptionMessage template instead of the usual failure message.
package assertions
