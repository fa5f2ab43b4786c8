// Package matcher implements deep matching of actual values against matchers.
//
// A Matcher is one of a closed set of kinds:
//   - Literal: strings match case-insensitively as substrings, numbers and
//     booleans by value
//   - Regex: the actual value, rendered as a string, matches the expression
//   - Predicate: a function deciding the match
//   - Pattern: a key/value object pattern, matched recursively against maps,
//     structs and JSON documents; extra keys on the actual value are ignored
//   - List: the actual slice contains the matcher items as a contiguous run
//   - Glob: wildcard match of the actual value rendered as a string
//   - Time: equal instants
//   - Null: absent or nil values
//
// From classifies arbitrary Go values into a Matcher, and Evaluate combines
// classification and matching into a single Outcome.
package matcher
