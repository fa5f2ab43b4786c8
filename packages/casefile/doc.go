// Package casefile parses match case documents.
//
// A document is YAML (or JSON) listing cases, each pairing an actual value
// with a matcher to assert or refute:
//
//	name: users api
//	cases:
//	  - name: user has a name
//	    actual: {name: Ann, age: 30}
//	    match: {name: Ann}
//	  - name: flags are off
//	    actualFile: fixtures/user.json
//	    actualPath: profile.flags
//	    refute: {admin: true}
//
// Matchers may use single-key operator objects:
//   - {$regex: "^a"}: regular expression
//   - {$glob: "api/*"}: wildcard match
//   - {$type: number}: JSON type name (null, boolean, number, string, array, object)
//   - {$schema: {...}}: inline JSON Schema the actual value must satisfy
//   - {$null: true}: absent or null value
package casefile
