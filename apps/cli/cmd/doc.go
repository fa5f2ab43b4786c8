// Package cmd implements the referee CLI commands using Cobra.
//
// Available commands:
//   - check: Run match case documents
//   - match: Match a single value against a matcher
//   - validate: Check case documents without running them
//   - list: Display all cases defined in documents
//   - init: Create a config file and an example case document
//   - version: Show referee version information
//
// The CLI supports flags for filtering, output formatting, parallel
// execution, and watch mode for development workflows.
package cmd
