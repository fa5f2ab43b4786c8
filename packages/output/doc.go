// Package output provides formatters for displaying match run results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - TAP: Test Anything Protocol format
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate results before output.
package output

import (
	"time"

	"github.com/abdul-hamid-achik/referee/packages/runner"
)

// Formatter is implemented by all output formatters
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that write their output at the end
type Flushable interface {
	Flush(totalDuration time.Duration) error
}
