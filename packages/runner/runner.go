// Package runner executes match case documents against a referee.
package runner

import (
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/referee/packages/assertions"
	"github.com/abdul-hamid-achik/referee/packages/casefile"
	"github.com/abdul-hamid-achik/referee/packages/referee"
)

// DefaultConcurrency is the number of cases run at once in parallel mode.
const DefaultConcurrency = 5

type Config struct {
	Bail        bool
	NameFilter  string
	Parallel    bool
	Concurrency int
}

type Runner struct {
	referee *referee.Referee
	config  *Config
}

func NewRunner(r *referee.Referee, cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Runner{referee: r, config: cfg}
}

type RunResult struct {
	File     string
	Name     string
	Results  []*CaseResult
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
}

type CaseResult struct {
	Name       string
	Operator   string
	Passed     bool
	Skipped    bool
	SkipReason string
	Duration   time.Duration
	Actual     any
	Expected   any
	Message    string
	Error      error
}

// RunFile parses and runs the document at path.
func (r *Runner) RunFile(path string) (*RunResult, error) {
	doc, err := casefile.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return r.Run(doc), nil
}

// Run runs every case of doc.
func (r *Runner) Run(doc *casefile.Document) *RunResult {
	start := time.Now()
	result := &RunResult{File: doc.File, Name: doc.Name}

	if r.config.Parallel && !r.config.Bail {
		result.Results = r.runParallel(doc.Cases)
	} else {
		result.Results = r.runSequential(doc.Cases)
	}

	for _, cr := range result.Results {
		switch {
		case cr.Skipped:
			result.Skipped++
		case cr.Passed:
			result.Passed++
		default:
			result.Failed++
		}
	}
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) runSequential(cases []*casefile.Case) []*CaseResult {
	results := make([]*CaseResult, 0, len(cases))
	bailed := false
	for _, c := range cases {
		if bailed {
			results = append(results, skipped(c, "bail"))
			continue
		}
		cr := r.runCase(c)
		results = append(results, cr)
		if r.config.Bail && !cr.Passed && !cr.Skipped {
			bailed = true
		}
	}
	return results
}

func (r *Runner) runParallel(cases []*casefile.Case) []*CaseResult {
	concurrency := r.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*CaseResult, len(cases))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, c := range cases {
		wg.Add(1)
		sem <- struct{}{} // acquire semaphore

		go func(idx int, tc *casefile.Case) {
			defer wg.Done()
			defer func() { <-sem }() // release semaphore

			results[idx] = r.runCase(tc)
		}(i, c)
	}

	wg.Wait()
	return results
}

func (r *Runner) runCase(c *casefile.Case) *CaseResult {
	if c.Skip {
		return skipped(c, c.SkipReason)
	}
	if !r.matchesFilter(c.Name) {
		return skipped(c, "filtered out")
	}

	start := time.Now()
	cr := &CaseResult{
		Name:     c.Name,
		Operator: c.Operator(),
		Actual:   c.Actual,
		Expected: c.Matcher,
	}

	var err error
	if c.Refute {
		err = r.referee.RefuteMsg(assertions.MatchName, c.Message, c.Actual, c.Matcher)
	} else {
		err = r.referee.AssertMsg(assertions.MatchName, c.Message, c.Actual, c.Matcher)
	}
	cr.Duration = time.Since(start)

	switch {
	case err == nil:
		cr.Passed = true
	case referee.IsAssertionError(err):
		cr.Message = err.Error()
	default:
		cr.Error = err
	}
	return cr
}

func (r *Runner) matchesFilter(name string) bool {
	if r.config.NameFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(r.config.NameFilter))
}

func skipped(c *casefile.Case, reason string) *CaseResult {
	return &CaseResult{
		Name:       c.Name,
		Operator:   c.Operator(),
		Skipped:    true,
		SkipReason: reason,
	}
}
