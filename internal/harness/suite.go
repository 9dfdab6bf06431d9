package harness

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Test is one registered differential test. Run returns false when any
// comparison or setup step failed.
type Test struct {
	Name   string
	Family string
	Run    func(r *Runner) bool
}

// Suite is an ordered list of tests.
type Suite struct {
	tests []Test
}

// NewSuite returns a suite holding tests in order.
func NewSuite(tests ...Test) *Suite {
	return &Suite{tests: tests}
}

// Add appends tests to the suite.
func (s *Suite) Add(tests ...Test) {
	s.tests = append(s.tests, tests...)
}

// Tests returns the registered tests in order.
func (s *Suite) Tests() []Test {
	return append([]Test(nil), s.tests...)
}

// Len returns the number of tests.
func (s *Suite) Len() int {
	return len(s.tests)
}

// Filter returns a suite with the tests whose name or family matches re.
// A nil re keeps every test.
func (s *Suite) Filter(re *regexp.Regexp) *Suite {
	if re == nil {
		return NewSuite(s.tests...)
	}
	out := &Suite{}
	for _, t := range s.tests {
		if re.MatchString(t.Name) || re.MatchString(t.Family) {
			out.tests = append(out.tests, t)
		}
	}
	return out
}

// TestResult is the outcome of one test.
type TestResult struct {
	Name     string        `json:"name"`
	Family   string        `json:"family"`
	Passed   bool          `json:"passed"`
	Skipped  bool          `json:"skipped,omitempty"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Result is the outcome of a suite run.
type Result struct {
	Passed bool         `json:"passed"`
	Tests  []TestResult `json:"tests"`
}

// Failed returns the names of the tests that did not pass.
func (res Result) Failed() []string {
	var names []string
	for _, t := range res.Tests {
		if !t.Passed {
			names = append(names, t.Name)
		}
	}
	return names
}

// Run executes every test in order. Cancelling ctx stops the run between
// tests; tests not started are reported as skipped and fail the result.
func (s *Suite) Run(ctx context.Context, r *Runner) Result {
	res := Result{Passed: true}
	for _, t := range s.tests {
		if err := ctx.Err(); err != nil {
			res.Tests = append(res.Tests, TestResult{Name: t.Name, Family: t.Family, Skipped: true, Error: err.Error()})
			res.Passed = false
			continue
		}

		start := time.Now()
		tr := TestResult{Name: t.Name, Family: t.Family}
		tr.Passed, tr.Error = runTest(r, t)
		tr.Duration = time.Since(start)

		if !tr.Passed {
			res.Passed = false
			r.logger.Error(fmt.Sprintf("%s test failed!", t.Name), "family", t.Family, "duration", tr.Duration)
		} else {
			r.logger.Debug("Test passed", "test", t.Name, "duration", tr.Duration)
		}
		res.Tests = append(res.Tests, tr)
	}
	return res
}

func runTest(r *Runner, t Test) (passed bool, msg string) {
	defer func() {
		if p := recover(); p != nil {
			passed, msg = false, fmt.Sprintf("panic: %v", p)
		}
	}()
	return t.Run(r), ""
}
