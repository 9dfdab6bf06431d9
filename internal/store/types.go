package store

import (
	"fmt"
	"time"

	"github.com/cwbudde/pixelparity/internal/harness"
	"github.com/cwbudde/pixelparity/internal/perf"
)

// CPUInfo records the dispatch backend and the CPU features seen by a run.
type CPUInfo struct {
	Backend     string `json:"backend"`
	Features    string `json:"features"`
	HardwareCRC bool   `json:"hardwareCrc"`
}

// Report is the persisted result of one harness run.
type Report struct {
	RunID    string    `json:"runId"`
	Seed     int64     `json:"seed"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Passed   bool      `json:"passed"`
	CPU      CPUInfo   `json:"cpu"`

	// Config is the run configuration; Seed repeats Config.Seed so a run
	// can be reproduced from the listing alone.
	Config harness.Config `json:"config"`

	Tests      []harness.TestResult `json:"tests"`
	Throughput []perf.Row           `json:"throughput,omitempty"`
}

// ReportInfo is the summary of a report used for listings.
type ReportInfo struct {
	RunID    string        `json:"runId"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Passed   bool          `json:"passed"`
	Tests    int           `json:"tests"`
	Failed   int           `json:"failed"`
	Backend  string        `json:"backend"`
}

// NewReport assembles the report of a finished run.
func NewReport(runID string, cfg harness.Config, cpu CPUInfo, started time.Time, res harness.Result, throughput []perf.Row) *Report {
	return &Report{
		RunID:      runID,
		Seed:       cfg.Seed,
		Started:    started,
		Finished:   time.Now(),
		Passed:     res.Passed,
		CPU:        cpu,
		Config:     cfg,
		Tests:      res.Tests,
		Throughput: throughput,
	}
}

// ToInfo converts a report to its summary.
func (r *Report) ToInfo() ReportInfo {
	info := ReportInfo{
		RunID:    r.RunID,
		Started:  r.Started,
		Duration: r.Finished.Sub(r.Started),
		Passed:   r.Passed,
		Tests:    len(r.Tests),
		Backend:  r.CPU.Backend,
	}
	for _, t := range r.Tests {
		if !t.Passed {
			info.Failed++
		}
	}
	return info
}

// Validate checks that the report is complete and self-consistent.
func (r *Report) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.Started.IsZero() {
		return &ValidationError{Field: "Started", Reason: "cannot be zero"}
	}
	if r.Finished.Before(r.Started) {
		return &ValidationError{Field: "Finished", Reason: "cannot precede Started"}
	}
	if r.Seed != r.Config.Seed {
		return &ValidationError{
			Field:  "Seed",
			Reason: fmt.Sprintf("mismatch: config seed is %d", r.Config.Seed),
		}
	}
	if err := r.Config.Validate(); err != nil {
		return &ValidationError{Field: "Config", Reason: err.Error()}
	}
	for _, t := range r.Tests {
		if t.Name == "" {
			return &ValidationError{Field: "Tests", Reason: "test name cannot be empty"}
		}
		if r.Passed && !t.Passed {
			return &ValidationError{Field: "Passed", Reason: "set although " + t.Name + " failed"}
		}
	}
	return nil
}

// ValidationError represents a report validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
