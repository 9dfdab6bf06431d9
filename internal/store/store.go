// Package store persists run reports and outcome traces on the filesystem.
package store

// Store defines the interface for run report persistence.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return ErrNotFound if a report doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveReport atomically saves the report of a run, replacing any
	// report saved under the same run ID.
	SaveReport(report *Report) error

	// LoadReport retrieves the report of the given run.
	LoadReport(runID string) (*Report, error)

	// ListReports returns summaries of every stored run, oldest first.
	ListReports() ([]ReportInfo, error)

	// DeleteReport removes the report and the trace of the given run.
	DeleteReport(runID string) error
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
