package pipeline

import (
	"context"
	"fmt"

	"github.com/imamik/hostforge/internal/config"
)

// Policy classifies what a step failure does to the rest of the run.
type Policy int

const (
	// Fatal aborts the pipeline immediately; no later step executes.
	Fatal Policy = iota
	// WarnAndContinue records the failure and moves to the next step.
	WarnAndContinue
)

func (p Policy) String() string {
	if p == Fatal {
		return "fatal"
	}
	return "warn"
}

// Step is a named unit of the pipeline.
//
// Enabled gates the step on the configuration (nil means always run).
// Check queries live host state and reports whether the step is already
// satisfied (nil means never). A later step must not assume an earlier
// WarnAndContinue step succeeded.
type Step struct {
	Name    string
	Label   string
	Policy  Policy
	Enabled func(cfg *config.Config) bool
	Check   func(ctx context.Context, h *Host) (bool, error)
	Apply   func(ctx context.Context, h *Host) error
}

// StepError reports a failed step together with its failure policy and the
// location of the captured output. No further wrapping happens across
// layers; the label and log path are all the operator needs.
type StepError struct {
	Step    string
	Label   string
	Fatal   bool
	LogPath string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v (full output: %s)", e.Label, e.Err, e.LogPath)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Status is the outcome of one step within a run.
type Status string

const (
	// StatusDone means the step's action ran and succeeded.
	StatusDone Status = "done"
	// StatusSatisfied means the host already met the step's postcondition.
	StatusSatisfied Status = "satisfied"
	// StatusSkipped means the step's toggle was off for this run.
	StatusSkipped Status = "skipped"
	// StatusWarned means the step failed under WarnAndContinue.
	StatusWarned Status = "warned"
	// StatusFailed means the step failed fatally and aborted the run.
	StatusFailed Status = "failed"
)

// Result records the outcome of a single step.
type Result struct {
	Step   string
	Label  string
	Status Status
	Err    error
}

// Summary is the terminal state of a run.
//
// Completed is true when every scheduled step either succeeded, was
// already satisfied, was toggled off, or failed under WarnAndContinue.
// A fatal failure leaves Completed false and names the failing step.
type Summary struct {
	Results    []Result
	Completed  bool
	FailedStep string
	LogPath    string
}

// Counts returns the number of results per status.
func (s *Summary) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, r := range s.Results {
		counts[r.Status]++
	}
	return counts
}

// Warnings returns the results of steps that failed under WarnAndContinue.
func (s *Summary) Warnings() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Status == StatusWarned {
			out = append(out, r)
		}
	}
	return out
}
