package pipeline

import "context"

// Reporter receives the terse live status for each step. Full output goes
// to the run log, never through the reporter.
type Reporter interface {
	StepStarted(label string)
	StepDone(label string)
	StepSatisfied(label string)
	StepSkipped(label string)
	StepWarned(label string, err error)
	StepFailed(label string, err error, logPath string)
}

// Runner executes steps strictly in order on the current host.
type Runner struct {
	host     *Host
	log      *RunLog
	reporter Reporter
}

// NewRunner builds a runner over the given host context.
func NewRunner(host *Host, log *RunLog, reporter Reporter) *Runner {
	return &Runner{host: host, log: log, reporter: reporter}
}

// Run executes the steps in order and returns the run summary.
//
// A fatal step failure aborts immediately: later steps never execute and
// never appear in the summary or the log. The returned error is the
// *StepError of the failing step. Warn-and-continue failures are recorded
// and the run still completes.
func (r *Runner) Run(ctx context.Context, steps []Step) (*Summary, error) {
	summary := &Summary{LogPath: r.log.Path()}

	for _, step := range steps {
		if step.Enabled != nil && !step.Enabled(r.host.Cfg) {
			summary.Results = append(summary.Results, Result{Step: step.Name, Label: step.Label, Status: StatusSkipped})
			r.reporter.StepSkipped(step.Label)
			continue
		}

		r.reporter.StepStarted(step.Label)
		r.log.Section(step.Name)

		if step.Check != nil {
			satisfied, err := step.Check(ctx, r.host)
			if err == nil && satisfied {
				r.log.Printf("already satisfied")
				summary.Results = append(summary.Results, Result{Step: step.Name, Label: step.Label, Status: StatusSatisfied})
				r.reporter.StepSatisfied(step.Label)
				continue
			}
			// A failing check is not a step failure; the action decides.
			if err != nil {
				r.log.Printf("check: %v", err)
			}
		}

		err := step.Apply(ctx, r.host)
		if err == nil {
			summary.Results = append(summary.Results, Result{Step: step.Name, Label: step.Label, Status: StatusDone})
			r.reporter.StepDone(step.Label)
			continue
		}

		stepErr := &StepError{
			Step:    step.Name,
			Label:   step.Label,
			Fatal:   step.Policy == Fatal,
			LogPath: r.log.Path(),
			Err:     err,
		}
		r.log.Printf("step failed: %v", err)

		if step.Policy == Fatal {
			summary.Results = append(summary.Results, Result{Step: step.Name, Label: step.Label, Status: StatusFailed, Err: err})
			summary.FailedStep = step.Label
			r.reporter.StepFailed(step.Label, err, r.log.Path())
			return summary, stepErr
		}

		summary.Results = append(summary.Results, Result{Step: step.Name, Label: step.Label, Status: StatusWarned, Err: err})
		r.reporter.StepWarned(step.Label, err)
	}

	summary.Completed = true
	return summary, nil
}
