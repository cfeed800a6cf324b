package handlers

import (
	"context"
	"os"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/pipeline"
	"github.com/imamik/hostforge/internal/ui"
	"github.com/imamik/hostforge/internal/util/prerequisites"
)

// Function variables - can be replaced in tests for dependency injection.
var (
	configFromEnv      = config.FromOSEnv
	checkTargetPrereqs = prerequisites.CheckTarget
	openRunLog         = pipeline.OpenRunLog
	pipelineSteps      = pipeline.Definition
	newExecer          = func() pipeline.Execer { return &pipeline.LocalExecer{} }
)

// Setup runs the setup pipeline on the machine it is invoked on.
//
// Configuration comes from HOSTFORGE_* environment variables; missing keys
// fall back to defaults, so a bare 'hostforge setup' on a fresh Ubuntu
// machine is valid. Steps run strictly in order. A fatal step aborts the
// run; optional steps log a warning and the run continues. Full output of
// every step lands in the run log, only terse status lines reach the
// terminal.
func Setup(ctx context.Context) error {
	cfg, err := configFromEnv()
	if err != nil {
		return err
	}

	if err := checkTargetPrereqs().Error(); err != nil {
		return err
	}

	log, err := openRunLog("")
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	reporter := ui.NewStepReporter(os.Stdout)
	host := pipeline.NewHost(cfg, newExecer(), log)
	runner := pipeline.NewRunner(host, log, reporter)

	summary, runErr := runner.Run(ctx, pipelineSteps())
	ui.PrintSummary(os.Stdout, summary)
	return runErr
}
