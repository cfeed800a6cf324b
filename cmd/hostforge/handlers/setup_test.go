package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/pipeline"
	"github.com/imamik/hostforge/internal/util/prerequisites"
)

type recordingExecer struct {
	commands []string
}

func (e *recordingExecer) Run(_ context.Context, command string) (string, error) {
	e.commands = append(e.commands, command)
	return "", nil
}

// stubSetupDeps replaces Setup's collaborators and restores them afterwards.
func stubSetupDeps(t *testing.T, steps []pipeline.Step) *recordingExecer {
	t.Helper()

	origFromEnv := configFromEnv
	origPrereqs := checkTargetPrereqs
	origOpenLog := openRunLog
	origSteps := pipelineSteps
	origExecer := newExecer
	t.Cleanup(func() {
		configFromEnv = origFromEnv
		checkTargetPrereqs = origPrereqs
		openRunLog = origOpenLog
		pipelineSteps = origSteps
		newExecer = origExecer
	})

	exec := &recordingExecer{}
	logPath := filepath.Join(t.TempDir(), "setup.log")

	configFromEnv = func() (*config.Config, error) { return config.Default(), nil }
	checkTargetPrereqs = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	openRunLog = func(string) (*pipeline.RunLog, error) { return pipeline.OpenRunLog(logPath) }
	pipelineSteps = func() []pipeline.Step { return steps }
	newExecer = func() pipeline.Execer { return exec }

	return exec
}

func TestSetupRunsPipeline(t *testing.T) {
	var ran []string
	steps := []pipeline.Step{
		{Name: "one", Label: "one", Policy: pipeline.Fatal, Apply: func(context.Context, *pipeline.Host) error {
			ran = append(ran, "one")
			return nil
		}},
		{Name: "two", Label: "two", Policy: pipeline.WarnAndContinue, Apply: func(context.Context, *pipeline.Host) error {
			ran = append(ran, "two")
			return nil
		}},
	}
	stubSetupDeps(t, steps)

	require.NoError(t, Setup(context.Background()))
	assert.Equal(t, []string{"one", "two"}, ran)
}

func TestSetupReturnsFatalStepError(t *testing.T) {
	steps := []pipeline.Step{
		{Name: "broken", Label: "broken", Policy: pipeline.Fatal, Apply: func(context.Context, *pipeline.Host) error {
			return errors.New("no network")
		}},
	}
	stubSetupDeps(t, steps)

	err := Setup(context.Background())
	var stepErr *pipeline.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "broken", stepErr.Step)
	assert.True(t, stepErr.Fatal)
}

func TestSetupSwallowsWarnings(t *testing.T) {
	steps := []pipeline.Step{
		{Name: "optional", Label: "optional", Policy: pipeline.WarnAndContinue, Apply: func(context.Context, *pipeline.Host) error {
			return errors.New("mirror down")
		}},
	}
	stubSetupDeps(t, steps)

	assert.NoError(t, Setup(context.Background()))
}

func TestSetupFailsOnBadEnvConfig(t *testing.T) {
	stubSetupDeps(t, nil)
	configFromEnv = func() (*config.Config, error) {
		return nil, errors.New("HOSTFORGE_SWAP_SIZE_GB: invalid syntax")
	}

	err := Setup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOSTFORGE_SWAP_SIZE_GB")
}
