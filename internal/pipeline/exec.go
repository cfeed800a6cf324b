// Package pipeline executes the fixed, ordered list of setup steps against
// the host it runs on. Steps are idempotent by checking live host state
// before acting, which makes the whole pipeline safe to re-run.
package pipeline

import (
	"context"
	"os/exec"
)

// Execer runs a shell command and returns its combined output.
type Execer interface {
	Run(ctx context.Context, command string) (string, error)
}

// LocalExecer runs commands through the local shell. This is the production
// Execer in target mode, where the pipeline runs on the provisioned host
// itself.
type LocalExecer struct{}

// Run executes the command via bash -c and returns combined output.
func (LocalExecer) Run(ctx context.Context, command string) (string, error) {
	// #nosec G204 -- commands come from the fixed pipeline definition
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
