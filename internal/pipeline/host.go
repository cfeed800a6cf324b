package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/imamik/hostforge/internal/config"
)

// Host is the execution context handed to every step: the immutable
// configuration, the command runner and the run log.
type Host struct {
	Cfg  *config.Config
	exec Execer
	log  *RunLog
}

// NewHost builds the step execution context.
func NewHost(cfg *config.Config, exec Execer, log *RunLog) *Host {
	return &Host{Cfg: cfg, exec: exec, log: log}
}

// Run executes a shell command, capturing its full output in the run log.
func (h *Host) Run(ctx context.Context, command string) error {
	h.log.Printf("$ %s", command)
	out, err := h.exec.Run(ctx, command)
	if out != "" {
		_, _ = h.log.Write([]byte(out))
	}
	if err != nil {
		h.log.Printf("! %v", err)
		return fmt.Errorf("%s: %w", firstWord(command), err)
	}
	return nil
}

// Output executes a shell command and returns its combined output. The
// output is still captured in the run log.
func (h *Host) Output(ctx context.Context, command string) (string, error) {
	h.log.Printf("$ %s", command)
	out, err := h.exec.Run(ctx, command)
	if out != "" {
		_, _ = h.log.Write([]byte(out))
	}
	return out, err
}

// Succeeds reports whether a command exits zero. Used by Check functions
// probing host state.
func (h *Host) Succeeds(ctx context.Context, command string) bool {
	_, err := h.exec.Run(ctx, command)
	return err == nil
}

// WriteFile writes content to path with the given mode and records the
// action in the run log. Returns true when the file changed.
func (h *Host) WriteFile(path, content string, mode os.FileMode) (bool, error) {
	existing, err := os.ReadFile(path) // #nosec G304 -- fixed pipeline paths
	if err == nil && string(existing) == content {
		return false, nil
	}
	h.log.Printf("write %s (%d bytes)", path, len(content))
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// FileHasContent reports whether path exists with exactly this content.
func (h *Host) FileHasContent(path, content string) bool {
	existing, err := os.ReadFile(path) // #nosec G304
	return err == nil && string(existing) == content
}

// AppendLineOnce appends line to path unless an identical line is already
// present, so re-running the pipeline never duplicates entries. The file
// is created when missing.
func (h *Host) AppendLineOnce(path, line string) (bool, error) {
	present, err := fileContainsLine(path, line)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	h.log.Printf("append to %s: %s", path, line)
	// #nosec G304 -- fixed pipeline paths
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return false, fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return true, nil
}

// LinesPresent reports whether every line is already present in path.
func (h *Host) LinesPresent(path string, lines []string) bool {
	for _, line := range lines {
		present, err := fileContainsLine(path, line)
		if err != nil || !present {
			return false
		}
	}
	return true
}

func fileContainsLine(path string, line string) (bool, error) {
	f, err := os.Open(path) // #nosec G304
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	target := strings.TrimRight(line, "\n")
	for scanner.Scan() {
		if scanner.Text() == target {
			return true, nil
		}
	}
	return false, scanner.Err()
}

func firstWord(s string) string {
	fields := bytes.Fields([]byte(s))
	if len(fields) == 0 {
		return s
	}
	return string(fields[0])
}
