package pipeline

import (
	"fmt"
	"os"
	"time"
)

// DefaultLogPath is where full step output is captured on the host.
const DefaultLogPath = "/var/log/hostforge-setup.log"

// EnvLogPath overrides the log location, mainly for tests.
const EnvLogPath = "HOSTFORGE_LOG"

// RunLog is the append-only record of all step output. Every executed
// step's full output lands here, success or failure, while the live
// terminal only shows the terse status line.
type RunLog struct {
	f    *os.File
	path string
}

// OpenRunLog opens (or creates) the log file for appending.
func OpenRunLog(path string) (*RunLog, error) {
	if path == "" {
		path = DefaultLogPath
		if env := os.Getenv(EnvLogPath); env != "" {
			path = env
		}
	}
	// #nosec G304 -- fixed path or operator override
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}
	return &RunLog{f: f, path: path}, nil
}

// Path returns the log file location for surfacing in failure messages.
func (l *RunLog) Path() string {
	return l.path
}

// Section writes a timestamped step header.
func (l *RunLog) Section(name string) {
	fmt.Fprintf(l.f, "\n===== %s | %s =====\n", time.Now().Format(time.RFC3339), name)
}

// Printf appends a formatted line.
func (l *RunLog) Printf(format string, args ...any) {
	fmt.Fprintf(l.f, format+"\n", args...)
}

// Write appends raw output.
func (l *RunLog) Write(p []byte) (int, error) {
	return l.f.Write(p)
}

// Close flushes and closes the underlying file.
func (l *RunLog) Close() error {
	return l.f.Close()
}
