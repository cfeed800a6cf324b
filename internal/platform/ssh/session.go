package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

// ExitError reports a remote command that ran but exited non-zero.
type ExitError struct {
	Status int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("remote command exited with status %d", e.Status)
}

// Interactive runs a command in a PTY session wired to the local terminal.
// The operator's stdin stays attached for the whole run, so remote steps
// that prompt (auth URLs, confirmations) remain usable. The local terminal
// is switched to raw mode for the duration when stdin is a terminal.
func (c *Client) Interactive(ctx context.Context, command string, stdin io.Reader, stdout, stderr io.Writer) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	width, height := 120, 40
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, h, sizeErr := term.GetSize(int(f.Fd())); sizeErr == nil {
			width, height = w, h
		}
		oldState, rawErr := term.MakeRaw(int(f.Fd()))
		if rawErr == nil {
			defer func() { _ = term.Restore(int(f.Fd()), oldState) }()
		}
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty(terminalName(), height, width, modes); err != nil {
		return fmt.Errorf("failed to request pty: %w", err)
	}

	session.Stdin = stdin
	session.Stdout = stdout
	session.Stderr = stderr

	// Tear the session down if the context is cancelled mid-run.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Close()
		case <-done:
		}
	}()

	if err := session.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Status: exitErr.ExitStatus()}
		}
		return fmt.Errorf("interactive session on %s failed: %w", c.config.Host, err)
	}
	return nil
}

func terminalName() string {
	if t := os.Getenv("TERM"); t != "" {
		return t
	}
	return "xterm-256color"
}
