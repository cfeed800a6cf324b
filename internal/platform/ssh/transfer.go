package ssh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
)

// Upload copies content to remotePath using the SCP sink protocol.
// The remote end only needs the stock scp binary; nothing is assumed about
// the host beyond a working shell.
func (c *Client) Upload(ctx context.Context, content []byte, remotePath string, mode os.FileMode) error {
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

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdin pipe: %w", err)
	}

	dir := path.Dir(remotePath)
	base := path.Base(remotePath)

	errCh := make(chan error, 1)
	go func() {
		defer func() { _ = stdin.Close() }()
		// SCP sink framing: C<mode> <size> <name>, payload, \0 terminator.
		if _, err := fmt.Fprintf(stdin, "C%04o %d %s\n", mode.Perm(), len(content), base); err != nil {
			errCh <- err
			return
		}
		if _, err := stdin.Write(content); err != nil {
			errCh <- err
			return
		}
		_, err := fmt.Fprint(stdin, "\x00")
		errCh <- err
	}()

	cmd := fmt.Sprintf("scp -t %s", shellQuote(dir))
	output, err := session.CombinedOutput(cmd)
	if err != nil {
		return fmt.Errorf("scp to %s failed: %w (output: %s)", remotePath, err, string(output))
	}
	if writeErr := <-errCh; writeErr != nil && writeErr != io.EOF {
		return fmt.Errorf("failed to stream %s: %w", remotePath, writeErr)
	}
	return nil
}

// shellQuote single-quotes a string for safe interpolation into a remote
// shell command line.
func shellQuote(s string) string {
	out := "'"
	for _, r := range s {
		if r == '\'' {
			out += `'\''`
			continue
		}
		out += string(r)
	}
	return out + "'"
}
