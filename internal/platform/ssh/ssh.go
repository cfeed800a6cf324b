// Package ssh implements the control channel to the target host.
//
// It supports non-interactive command execution with captured output,
// interactive sessions with a pseudo-terminal, and file transfer. One
// connection is opened per operation; the package never multiplexes
// concurrent sessions to the same host.
//
// Host key verification is disabled: the host was created seconds ago by
// this process and its key is not known anywhere yet.
package ssh

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout bounds a single connection attempt so one stalled dial
	// cannot eat the caller's whole retry budget. Zero means the default.
	DialTimeout time.Duration
}

// Client executes commands on a remote host.
// It parses the private key once during construction and creates
// connections on demand per operation.
type Client struct {
	config *Config
	signer ssh.Signer
}

// NewClient creates a new SSH client and validates the private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Addr returns the host:port this client connects to.
func (c *Client) Addr() string {
	return net.JoinHostPort(c.config.Host, fmt.Sprintf("%d", c.config.Port))
}

// User returns the remote login user.
func (c *Client) User() string {
	return c.config.User
}

// Probe attempts one full authenticated session and runs a trivial command.
// A passing probe means the host is reachable in the strong sense: sshd is
// up, the key is accepted, and command execution works. No retries; the
// caller owns the budget.
func (c *Client) Probe(ctx context.Context) error {
	client, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	_, err = c.runCommand(client, "true")
	return err
}

// Execute runs a command in a fresh session and returns its combined output.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	client, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	return c.runCommand(client, command)
}

// dial establishes a single SSH connection bounded by the dial timeout.
func (c *Client) dial(ctx context.Context) (*ssh.Client, error) {
	clientConfig := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(c.signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // fresh host, key unknown by construction
		Timeout:         c.config.DialTimeout,
	}

	dialer := net.Dialer{Timeout: c.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", c.Addr(), err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, c.Addr(), clientConfig)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", c.Addr(), err)
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

// runCommand executes a command on an established connection.
func (c *Client) runCommand(client *ssh.Client, command string) (string, error) {
	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	output, err := session.CombinedOutput(command)
	if err != nil {
		return string(output), fmt.Errorf("command failed on %s: %w", c.config.Host, err)
	}

	return string(output), nil
}
