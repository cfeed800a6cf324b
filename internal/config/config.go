// Package config defines the resolved configuration driving a run.
//
// A Config is assembled once, in initiator mode, from the wizard or a YAML
// file, then treated as immutable: target mode receives it serialized as
// environment variables and never re-reads any ambient state.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "hostforge.yaml"

// EnvToken is the environment variable holding the Hetzner Cloud API token.
const EnvToken = "HCLOUD_TOKEN"

// ErrMissingToken is returned when no API token is available in
// non-interactive mode, before any remote resource is touched.
var ErrMissingToken = errors.New("HCLOUD_TOKEN is not set")

// usernameRegex validates login names: 1-32 lowercase alphanumeric,
// underscore or hyphen, starting with a letter or underscore.
var usernameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// Features holds the optional-component toggles. Every toggle defaults to
// false, so an omitted key is well-defined.
type Features struct {
	// Docker installs the container runtime.
	Docker bool `yaml:"docker"`
	// Tailscale joins the host to a mesh VPN (requires an auth key).
	Tailscale bool `yaml:"tailscale"`
	// Mise installs the toolchain manager.
	Mise bool `yaml:"mise"`
	// Node installs the Node.js runtime via mise.
	Node bool `yaml:"node"`
	// Python installs the Python toolchain (mise + uv).
	Python bool `yaml:"python"`
	// Opencode installs the opencode agent CLI via npm.
	Opencode bool `yaml:"opencode"`
	// Aider installs the aider agent CLI via uv.
	Aider bool `yaml:"aider"`
}

// Config is the resolved set of choices for one run.
type Config struct {
	ServerName string   `yaml:"server_name"`
	ServerType string   `yaml:"server_type"`
	Location   string   `yaml:"location"`
	Image      string   `yaml:"image"`
	Username   string   `yaml:"username"`
	SSHKeyPath string   `yaml:"ssh_key_path"`
	SwapSizeGB int      `yaml:"swap_size_gb"`
	Features   Features `yaml:"features"`

	// TailscaleAuthKey is taken from the environment only and never written
	// to the config file.
	TailscaleAuthKey string `yaml:"-"`
}

// Default returns a Config with every field at its documented default.
func Default() *Config {
	return &Config{
		ServerType: "cx22",
		Location:   "fsn1",
		Image:      "ubuntu-24.04",
		Username:   "dev",
		SwapSizeGB: 2,
	}
}

// ApplyDefaults fills zero-valued fields with their defaults and closes the
// feature implication chain: an agent CLI needs its runtime, a runtime needs
// the toolchain manager.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.ServerType == "" {
		c.ServerType = d.ServerType
	}
	if c.Location == "" {
		c.Location = d.Location
	}
	if c.Image == "" {
		c.Image = d.Image
	}
	if c.Username == "" {
		c.Username = d.Username
	}
	if c.SwapSizeGB == 0 {
		c.SwapSizeGB = d.SwapSizeGB
	}

	if c.Features.Opencode {
		c.Features.Node = true
	}
	if c.Features.Aider {
		c.Features.Python = true
	}
	if c.Features.Node || c.Features.Python {
		c.Features.Mise = true
	}
}

// Validate checks the configuration for values the provider or the pipeline
// would reject. It assumes ApplyDefaults has run.
func (c *Config) Validate() error {
	if !usernameRegex.MatchString(c.Username) {
		return fmt.Errorf("invalid username %q: must be 1-32 lowercase alphanumeric, - or _", c.Username)
	}
	if c.ServerType == "" {
		return errors.New("server_type must not be empty")
	}
	if c.Location == "" {
		return errors.New("location must not be empty")
	}
	if c.Image == "" {
		return errors.New("image must not be empty")
	}
	if c.SwapSizeGB < 1 || c.SwapSizeGB > 64 {
		return fmt.Errorf("swap_size_gb %d out of range 1-64", c.SwapSizeGB)
	}
	return nil
}

// DefaultKeyPath is the conventional location of the generated SSH key when
// no explicit path is configured.
func DefaultKeyPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ssh", "hostforge_ed25519"), nil
}
