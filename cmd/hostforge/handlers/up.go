// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/config/wizard"
	hcloudplatform "github.com/imamik/hostforge/internal/platform/hcloud"
	sshplatform "github.com/imamik/hostforge/internal/platform/ssh"
	"github.com/imamik/hostforge/internal/provision"
	"github.com/imamik/hostforge/internal/ui"
	"github.com/imamik/hostforge/internal/ui/tui"
	"github.com/imamik/hostforge/internal/util/prerequisites"
)

// remoteBinaryPath is where the initiator installs itself on the target.
const remoteBinaryPath = "/usr/local/bin/hostforge"

// Function variables - can be replaced in tests for dependency injection.
var (
	// newCloudClient creates the provider API client.
	newCloudClient = func(token string) hcloudplatform.Client {
		return hcloudplatform.NewRealClient(token)
	}

	// newSSHClient creates the control-channel client.
	newSSHClient = func(cfg *sshplatform.Config) (remoteHost, error) {
		return sshplatform.NewClient(cfg)
	}

	ensureCredential      = provision.EnsureCredential
	createInstance        = provision.CreateInstance
	waitReachable         = provision.WaitReachable
	checkInitiatorPrereqs = prerequisites.CheckInitiator
	loadConfigFile        = config.LoadFile
	findConfigFile        = config.FindConfigFile
	runWizard             = wizard.Run
	writeConfigFile       = wizard.WriteConfig
	executablePath        = os.Executable
	readFile              = os.ReadFile

	stdoutIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
	}
)

// remoteHost is the control channel to the provisioned server.
// *sshplatform.Client satisfies it; tests substitute a fake.
type remoteHost interface {
	Probe(ctx context.Context) error
	Upload(ctx context.Context, content []byte, remotePath string, mode os.FileMode) error
	Interactive(ctx context.Context, command string, stdin io.Reader, stdout, stderr io.Writer) error
}

// Up provisions a server and runs the setup pipeline on it.
//
// The workflow:
//  1. Checks local prerequisites and resolves the configuration
//     (file, auto-detected file, or interactive wizard).
//  2. Ensures the SSH credential exists locally and is registered with the
//     provider, reconciling by fingerprint when already present.
//  3. Creates the server and polls until it accepts authenticated SSH
//     connections.
//  4. Uploads this binary to the server and re-invokes it there in setup
//     mode, with the configuration passed as environment variables.
//
// The remote run happens in an interactive PTY session: the operator
// watches the pipeline output live and any prompting step (such as a
// device-auth URL) stays usable. The remote exit status propagates to the
// caller as *sshplatform.ExitError.
func Up(ctx context.Context, configPath string, plain bool) error {
	if err := checkInitiatorPrereqs().Error(); err != nil {
		return err
	}

	cfg, err := resolveConfig(ctx, configPath)
	if err != nil {
		return err
	}

	// Fail on a missing token before any resource is touched.
	token := os.Getenv(config.EnvToken)
	if token == "" {
		return config.ErrMissingToken
	}
	cloud := newCloudClient(token)

	var (
		host remoteHost
		inst *provision.Instance
	)

	if stdoutIsTerminal() && !plain {
		err = tui.RunProvisionTUI(func(ch chan<- tui.PhaseMsg) error {
			var provErr error
			host, inst, provErr = provisionHost(ctx, cloud, cfg, func(m tui.PhaseMsg) { ch <- m })
			return provErr
		}, displayName(cfg), cfg.Location)
	} else {
		printer := ui.NewPrinter(os.Stdout)
		printer.Headline("hostforge: provisioning %s (%s)", displayName(cfg), cfg.Location)
		host, inst, err = provisionHost(ctx, cloud, cfg, plainPhaseReporter(printer))
	}
	if err != nil {
		return err
	}

	printer := ui.NewPrinter(os.Stdout)
	printer.Success("Server %s ready at %s", inst.Name, inst.Addr)
	printer.Info("Starting setup...")

	if err := host.Interactive(ctx, remoteSetupCommand(cfg), os.Stdin, os.Stdout, os.Stderr); err != nil {
		return err
	}

	printer.Success("Setup finished.")
	printer.Info("Connect with: ssh %s@%s", cfg.Username, inst.Addr)
	return nil
}

// provisionHost runs the local provisioning phases and returns the control
// channel to the ready host.
func provisionHost(
	ctx context.Context,
	cloud hcloudplatform.Client,
	cfg *config.Config,
	report func(tui.PhaseMsg),
) (remoteHost, *provision.Instance, error) {
	report(tui.PhaseMsg{Key: tui.PhaseCredential})
	keyPath := cfg.SSHKeyPath
	explicit := keyPath != ""
	if !explicit {
		var err error
		keyPath, err = config.DefaultKeyPath()
		if err != nil {
			return nil, nil, err
		}
	}
	cred, err := ensureCredential(ctx, cloud, keyPath, explicit)
	if err != nil {
		report(tui.PhaseMsg{Key: tui.PhaseCredential, Err: err})
		return nil, nil, err
	}
	report(tui.PhaseMsg{Key: tui.PhaseCredential, Done: true})

	report(tui.PhaseMsg{Key: tui.PhaseServer})
	inst, err := createInstance(ctx, cloud, cfg, cred)
	if err != nil {
		report(tui.PhaseMsg{Key: tui.PhaseServer, Err: err})
		return nil, nil, err
	}
	report(tui.PhaseMsg{Key: tui.PhaseServer, Done: true})

	report(tui.PhaseMsg{Key: tui.PhaseReachable})
	host, err := newSSHClient(&sshplatform.Config{
		Host:       inst.Addr,
		User:       "root",
		PrivateKey: cred.PrivateKey,
	})
	if err != nil {
		report(tui.PhaseMsg{Key: tui.PhaseReachable, Err: err})
		return nil, nil, err
	}
	if err := waitReachable(ctx, host, inst.Addr, 0, 0); err != nil {
		report(tui.PhaseMsg{Key: tui.PhaseReachable, Err: err})
		return nil, nil, err
	}
	report(tui.PhaseMsg{Key: tui.PhaseReachable, Done: true})

	report(tui.PhaseMsg{Key: tui.PhaseUpload})
	exe, err := executablePath()
	if err != nil {
		report(tui.PhaseMsg{Key: tui.PhaseUpload, Err: err})
		return nil, nil, fmt.Errorf("failed to locate own binary: %w", err)
	}
	binary, err := readFile(exe)
	if err != nil {
		report(tui.PhaseMsg{Key: tui.PhaseUpload, Err: err})
		return nil, nil, fmt.Errorf("failed to read own binary: %w", err)
	}
	if err := host.Upload(ctx, binary, remoteBinaryPath, 0o755); err != nil {
		report(tui.PhaseMsg{Key: tui.PhaseUpload, Err: err})
		return nil, nil, err
	}
	report(tui.PhaseMsg{Key: tui.PhaseUpload, Done: true})

	return host, inst, nil
}

// resolveConfig loads the configuration from the given path, an
// auto-detected file, or the interactive wizard as a last resort. A wizard
// result is persisted so the next run skips the questions.
func resolveConfig(ctx context.Context, configPath string) (*config.Config, error) {
	if configPath != "" {
		return loadConfigFile(configPath)
	}
	if found := findConfigFile(); found != "" {
		return loadConfigFile(found)
	}
	if !stdoutIsTerminal() {
		return nil, fmt.Errorf("no config file found: run 'hostforge init' to create one")
	}

	cfg, err := runWizard(ctx)
	if err != nil {
		return nil, err
	}
	if err := writeConfigFile(cfg, config.DefaultFileName); err != nil {
		return nil, err
	}
	return cfg, nil
}

// remoteSetupCommand builds the target-mode invocation, serializing the
// configuration as environment variables on the command line.
func remoteSetupCommand(cfg *config.Config) string {
	pairs := cfg.ToEnv()
	quoted := make([]string, 0, len(pairs))
	for _, p := range pairs {
		key, value, _ := strings.Cut(p, "=")
		quoted = append(quoted, key+"="+singleQuote(value))
	}
	return "env " + strings.Join(quoted, " ") + " " + remoteBinaryPath + " setup"
}

// singleQuote makes a string safe inside a POSIX shell command line.
func singleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func displayName(cfg *config.Config) string {
	if cfg.ServerName != "" {
		return cfg.ServerName
	}
	return "new host"
}

// plainPhaseReporter prints phase transitions as lines for non-terminal
// output.
func plainPhaseReporter(p *ui.Printer) func(tui.PhaseMsg) {
	labels := map[string]string{
		tui.PhaseCredential: "SSH credential",
		tui.PhaseServer:     "Server creation",
		tui.PhaseReachable:  "Waiting for SSH",
		tui.PhaseUpload:     "Uploading installer",
	}
	return func(m tui.PhaseMsg) {
		label := labels[m.Key]
		switch {
		case m.Err != nil:
			p.Failure("%s: %v", label, m.Err)
		case m.Done:
			p.Success("%s", label)
		default:
			p.Phase("%s...", label)
		}
	}
}
