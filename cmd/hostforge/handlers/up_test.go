package handlers

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostforge/internal/config"
	hcloudplatform "github.com/imamik/hostforge/internal/platform/hcloud"
	sshplatform "github.com/imamik/hostforge/internal/platform/ssh"
	"github.com/imamik/hostforge/internal/provision"
	"github.com/imamik/hostforge/internal/util/prerequisites"
)

type fakeCloud struct{}

func (fakeCloud) CreateSSHKey(context.Context, string, string) (*hcloudplatform.SSHKey, error) {
	return &hcloudplatform.SSHKey{ID: 1}, nil
}

func (fakeCloud) GetSSHKeyByFingerprint(context.Context, string) (*hcloudplatform.SSHKey, error) {
	return nil, nil
}

func (fakeCloud) CreateServer(context.Context, hcloudplatform.ServerCreateOpts) (*hcloudplatform.Server, error) {
	return &hcloudplatform.Server{ID: 2, PublicIPv4: "192.0.2.10"}, nil
}

func (fakeCloud) GetServerByName(context.Context, string) (*hcloudplatform.Server, error) {
	return nil, nil
}

type fakeRemote struct {
	uploadedPath string
	uploadedMode os.FileMode
	uploadedLen  int
	command      string
	interactErr  error
}

func (f *fakeRemote) Probe(context.Context) error { return nil }

func (f *fakeRemote) Upload(_ context.Context, content []byte, remotePath string, mode os.FileMode) error {
	f.uploadedPath = remotePath
	f.uploadedMode = mode
	f.uploadedLen = len(content)
	return nil
}

func (f *fakeRemote) Interactive(_ context.Context, command string, _ io.Reader, _, _ io.Writer) error {
	f.command = command
	return f.interactErr
}

// stubUpDeps replaces every collaborator of Up with a test double and
// restores the originals afterwards.
func stubUpDeps(t *testing.T, remote *fakeRemote) {
	t.Helper()

	origNewCloud := newCloudClient
	origNewSSH := newSSHClient
	origEnsure := ensureCredential
	origCreate := createInstance
	origWait := waitReachable
	origPrereqs := checkInitiatorPrereqs
	origLoad := loadConfigFile
	origFind := findConfigFile
	origExe := executablePath
	origRead := readFile
	origTerminal := stdoutIsTerminal
	t.Cleanup(func() {
		newCloudClient = origNewCloud
		newSSHClient = origNewSSH
		ensureCredential = origEnsure
		createInstance = origCreate
		waitReachable = origWait
		checkInitiatorPrereqs = origPrereqs
		loadConfigFile = origLoad
		findConfigFile = origFind
		executablePath = origExe
		readFile = origRead
		stdoutIsTerminal = origTerminal
	})

	newCloudClient = func(string) hcloudplatform.Client { return fakeCloud{} }
	newSSHClient = func(*sshplatform.Config) (remoteHost, error) { return remote, nil }
	ensureCredential = func(context.Context, hcloudplatform.Client, string, bool) (*provision.Credential, error) {
		return &provision.Credential{ProviderID: 1, PrivateKey: []byte("key")}, nil
	}
	createInstance = func(_ context.Context, _ hcloudplatform.Client, cfg *config.Config, _ *provision.Credential) (*provision.Instance, error) {
		return &provision.Instance{ID: 2, Name: "hostforge-test1", Addr: "192.0.2.10"}, nil
	}
	waitReachable = func(context.Context, provision.Prober, string, int, time.Duration) error { return nil }
	checkInitiatorPrereqs = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	findConfigFile = func() string { return "hostforge.yaml" }
	loadConfigFile = func(string) (*config.Config, error) {
		cfg := config.Default()
		cfg.ServerName = "devbox"
		cfg.Features.Docker = true
		return cfg, nil
	}
	executablePath = func() (string, error) { return "/proc/self/exe", nil }
	readFile = func(string) ([]byte, error) { return []byte("ELF..."), nil }
	stdoutIsTerminal = func() bool { return false }
}

func TestUpMissingToken(t *testing.T) {
	remote := &fakeRemote{}
	stubUpDeps(t, remote)
	t.Setenv(config.EnvToken, "")

	err := Up(context.Background(), "", true)
	assert.ErrorIs(t, err, config.ErrMissingToken)
}

func TestUpHappyPath(t *testing.T) {
	remote := &fakeRemote{}
	stubUpDeps(t, remote)
	t.Setenv(config.EnvToken, "test-token")

	err := Up(context.Background(), "", true)
	require.NoError(t, err)

	assert.Equal(t, remoteBinaryPath, remote.uploadedPath)
	assert.Equal(t, os.FileMode(0o755), remote.uploadedMode)
	assert.Positive(t, remote.uploadedLen)

	assert.True(t, strings.HasPrefix(remote.command, "env "), "command: %s", remote.command)
	assert.Contains(t, remote.command, remoteBinaryPath+" setup")
	assert.Contains(t, remote.command, config.EnvServerName+"='devbox'")
	assert.Contains(t, remote.command, config.EnvFeatureDocker+"='true'")
}

func TestUpPropagatesRemoteExitStatus(t *testing.T) {
	remote := &fakeRemote{interactErr: &sshplatform.ExitError{Status: 3}}
	stubUpDeps(t, remote)
	t.Setenv(config.EnvToken, "test-token")

	err := Up(context.Background(), "", true)
	var exitErr *sshplatform.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Status)
}

func TestResolveConfigNoFileNoTerminal(t *testing.T) {
	stubUpDeps(t, &fakeRemote{})
	findConfigFile = func() string { return "" }

	_, err := resolveConfig(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hostforge init")
}

func TestRemoteSetupCommandQuoting(t *testing.T) {
	cfg := config.Default()
	cfg.TailscaleAuthKey = "ts-key-with'quote"

	cmd := remoteSetupCommand(cfg)
	assert.Contains(t, cmd, `ts-key-with'\''quote`)
}
