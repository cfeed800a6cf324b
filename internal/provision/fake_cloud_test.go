package provision

import (
	"context"
	"errors"

	"github.com/imamik/hostforge/internal/platform/hcloud"
)

// fakeCloud implements hcloud.Client for provisioner tests.
type fakeCloud struct {
	createKeyErr    error
	createdKey      *hcloud.SSHKey
	createKeyCalls  int
	registeredByFP  map[string]*hcloud.SSHKey
	lookupErr       error
	lookupCalls     int
	createServerErr error
	createdServer   *hcloud.Server
	lastServerOpts  hcloud.ServerCreateOpts
	servers         map[string]*hcloud.Server
}

var errNotImplemented = errors.New("not implemented in fake")

func (f *fakeCloud) CreateSSHKey(_ context.Context, name, _ string) (*hcloud.SSHKey, error) {
	f.createKeyCalls++
	if f.createKeyErr != nil {
		return nil, f.createKeyErr
	}
	if f.createdKey != nil {
		return f.createdKey, nil
	}
	return &hcloud.SSHKey{ID: 1, Name: name, Fingerprint: "aa:bb"}, nil
}

func (f *fakeCloud) GetSSHKeyByFingerprint(_ context.Context, fp string) (*hcloud.SSHKey, error) {
	f.lookupCalls++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.registeredByFP[fp], nil
}

func (f *fakeCloud) CreateServer(_ context.Context, opts hcloud.ServerCreateOpts) (*hcloud.Server, error) {
	f.lastServerOpts = opts
	if f.createServerErr != nil {
		return nil, f.createServerErr
	}
	if f.createdServer != nil {
		return f.createdServer, nil
	}
	return &hcloud.Server{ID: 42, Name: opts.Name, Status: "initializing", PublicIPv4: "203.0.113.7"}, nil
}

func (f *fakeCloud) GetServerByName(_ context.Context, name string) (*hcloud.Server, error) {
	if f.servers == nil {
		return nil, nil
	}
	return f.servers[name], nil
}
