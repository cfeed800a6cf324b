// Package hcloud provides a typed wrapper around the Hetzner Cloud API.
//
// The wrapper performs no retries of its own; callers decide retry policy.
package hcloud

import "context"

// SSHKey is a provider-side SSH key registration.
type SSHKey struct {
	ID          int64
	Name        string
	Fingerprint string
}

// Server is a provider-side server resource. PublicIPv4 is empty until the
// provider has assigned an address.
type Server struct {
	ID         int64
	Name       string
	Status     string
	PublicIPv4 string
}

// ServerCreateOpts holds all parameters for creating a server.
type ServerCreateOpts struct {
	Name       string
	ServerType string
	Image      string
	Location   string
	SSHKeyIDs  []int64
	Labels     map[string]string
	// Start requests that the server boots immediately after creation.
	Start bool
}

// Client defines the provider operations the provisioners need.
type Client interface {
	// CreateSSHKey registers a public key. The provider rejects duplicate
	// key material regardless of name.
	CreateSSHKey(ctx context.Context, name, publicKey string) (*SSHKey, error)

	// GetSSHKeyByFingerprint looks up an existing registration by its MD5
	// fingerprint. Returns (nil, nil) when no key matches.
	GetSSHKeyByFingerprint(ctx context.Context, fingerprint string) (*SSHKey, error)

	// CreateServer issues a single create call and returns the resource as
	// acknowledged by the API, including any assigned public address.
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*Server, error)

	// GetServerByName returns the server with the given name, or (nil, nil)
	// if it does not exist.
	GetServerByName(ctx context.Context, name string) (*Server, error)
}
