package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// RealClient implements Client using the Hetzner Cloud API.
type RealClient struct {
	client *hcloud.Client
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(hc *hcloud.Client) ClientOption {
	return func(c *RealClient) {
		c.client = hc
	}
}

// NewRealClient creates a new RealClient with optional configuration.
func NewRealClient(token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		client: hcloud.NewClient(hcloud.WithToken(token)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSSHKey registers a public key with the provider.
func (c *RealClient) CreateSSHKey(ctx context.Context, name, publicKey string) (*SSHKey, error) {
	key, _, err := c.client.SSHKey.Create(ctx, hcloud.SSHKeyCreateOpts{
		Name:      name,
		PublicKey: publicKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh key: %w", err)
	}
	return &SSHKey{ID: key.ID, Name: key.Name, Fingerprint: key.Fingerprint}, nil
}

// GetSSHKeyByFingerprint looks up an existing registration by fingerprint.
func (c *RealClient) GetSSHKeyByFingerprint(ctx context.Context, fingerprint string) (*SSHKey, error) {
	key, _, err := c.client.SSHKey.GetByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up ssh key by fingerprint: %w", err)
	}
	if key == nil {
		return nil, nil
	}
	return &SSHKey{ID: key.ID, Name: key.Name, Fingerprint: key.Fingerprint}, nil
}

// CreateServer issues one create call and returns the acknowledged resource.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*Server, error) {
	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	result, _, err := c.client.Server.Create(ctx, createOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return serverFromAPI(result.Server), nil
}

// buildServerCreateOpts resolves named dependencies into API objects.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", opts.ServerType)
	}

	image, _, err := c.client.Image.GetForArchitecture(ctx, opts.Image, serverType.Architecture)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get image: %w", err)
	}
	if image == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("image not found: %s", opts.Image)
	}

	location, _, err := c.client.Location.Get(ctx, opts.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("location not found: %s", opts.Location)
	}

	sshKeys := make([]*hcloud.SSHKey, 0, len(opts.SSHKeyIDs))
	for _, id := range opts.SSHKeyIDs {
		sshKeys = append(sshKeys, &hcloud.SSHKey{ID: id})
	}

	return hcloud.ServerCreateOpts{
		Name:             opts.Name,
		ServerType:       serverType,
		Image:            image,
		Location:         location,
		SSHKeys:          sshKeys,
		Labels:           opts.Labels,
		StartAfterCreate: hcloud.Ptr(opts.Start),
	}, nil
}

// GetServerByName returns the server with the given name, or (nil, nil).
func (c *RealClient) GetServerByName(ctx context.Context, name string) (*Server, error) {
	server, _, err := c.client.Server.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return nil, nil
	}
	return serverFromAPI(server), nil
}

func serverFromAPI(s *hcloud.Server) *Server {
	out := &Server{
		ID:     s.ID,
		Name:   s.Name,
		Status: string(s.Status),
	}
	if s.PublicNet.IPv4.IP != nil {
		out.PublicIPv4 = s.PublicNet.IPv4.IP.String()
	}
	return out
}
