package provision

import (
	"context"
	"fmt"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/platform/hcloud"
	"github.com/imamik/hostforge/internal/util/naming"
)

// Instance is the provisioned server. It is usable only after Addr is
// non-empty and a control connection has succeeded; the create
// acknowledgement alone is not sufficient.
type Instance struct {
	ID   int64
	Name string
	Addr string
}

// CreateInstance creates the server resource with immediate start and
// extracts the assigned public address.
//
// One create call, no retry: a failed create is a quota, billing or
// parameter problem that an identical repetition cannot fix. A derived
// name carries a random suffix; the negligible collision risk is the
// operator's to resolve.
func CreateInstance(ctx context.Context, cloud hcloud.Client, cfg *config.Config, cred *Credential) (*Instance, error) {
	name := naming.Server(cfg.ServerName)

	server, err := cloud.CreateServer(ctx, hcloud.ServerCreateOpts{
		Name:       name,
		ServerType: cfg.ServerType,
		Image:      cfg.Image,
		Location:   cfg.Location,
		SSHKeyIDs:  []int64{cred.ProviderID},
		Labels:     map[string]string{"managed-by": "hostforge"},
		Start:      true,
	})
	if err != nil {
		return nil, &ProviderAPIError{Op: "server creation", Err: err}
	}

	if server.PublicIPv4 == "" {
		return nil, &ProviderAPIError{
			Op:  "server creation",
			Err: fmt.Errorf("server %s was created without a public address", name),
		}
	}

	return &Instance{
		ID:   server.ID,
		Name: server.Name,
		Addr: server.PublicIPv4,
	}, nil
}
