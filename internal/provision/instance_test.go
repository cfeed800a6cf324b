package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/hostforge/internal/config"
	hcloudwrap "github.com/imamik/hostforge/internal/platform/hcloud"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.ApplyDefaults()
	return cfg
}

func TestCreateInstance(t *testing.T) {
	t.Parallel()
	cloud := &fakeCloud{}
	cfg := testConfig()
	cfg.ServerName = "my-box"

	inst, err := CreateInstance(context.Background(), cloud, cfg, &Credential{ProviderID: 101})
	require.NoError(t, err)

	assert.Equal(t, int64(42), inst.ID)
	assert.Equal(t, "my-box", inst.Name)
	assert.Equal(t, "203.0.113.7", inst.Addr)

	opts := cloud.lastServerOpts
	assert.Equal(t, "my-box", opts.Name)
	assert.Equal(t, "cx22", opts.ServerType)
	assert.Equal(t, "ubuntu-24.04", opts.Image)
	assert.Equal(t, "fsn1", opts.Location)
	assert.Equal(t, []int64{101}, opts.SSHKeyIDs)
	assert.True(t, opts.Start, "server must be started immediately")
}

func TestCreateInstance_DerivesName(t *testing.T) {
	t.Parallel()
	cloud := &fakeCloud{}
	cfg := testConfig()

	_, err := CreateInstance(context.Background(), cloud, cfg, &Credential{ProviderID: 1})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(cloud.lastServerOpts.Name, "hostforge-"),
		"derived name should carry the tool prefix, got %q", cloud.lastServerOpts.Name)
}

func TestCreateInstance_APIErrorIsFatal(t *testing.T) {
	t.Parallel()
	cloud := &fakeCloud{createServerErr: errors.New("quota exceeded")}

	_, err := CreateInstance(context.Background(), cloud, testConfig(), &Credential{ProviderID: 1})
	require.Error(t, err)

	var apiErr *ProviderAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "server creation", apiErr.Op)
}

func TestCreateInstance_MissingAddressIsFatal(t *testing.T) {
	t.Parallel()
	cloud := &fakeCloud{
		createdServer: &hcloudwrap.Server{ID: 9, Name: "x", Status: "initializing"},
	}

	_, err := CreateInstance(context.Background(), cloud, testConfig(), &Credential{ProviderID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without a public address")
}
