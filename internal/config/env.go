package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for handing the resolved configuration to
// target mode. Target mode reads these and nothing else, so the Config it
// sees is exactly the one the initiator resolved.
const (
	EnvServerName       = "HOSTFORGE_SERVER_NAME"
	EnvServerType       = "HOSTFORGE_SERVER_TYPE"
	EnvLocation         = "HOSTFORGE_LOCATION"
	EnvImage            = "HOSTFORGE_IMAGE"
	EnvUsername         = "HOSTFORGE_USERNAME"
	EnvSSHKeyPath       = "HOSTFORGE_SSH_KEY_PATH"
	EnvSwapSizeGB       = "HOSTFORGE_SWAP_SIZE_GB"
	EnvFeatureDocker    = "HOSTFORGE_FEATURE_DOCKER"
	EnvFeatureTailscale = "HOSTFORGE_FEATURE_TAILSCALE"
	EnvFeatureMise      = "HOSTFORGE_FEATURE_MISE"
	EnvFeatureNode      = "HOSTFORGE_FEATURE_NODE"
	EnvFeaturePython    = "HOSTFORGE_FEATURE_PYTHON"
	EnvFeatureOpencode  = "HOSTFORGE_FEATURE_OPENCODE"
	EnvFeatureAider     = "HOSTFORGE_FEATURE_AIDER"
	EnvTailscaleAuthKey = "HOSTFORGE_TAILSCALE_AUTH_KEY"
)

// EnvTSAuthKey is the conventional Tailscale variable, accepted on the
// initiator as an alternative to EnvTailscaleAuthKey.
const EnvTSAuthKey = "TS_AUTHKEY"

// TailscaleKeyFromEnv returns the auth key from the environment, preferring
// the conventional Tailscale variable.
func TailscaleKeyFromEnv() string {
	if v := os.Getenv(EnvTSAuthKey); v != "" {
		return v
	}
	return os.Getenv(EnvTailscaleAuthKey)
}

// ToEnv serializes the configuration as KEY=VALUE pairs for the remote
// target-mode invocation.
func (c *Config) ToEnv() []string {
	pair := func(k, v string) string { return k + "=" + v }
	boolPair := func(k string, v bool) string { return pair(k, strconv.FormatBool(v)) }

	env := []string{
		pair(EnvServerName, c.ServerName),
		pair(EnvServerType, c.ServerType),
		pair(EnvLocation, c.Location),
		pair(EnvImage, c.Image),
		pair(EnvUsername, c.Username),
		pair(EnvSSHKeyPath, c.SSHKeyPath),
		pair(EnvSwapSizeGB, strconv.Itoa(c.SwapSizeGB)),
		boolPair(EnvFeatureDocker, c.Features.Docker),
		boolPair(EnvFeatureTailscale, c.Features.Tailscale),
		boolPair(EnvFeatureMise, c.Features.Mise),
		boolPair(EnvFeatureNode, c.Features.Node),
		boolPair(EnvFeaturePython, c.Features.Python),
		boolPair(EnvFeatureOpencode, c.Features.Opencode),
		boolPair(EnvFeatureAider, c.Features.Aider),
	}
	if c.TailscaleAuthKey != "" {
		env = append(env, pair(EnvTailscaleAuthKey, c.TailscaleAuthKey))
	}
	return env
}

// FromEnv builds a Config from environment variables using the supplied
// lookup function (os.LookupEnv in production). Unset keys fall back to
// defaults; malformed values are errors rather than silent defaults.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	str(EnvServerName, &cfg.ServerName)
	str(EnvServerType, &cfg.ServerType)
	str(EnvLocation, &cfg.Location)
	str(EnvImage, &cfg.Image)
	str(EnvUsername, &cfg.Username)
	str(EnvSSHKeyPath, &cfg.SSHKeyPath)
	str(EnvTailscaleAuthKey, &cfg.TailscaleAuthKey)

	if v, ok := lookup(EnvSwapSizeGB); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s=%q: %w", EnvSwapSizeGB, v, err)
		}
		cfg.SwapSizeGB = n
	}

	boolKeys := []struct {
		key string
		dst *bool
	}{
		{EnvFeatureDocker, &cfg.Features.Docker},
		{EnvFeatureTailscale, &cfg.Features.Tailscale},
		{EnvFeatureMise, &cfg.Features.Mise},
		{EnvFeatureNode, &cfg.Features.Node},
		{EnvFeaturePython, &cfg.Features.Python},
		{EnvFeatureOpencode, &cfg.Features.Opencode},
		{EnvFeatureAider, &cfg.Features.Aider},
	}
	for _, bk := range boolKeys {
		v, ok := lookup(bk.key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s=%q: %w", bk.key, v, err)
		}
		*bk.dst = b
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration from environment invalid: %w", err)
	}
	return cfg, nil
}

// FromOSEnv builds a Config from the process environment.
func FromOSEnv() (*Config, error) {
	return FromEnv(os.LookupEnv)
}
