// Package wizard implements the interactive configuration flow.
//
// The wizard produces a resolved config.Config; it is the only place where
// questions are asked. Once it returns, execution treats the configuration
// as immutable.
package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/hostforge/internal/config"
)

// Run walks the operator through all configuration groups and returns the
// resolved configuration. The context is used for cancellation (Ctrl+C).
func Run(ctx context.Context) (*config.Config, error) {
	cfg := config.Default()

	if err := runIdentityGroup(ctx, cfg); err != nil {
		return nil, fmt.Errorf("server identity: %w", err)
	}

	if err := runAccessGroup(ctx, cfg); err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}

	if err := runFeatureGroup(ctx, cfg); err != nil {
		return nil, fmt.Errorf("features: %w", err)
	}

	cfg.ApplyDefaults()
	cfg.TailscaleAuthKey = config.TailscaleKeyFromEnv()

	if cfg.Features.Tailscale && cfg.TailscaleAuthKey == "" {
		if err := runTailscaleKeyGroup(ctx, cfg); err != nil {
			return nil, fmt.Errorf("tailscale: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
