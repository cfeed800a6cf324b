package wizard

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/imamik/hostforge/internal/config"
)

// serverNameRegex validates server names: 1-63 lowercase alphanumeric with
// hyphens, no leading or trailing hyphen.
var serverNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

var usernameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// runIdentityGroup prompts for server name, type and location.
func runIdentityGroup(ctx context.Context, cfg *config.Config) error {
	var swap string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server Name (Optional)").
				Description("Leave empty to derive one with a random suffix").
				Placeholder("my-box").
				Value(&cfg.ServerName).
				Validate(validateServerName),
			huh.NewSelect[string]().
				Title("Location").
				Description("Hetzner Cloud datacenter").
				Options(LocationOptions...).
				Value(&cfg.Location),
			huh.NewSelect[string]().
				Title("Server Type").
				Options(ServerTypeOptions...).
				Value(&cfg.ServerType),
			huh.NewSelect[string]().
				Title("Swap Size").
				Description("Swap file provisioned on first setup").
				Options(SwapSizeOptions...).
				Value(&swap),
		).Title("Server"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if swap != "" {
		n, err := strconv.Atoi(swap)
		if err != nil {
			return err
		}
		cfg.SwapSizeGB = n
	}
	return nil
}

// runAccessGroup prompts for the login user and the SSH key decision.
func runAccessGroup(ctx context.Context, cfg *config.Config) error {
	reuse := true
	keyPath, pathErr := config.DefaultKeyPath()
	haveDefault := pathErr == nil && fileExists(keyPath)

	group := []huh.Field{
		huh.NewInput().
			Title("Username").
			Description("Login user created on the host (sudo, key-only SSH)").
			Value(&cfg.Username).
			Validate(validateUsername),
		huh.NewInput().
			Title("SSH Key Path (Optional)").
			Description("Existing private key to use verbatim; leave empty for the default").
			Value(&cfg.SSHKeyPath),
	}
	if haveDefault {
		group = append(group,
			huh.NewConfirm().
				Title("Reuse existing key?").
				Description(keyPath+" already exists").
				Affirmative("Reuse").
				Negative("Regenerate").
				Value(&reuse),
		)
	}

	err := huh.NewForm(huh.NewGroup(group...).Title("Access")).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if haveDefault && !reuse && cfg.SSHKeyPath == "" {
		// Regenerate means move the old pair aside; generation itself
		// happens in the credential provisioner.
		if err := os.Rename(keyPath, keyPath+".bak"); err != nil {
			return err
		}
		_ = os.Rename(keyPath+".pub", keyPath+".pub.bak")
	}
	return nil
}

// runFeatureGroup prompts for the optional component toggles.
func runFeatureGroup(ctx context.Context, cfg *config.Config) error {
	var selected []string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Optional Components").
				Description("Runtimes implied by agents are added automatically").
				Options(FeatureOptions...).
				Value(&selected),
		).Title("Features"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	for _, s := range selected {
		switch s {
		case FeatureDocker:
			cfg.Features.Docker = true
		case FeatureTailscale:
			cfg.Features.Tailscale = true
		case FeatureNode:
			cfg.Features.Node = true
		case FeaturePython:
			cfg.Features.Python = true
		case FeatureOpencode:
			cfg.Features.Opencode = true
		case FeatureAider:
			cfg.Features.Aider = true
		}
	}
	return nil
}

// runTailscaleKeyGroup prompts for the mesh VPN auth key when the toggle is
// on but no key came from the environment.
func runTailscaleKeyGroup(ctx context.Context, cfg *config.Config) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Tailscale Auth Key").
				Description("Leave empty to skip the join step on the host").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.TailscaleAuthKey),
		).Title("Tailscale"),
	).RunWithContext(ctx)
}

func validateServerName(s string) error {
	if s == "" {
		return nil
	}
	if !serverNameRegex.MatchString(s) {
		return errors.New("1-63 lowercase alphanumeric characters or hyphens")
	}
	return nil
}

func validateUsername(s string) error {
	if !usernameRegex.MatchString(s) {
		return errors.New("1-32 lowercase alphanumeric, - or _, not starting with a digit")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
