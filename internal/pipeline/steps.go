package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/imamik/hostforge/internal/config"
)

const aptEnv = "DEBIAN_FRONTEND=noninteractive"

// basePackages are installed unconditionally; everything after the package
// baseline structurally depends on them being present.
var basePackages = []string{
	"ca-certificates",
	"curl",
	"git",
	"ufw",
	"fail2ban",
	"unattended-upgrades",
}

// Definition returns the fixed, dependency-ordered step list for hardening
// and provisioning a fresh host. The order is load-bearing: package
// baseline before anything that installs, user before credential
// propagation, toolchain manager before runtimes before agent CLIs before
// containerization.
func Definition() []Step {
	return []Step{
		privilegeStep(),
		basePackagesStep(),
		createUserStep(),
		propagateCredentialsStep(),
		hardenSSHStep(),
		firewallStep(),
		intrusionBanStep(),
		swapStep(),
		autoUpdatesStep(),
		miseStep(),
		nodeStep(),
		pythonStep(),
		opencodeStep(),
		aiderStep(),
		dockerStep(),
		aliasesStep(),
		maintenanceStep(),
		tailscaleStep(),
	}
}

func privilegeStep() Step {
	return Step{
		Name:   "privilege",
		Label:  "Verifying root privilege",
		Policy: Fatal,
		Apply: func(context.Context, *Host) error {
			if os.Geteuid() != 0 {
				return fmt.Errorf("setup must run as root (euid %d)", os.Geteuid())
			}
			return nil
		},
	}
}

func basePackagesStep() Step {
	return Step{
		Name:   "base-packages",
		Label:  "Installing base packages",
		Policy: Fatal,
		Check: func(ctx context.Context, h *Host) (bool, error) {
			for _, pkg := range basePackages {
				if !h.Succeeds(ctx, "dpkg -s "+pkg) {
					return false, nil
				}
			}
			return true, nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if err := h.Run(ctx, aptEnv+" apt-get update"); err != nil {
				return err
			}
			return h.Run(ctx, aptEnv+" apt-get install -y "+strings.Join(basePackages, " "))
		},
	}
}

func createUserStep() Step {
	return Step{
		Name:   "user",
		Label:  "Creating login user",
		Policy: Fatal,
		Check: func(ctx context.Context, h *Host) (bool, error) {
			if !h.Succeeds(ctx, "id -u "+h.Cfg.Username) {
				return false, nil
			}
			return h.FileHasContent(sudoersPath(h.Cfg.Username), sudoersContent(h.Cfg.Username)), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if !h.Succeeds(ctx, "id -u "+h.Cfg.Username) {
				if err := h.Run(ctx, fmt.Sprintf("useradd -m -s /bin/bash %s", h.Cfg.Username)); err != nil {
					return err
				}
			}
			if _, err := h.WriteFile(sudoersPath(h.Cfg.Username), sudoersContent(h.Cfg.Username), 0o440); err != nil {
				return err
			}
			return nil
		},
	}
}

func propagateCredentialsStep() Step {
	return Step{
		Name:   "credentials",
		Label:  "Propagating SSH credentials",
		Policy: Fatal,
		Check: func(_ context.Context, h *Host) (bool, error) {
			rootKeys, err := os.ReadFile("/root/.ssh/authorized_keys")
			if err != nil {
				return false, err
			}
			return h.FileHasContent(authorizedKeysPath(h.Cfg.Username), string(rootKeys)), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			home := "/home/" + h.Cfg.Username
			if err := h.Run(ctx, fmt.Sprintf("install -d -m 700 -o %s -g %s %s/.ssh", h.Cfg.Username, h.Cfg.Username, home)); err != nil {
				return err
			}
			rootKeys, err := os.ReadFile("/root/.ssh/authorized_keys")
			if err != nil {
				return fmt.Errorf("failed to read root authorized_keys: %w", err)
			}
			if _, err := h.WriteFile(authorizedKeysPath(h.Cfg.Username), string(rootKeys), 0o600); err != nil {
				return err
			}
			return h.Run(ctx, fmt.Sprintf("chown %s:%s %s", h.Cfg.Username, h.Cfg.Username, authorizedKeysPath(h.Cfg.Username)))
		},
	}
}

const sshdConfigPath = "/etc/ssh/sshd_config.d/90-hostforge.conf"

const sshdConfig = `PermitRootLogin prohibit-password
PasswordAuthentication no
KbdInteractiveAuthentication no
X11Forwarding no
MaxAuthTries 4
`

func hardenSSHStep() Step {
	return Step{
		Name:   "ssh-hardening",
		Label:  "Hardening SSH daemon",
		Policy: Fatal,
		Check: func(_ context.Context, h *Host) (bool, error) {
			return h.FileHasContent(sshdConfigPath, sshdConfig), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			changed, err := h.WriteFile(sshdConfigPath, sshdConfig, 0o644)
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}
			if err := h.Run(ctx, "sshd -t"); err != nil {
				return err
			}
			return h.Run(ctx, "systemctl reload ssh || systemctl reload sshd")
		},
	}
}

func firewallStep() Step {
	return Step{
		Name:   "firewall",
		Label:  "Configuring firewall",
		Policy: Fatal,
		Check: func(ctx context.Context, h *Host) (bool, error) {
			out, err := h.Output(ctx, "ufw status verbose")
			if err != nil {
				return false, err
			}
			return strings.Contains(out, "Status: active") && strings.Contains(out, "OpenSSH"), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			// Each ufw command is idempotent; re-running converges to the
			// same rule set.
			for _, cmd := range []string{
				"ufw default deny incoming",
				"ufw default allow outgoing",
				"ufw allow OpenSSH",
				"ufw --force enable",
			} {
				if err := h.Run(ctx, cmd); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

const fail2banJailPath = "/etc/fail2ban/jail.local"

const fail2banJail = `[sshd]
enabled = true
maxretry = 5
bantime = 1h
`

func intrusionBanStep() Step {
	return Step{
		Name:   "intrusion-ban",
		Label:  "Enabling intrusion ban service",
		Policy: Fatal,
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.FileHasContent(fail2banJailPath, fail2banJail) &&
				h.Succeeds(ctx, "systemctl is-active fail2ban"), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if _, err := h.WriteFile(fail2banJailPath, fail2banJail, 0o644); err != nil {
				return err
			}
			if err := h.Run(ctx, "systemctl enable fail2ban"); err != nil {
				return err
			}
			return h.Run(ctx, "systemctl restart fail2ban")
		},
	}
}

const swapFile = "/swapfile"

func swapStep() Step {
	return Step{
		Name:   "swap",
		Label:  "Provisioning swap file",
		Policy: Fatal,
		Check: func(ctx context.Context, h *Host) (bool, error) {
			out, err := h.Output(ctx, "swapon --show=NAME --noheadings")
			if err != nil {
				return false, err
			}
			return strings.Contains(out, swapFile), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if _, err := os.Stat(swapFile); os.IsNotExist(err) {
				size := fmt.Sprintf("%dG", h.Cfg.SwapSizeGB)
				if err := h.Run(ctx, fmt.Sprintf("fallocate -l %s %s || dd if=/dev/zero of=%s bs=1M count=%d",
					size, swapFile, swapFile, h.Cfg.SwapSizeGB*1024)); err != nil {
					return err
				}
				if err := h.Run(ctx, "chmod 600 "+swapFile); err != nil {
					return err
				}
				if err := h.Run(ctx, "mkswap "+swapFile); err != nil {
					return err
				}
			}
			if err := h.Run(ctx, "swapon "+swapFile+" || true"); err != nil {
				return err
			}
			_, err := h.AppendLineOnce("/etc/fstab", swapFile+" none swap sw 0 0")
			return err
		},
	}
}

const autoUpgradesPath = "/etc/apt/apt.conf.d/20auto-upgrades"

const autoUpgradesConfig = `APT::Periodic::Update-Package-Lists "1";
APT::Periodic::Unattended-Upgrade "1";
`

func autoUpdatesStep() Step {
	return Step{
		Name:   "auto-updates",
		Label:  "Enabling unattended upgrades",
		Policy: Fatal,
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.FileHasContent(autoUpgradesPath, autoUpgradesConfig) &&
				h.Succeeds(ctx, "systemctl is-enabled unattended-upgrades"), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if _, err := h.WriteFile(autoUpgradesPath, autoUpgradesConfig, 0o644); err != nil {
				return err
			}
			return h.Run(ctx, "systemctl enable unattended-upgrades")
		},
	}
}

// asUser wraps a command in a login shell for the configured user, so
// installers land in that user's home and PATH.
func asUser(user, command string) string {
	return fmt.Sprintf("su - %s -c '%s'", user, command)
}

func miseStep() Step {
	return Step{
		Name:    "mise",
		Label:   "Installing mise toolchain manager",
		Policy:  WarnAndContinue,
		Enabled: func(cfg *config.Config) bool { return cfg.Features.Mise },
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.Succeeds(ctx, asUser(h.Cfg.Username, "test -x ~/.local/bin/mise")), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			return h.Run(ctx, asUser(h.Cfg.Username, "curl -fsSL https://mise.run | sh"))
		},
	}
}

func nodeStep() Step {
	return Step{
		Name:    "node",
		Label:   "Installing Node.js runtime",
		Policy:  WarnAndContinue,
		Enabled: func(cfg *config.Config) bool { return cfg.Features.Node },
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.Succeeds(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise which node")), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			return h.Run(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise use -g node@lts"))
		},
	}
}

func pythonStep() Step {
	return Step{
		Name:    "python",
		Label:   "Installing Python toolchain",
		Policy:  WarnAndContinue,
		Enabled: func(cfg *config.Config) bool { return cfg.Features.Python },
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.Succeeds(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise which uv")), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if err := h.Run(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise use -g python@3.12")); err != nil {
				return err
			}
			return h.Run(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise use -g uv@latest"))
		},
	}
}

func opencodeStep() Step {
	return Step{
		Name:    "opencode",
		Label:   "Installing opencode CLI",
		Policy:  WarnAndContinue,
		Enabled: func(cfg *config.Config) bool { return cfg.Features.Opencode },
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.Succeeds(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise exec -- command -v opencode")), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			return h.Run(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise exec -- npm install -g opencode-ai"))
		},
	}
}

func aiderStep() Step {
	return Step{
		Name:    "aider",
		Label:   "Installing aider CLI",
		Policy:  WarnAndContinue,
		Enabled: func(cfg *config.Config) bool { return cfg.Features.Aider },
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.Succeeds(ctx, asUser(h.Cfg.Username, "test -x ~/.local/bin/aider")), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			return h.Run(ctx, asUser(h.Cfg.Username, "~/.local/bin/mise exec -- uv tool install aider-chat"))
		},
	}
}

func dockerStep() Step {
	return Step{
		Name:    "docker",
		Label:   "Installing Docker engine",
		Policy:  WarnAndContinue,
		Enabled: func(cfg *config.Config) bool { return cfg.Features.Docker },
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.Succeeds(ctx, "command -v docker"), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if err := h.Run(ctx, "curl -fsSL https://get.docker.com | sh"); err != nil {
				return err
			}
			return h.Run(ctx, fmt.Sprintf("usermod -aG docker %s", h.Cfg.Username))
		},
	}
}

// shellLines are appended to the user's .bashrc, each guarded so repeated
// runs never duplicate them.
func shellLines() []string {
	return []string{
		`alias ll='ls -alF'`,
		`alias update='sudo apt-get update && sudo apt-get upgrade -y'`,
		`eval "$(~/.local/bin/mise activate bash 2>/dev/null || true)"`,
	}
}

func aliasesStep() Step {
	return Step{
		Name:   "aliases",
		Label:  "Writing shell configuration",
		Policy: WarnAndContinue,
		Check: func(_ context.Context, h *Host) (bool, error) {
			return h.LinesPresent(bashrcPath(h.Cfg.Username), shellLines()), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			rc := bashrcPath(h.Cfg.Username)
			for _, line := range shellLines() {
				if _, err := h.AppendLineOnce(rc, line); err != nil {
					return err
				}
			}
			return h.Run(ctx, fmt.Sprintf("chown %s:%s %s", h.Cfg.Username, h.Cfg.Username, rc))
		},
	}
}

const maintenanceScriptPath = "/etc/cron.weekly/hostforge-maintenance"

const maintenanceScript = `#!/bin/sh
# Weekly maintenance: refresh packages, clean caches, prune old journals.
set -e
export DEBIAN_FRONTEND=noninteractive
apt-get update -qq
apt-get autoremove -y -qq
apt-get autoclean -qq
journalctl --vacuum-time=14d >/dev/null 2>&1 || true
`

func maintenanceStep() Step {
	return Step{
		Name:   "maintenance",
		Label:  "Installing maintenance cron job",
		Policy: WarnAndContinue,
		Check: func(_ context.Context, h *Host) (bool, error) {
			return h.FileHasContent(maintenanceScriptPath, maintenanceScript), nil
		},
		Apply: func(_ context.Context, h *Host) error {
			_, err := h.WriteFile(maintenanceScriptPath, maintenanceScript, 0o755)
			return err
		},
	}
}

func tailscaleStep() Step {
	return Step{
		Name:   "tailscale",
		Label:  "Joining Tailscale network",
		Policy: WarnAndContinue,
		Enabled: func(cfg *config.Config) bool {
			// No auth key means nothing to join with; skip silently.
			return cfg.Features.Tailscale && cfg.TailscaleAuthKey != ""
		},
		Check: func(ctx context.Context, h *Host) (bool, error) {
			return h.Succeeds(ctx, "tailscale status"), nil
		},
		Apply: func(ctx context.Context, h *Host) error {
			if !h.Succeeds(ctx, "command -v tailscale") {
				if err := h.Run(ctx, "curl -fsSL https://tailscale.com/install.sh | sh"); err != nil {
					return err
				}
			}
			return h.Run(ctx, fmt.Sprintf("tailscale up --ssh --authkey=%s", h.Cfg.TailscaleAuthKey))
		},
	}
}

func sudoersPath(user string) string {
	return "/etc/sudoers.d/90-" + user
}

func sudoersContent(user string) string {
	return user + " ALL=(ALL) NOPASSWD:ALL\n"
}

func authorizedKeysPath(user string) string {
	return "/home/" + user + "/.ssh/authorized_keys"
}

func bashrcPath(user string) string {
	return "/home/" + user + "/.bashrc"
}
