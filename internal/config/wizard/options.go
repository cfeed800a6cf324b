package wizard

import "github.com/charmbracelet/huh"

// Feature identifiers used by the multi-select.
const (
	FeatureDocker    = "docker"
	FeatureTailscale = "tailscale"
	FeatureNode      = "node"
	FeaturePython    = "python"
	FeatureOpencode  = "opencode"
	FeatureAider     = "aider"
)

// LocationOptions lists the Hetzner Cloud datacenters.
var LocationOptions = []huh.Option[string]{
	huh.NewOption("Falkenstein, Germany (fsn1)", "fsn1"),
	huh.NewOption("Nuremberg, Germany (nbg1)", "nbg1"),
	huh.NewOption("Helsinki, Finland (hel1)", "hel1"),
	huh.NewOption("Ashburn, VA, USA (ash)", "ash"),
	huh.NewOption("Hillsboro, OR, USA (hil)", "hil"),
	huh.NewOption("Singapore (sin)", "sin"),
}

// ServerTypeOptions lists common shared-vCPU server types.
var ServerTypeOptions = []huh.Option[string]{
	huh.NewOption("CX22 (2 vCPU, 4 GB, default)", "cx22"),
	huh.NewOption("CX32 (4 vCPU, 8 GB)", "cx32"),
	huh.NewOption("CX42 (8 vCPU, 16 GB)", "cx42"),
	huh.NewOption("CAX11 (2 vCPU ARM, 4 GB)", "cax11"),
	huh.NewOption("CAX21 (4 vCPU ARM, 8 GB)", "cax21"),
}

// SwapSizeOptions lists supported swap sizes in GB.
var SwapSizeOptions = []huh.Option[string]{
	huh.NewOption("1 GB", "1"),
	huh.NewOption("2 GB (default)", "2"),
	huh.NewOption("4 GB", "4"),
	huh.NewOption("8 GB", "8"),
}

// FeatureOptions lists the optional component toggles.
var FeatureOptions = []huh.Option[string]{
	huh.NewOption("Docker (container runtime)", FeatureDocker),
	huh.NewOption("Tailscale (mesh VPN)", FeatureTailscale),
	huh.NewOption("Node.js runtime", FeatureNode),
	huh.NewOption("Python toolchain (uv)", FeaturePython),
	huh.NewOption("opencode CLI", FeatureOpencode),
	huh.NewOption("aider CLI", FeatureAider),
}
