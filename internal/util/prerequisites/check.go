// Package prerequisites checks that required client and host tools exist.
// Missing required tools are fatal; nothing is auto-installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// InitiatorTools returns the tools checked on the operator's machine before
// any cloud resource is touched.
func InitiatorTools() []Tool {
	return []Tool{
		{
			Name:        "ssh",
			Required:    true,
			Description: "Required to log in to the provisioned host after setup",
			InstallURL:  "https://www.openssh.com/",
		},
	}
}

// TargetTools returns the tools the setup pipeline shells out to on the
// provisioned host. These ship with the supported base image; a missing one
// means the wrong image was selected.
func TargetTools() []Tool {
	return []Tool{
		{
			Name:        "apt-get",
			Required:    true,
			Description: "Required for the package baseline and all installer steps",
			InstallURL:  "https://wiki.debian.org/apt",
		},
		{
			Name:        "systemctl",
			Required:    true,
			Description: "Required to reload sshd and enable services",
			InstallURL:  "https://systemd.io/",
		},
		{
			Name:        "bash",
			Required:    true,
			Description: "Required to run pipeline step commands",
			InstallURL:  "https://www.gnu.org/software/bash/",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := exec.LookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
			result.Version = getToolVersion(tool.Name)
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckInitiator checks the tools required in initiator mode.
func CheckInitiator() *CheckResults {
	return Check(InitiatorTools())
}

// CheckTarget checks the tools required on the provisioned host.
func CheckTarget() *CheckResults {
	return Check(TargetTools())
}

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(name string) string {
	versionFlags := []string{"--version", "version", "-V"}

	for _, flag := range versionFlags {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
