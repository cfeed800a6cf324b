package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/hostforge/internal/config"
)

// WriteConfig writes the config to a YAML file with a descriptive header.
// The Tailscale auth key is deliberately excluded; it stays in the
// environment.
func WriteConfig(cfg *config.Config, outputPath string) error {
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader())
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func generateHeader() string {
	return fmt.Sprintf(`# hostforge configuration
# Generated by the interactive wizard on %s.
#
# Run "hostforge up" to provision a server with this configuration.
# Every key has a default; delete a line to fall back to it.
`, time.Now().Format("2006-01-02"))
}
