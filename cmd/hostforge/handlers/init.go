package handlers

import (
	"context"
	"fmt"
)

// Init runs the interactive wizard and writes the configuration file.
func Init(ctx context.Context, outputPath string) error {
	cfg, err := runWizard(ctx)
	if err != nil {
		return err
	}
	if err := writeConfigFile(cfg, outputPath); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", outputPath)
	fmt.Println("Run 'hostforge up' to provision the server.")
	return nil
}
