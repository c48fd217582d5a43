package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zyl/internal/diag"
	"zyl/internal/driver"
	"zyl/internal/source"
)

// loadSession builds a session from the --config flag plus command-line
// overrides. Empty overrides keep the configured values.
func loadSession(cmd *cobra.Command, dialectOverride string, stackOverride int) (*driver.Session, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := driver.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dialectOverride != "" {
		cfg.Dialect = dialectOverride
	}
	if stackOverride > 0 {
		cfg.StackLimit = stackOverride
	}
	return driver.NewSession(cfg)
}

// reportDiagnostics renders a bag to stderr, if it holds anything.
func reportDiagnostics(fs *source.FileSet, bag *diag.Bag) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	diag.RenderAll(os.Stderr, fs, bag)
}
