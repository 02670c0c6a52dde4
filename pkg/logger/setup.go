package logger

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddFlags registers the logging flags on cmd.
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("log-level", string(InfoLevel), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
}

// SetupFromFlags installs the default logger from the flags added by AddFlags.
func SetupFromFlags(cmd *cobra.Command) error {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return fmt.Errorf("failed to get log-json flag: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.JSON = asJSON
	Init(cfg)
	return nil
}
