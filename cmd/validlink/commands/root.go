// Package commands provides the CLI commands for validlink.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/internal/version"
	"github.com/abdul-hamid-achik/validlink/pkg/logger"
)

// configFile is the global --config flag
var configFile string

var rootCmd = &cobra.Command{
	Use:   "validlink",
	Short: "validlink - check the links of Markdown and MDX documents",
	Long: `validlink checks the links of a site's Markdown and MDX documents against
the URLs its framework routes produce, including #fragments and ?queries.

Quick Start:
  validlink init       Create a validlink.yaml config
  validlink scan       List the URLs of the site
  validlink check      Check the links of the configured documents
  validlink mcp        Serve the checks to LLM agents over MCP

Documentation: https://github.com/abdul-hamid-achik/validlink`,
	Version:      version.GetVersion(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return logger.SetupFromFlags(cmd)
	},
}

// Execute runs the root command. Usage errors exit with status 2.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for automation and LLM agents)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: validlink.{yaml,yml,json} in the working directory)")
	logger.AddFlags(rootCmd)

	// Commands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(headingsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
