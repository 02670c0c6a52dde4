package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/pkg/logger"
	"github.com/abdul-hamid-achik/validlink/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for LLM agents",
	Long: `Serve validlink as Model Context Protocol tools on stdin/stdout.

Tools:
  scan_urls           List the URLs of a project
  validate_links      Check the links of its documents
  project_info        Show the resolved configuration
  document_headings   List the fragment ids of a document

Example client configuration:
  {"command": "validlink", "args": ["mcp", "--workdir", "/path/to/site"]}`,
	Run: runMCP,
}

var mcpWorkdir string

func init() {
	mcpCmd.Flags().StringVar(&mcpWorkdir, "workdir", "", "Directory tool paths are relative to (default: working directory)")
}

func runMCP(cmd *cobra.Command, args []string) {
	workdir := mcpWorkdir
	if workdir == "" {
		wd, err := os.Getwd()
		if err != nil {
			exitWithError(fmt.Errorf("failed to get working directory: %w", err))
		}
		workdir = wd
	}

	logger.FromContext(cmd.Context()).Debug("starting mcp server", "workdir", workdir)
	if err := mcp.NewServer(workdir).ServeStdio(); err != nil {
		exitWithError(fmt.Errorf("mcp server: %w", err))
	}
}
