package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/validlink/pkg/config"
	"github.com/abdul-hamid-achik/validlink/pkg/toc"
)

// jsonOutput is the global flag for JSON output mode
var jsonOutput bool

// JSONResponse is the standard response wrapper for JSON output
type JSONResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InitOutput represents the JSON output for the init command
type InitOutput struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

// HeadingsOutput represents the JSON output for the headings command
type HeadingsOutput struct {
	File     string        `json:"file"`
	Headings []toc.Heading `json:"headings"`
}

// VersionOutput represents the JSON output for the version command
type VersionOutput struct {
	Version string `json:"version"`
}

// printJSON outputs data as formatted JSON to stdout
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
	}
}

// printSuccess outputs a successful JSON response
func printSuccess(data any) {
	printJSON(JSONResponse{Success: true, Data: data})
}

// printJSONError outputs an error as JSON
func printJSONError(err error) {
	printJSON(JSONResponse{Success: false, Error: err.Error()})
}

// exitWithError reports err in the current output mode and exits with
// status 2, keeping 1 for invalid links.
func exitWithError(err error) {
	if jsonOutput {
		printJSONError(err)
	} else {
		fmt.Fprintf(os.Stderr, "  %s %v\n", color.RedString("Error:"), err)
	}
	os.Exit(2)
}
