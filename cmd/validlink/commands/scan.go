package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/pkg/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the URLs produced by the site's routes",
	Long: `Scan the routing files of the project and list the URLs links may point to.

Parameterized routes expand to one URL per populate entry of validlink.yaml
(or per document of a collection). Routes left without values are listed as
fallback patterns, which match any value.

Examples:
  validlink scan
  validlink scan --preset astro
  validlink scan --json`,
	Run: runScan,
}

func init() {
	addProjectFlags(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		exitWithError(err)
	}

	project, space, err := scanProject(cmd.Context(), cfg)
	if err != nil {
		exitWithError(err)
	}

	if jsonOutput {
		printSuccess(report.NewScanOutput(project.Root, cfg.Preset, space))
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("\n  %s URLs of %s (%s)\n\n", cyan("validlink"), project.Root, cfg.Preset)
	report.NewPrinter(os.Stdout).PrintURLSpace(space)
}
