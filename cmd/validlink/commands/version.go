package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the validlink version",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			printSuccess(VersionOutput{Version: version.GetVersion()})
			return
		}
		fmt.Printf("validlink %s\n", version.GetVersion())
	},
}
