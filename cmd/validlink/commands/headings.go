package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/pkg/toc"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

var headingsCmd = &cobra.Command{
	Use:   "headings <file>",
	Short: "List the headings of a document with their fragment ids",
	Long: `List the headings of a Markdown or MDX document and the #fragment each one
can be linked with. Collections use the same ids as their declared hashes.

Examples:
  validlink headings content/docs/guide.mdx
  validlink headings README.md --json`,
	Args: cobra.ExactArgs(1),
	Run:  runHeadings,
}

func runHeadings(cmd *cobra.Command, args []string) {
	doc, err := validate.ReadFile(nil, args[0], nil)
	if err != nil {
		exitWithError(err)
	}

	headings := toc.Headings([]byte(doc.Content))
	if headings == nil {
		headings = []toc.Heading{}
	}

	if jsonOutput {
		printSuccess(HeadingsOutput{File: args[0], Headings: headings})
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	for _, h := range headings {
		indent := strings.Repeat("  ", h.Level)
		fmt.Printf("%s%s %s\n", indent, h.Text, cyan(h.URL()))
	}
	if len(headings) == 0 {
		fmt.Println("  No headings")
	}
}
