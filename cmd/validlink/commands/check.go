package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/pkg/config"
	"github.com/abdul-hamid-achik/validlink/pkg/report"
)

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check the links of Markdown and MDX documents",
	Long: `Check every link of the configured documents against the URLs of the site.

Documents come from the files and collections of validlink.yaml, or from the
glob patterns given as arguments. Internal links must match a route, and their
#fragment and ?query must be declared for it. The command exits with status 1
when any link is invalid.

Examples:
  validlink check
  validlink check "docs/**/*.{md,mdx}" README.md
  validlink check --preset astro --check-external
  validlink check --watch
  validlink check --json`,
	Run: runCheck,
}

var checkWatch bool

func init() {
	addProjectFlags(checkCmd)

	flags := checkCmd.Flags()
	flags.String("base-url", "", "URL of documents outside collections, used to resolve their relative links")
	flags.String("base-dir", "", "Directory of documents read without a path, for relative path checks")
	flags.Bool("ignore-fragment", false, "Do not check #fragments")
	flags.Bool("ignore-query", false, "Do not check ?queries")
	flags.Bool("check-external", false, "Send a HEAD request to every external link")
	flags.Duration("external-timeout", 0, "Timeout of a single external check (default 10s)")
	flags.String("relative-paths", "", "Check relative paths: exists or as-url")
	flags.Bool("skip-relative-urls", false, "Do not check relative URLs")
	flags.Int("concurrency", 0, "Maximum number of documents checked at once (default: unlimited)")
	flags.BoolVarP(&checkWatch, "watch", "w", false, "Check again whenever documents, routes or the config change")
}

func runCheck(cmd *cobra.Command, args []string) {
	load := func() (*config.Config, error) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		return withFiles(cfg, args)
	}

	if checkWatch {
		if err := watchCheck(cmd.Context(), load); err != nil {
			exitWithError(err)
		}
		return
	}

	cfg, err := load()
	if err != nil {
		exitWithError(err)
	}
	r, err := checkProject(cmd.Context(), cfg)
	if err != nil {
		exitWithError(err)
	}

	if jsonOutput {
		printSuccess(report.NewOutput(r))
	} else {
		report.NewPrinter(os.Stdout).Print(r)
	}
	os.Exit(report.ExitCode(r))
}
