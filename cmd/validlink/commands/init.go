package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/pkg/config"
	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a validlink.yaml config",
	Long: `Create a validlink.yaml config in the working directory.

When run in a terminal without flags, the preset and the documents are asked
for interactively.

Examples:
  validlink init
  validlink init --preset astro --files "src/content/**/*.md"
  validlink init --collection "content/docs=docs/[[...slug]]"
  validlink init --force --json`,
	Run: runInit,
}

// defaultFiles are the documents of a starter config.
var defaultFiles = []string{"README.md", "docs/**/*.{md,mdx}"}

var (
	initPreset      string
	initFiles       []string
	initCollections []string
	initForce       bool
)

func init() {
	initCmd.Flags().StringVarP(&initPreset, "preset", "p", string(scanner.PresetNext), "Routing convention of the project")
	initCmd.Flags().StringSliceVar(&initFiles, "files", nil, "Glob patterns of documents to check")
	initCmd.Flags().StringArrayVar(&initCollections, "collection", nil, "Content collection as dir=route, may be repeated")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config")
}

func runInit(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	interactive := !cmd.Flags().Changed("preset") && !cmd.Flags().Changed("files") && !cmd.Flags().Changed("collection")
	if interactive && !jsonOutput && isatty.IsTerminal(os.Stdin.Fd()) {
		if err := promptInit(); err != nil {
			fmt.Printf("  %s Cancelled\n", yellow("!"))
			return
		}
	}

	cfg, err := starterConfig(initPreset, initFiles, initCollections)
	if err != nil {
		exitWithError(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		exitWithError(fmt.Errorf("failed to get working directory: %w", err))
	}
	path, err := writeConfig(afero.NewOsFs(), wd, cfg, initForce)
	if err != nil {
		exitWithError(err)
	}

	if jsonOutput {
		printSuccess(InitOutput{Path: path, Config: cfg})
		return
	}
	fmt.Printf("  %s Created %s\n", green("✓"), path)
	fmt.Printf("  %s Run %s to check your links\n", yellow("→"), "validlink check")
}

// promptInit asks for the preset and the documents.
func promptInit() error {
	options := make([]huh.Option[string], 0, len(scanner.Presets))
	for _, p := range scanner.Presets {
		options = append(options, huh.NewOption(string(p), string(p)))
	}
	files := strings.Join(defaultFiles, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Preset").
				Description("Routing convention of the site").
				Options(options...).
				Value(&initPreset),
			huh.NewInput().
				Title("Documents").
				Description("Comma-separated glob patterns of the Markdown and MDX files to check").
				Value(&files),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	initFiles = nil
	for _, f := range strings.Split(files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			initFiles = append(initFiles, f)
		}
	}
	return nil
}

// starterConfig builds a config from the init flags. Without files or
// collections, defaultFiles are used.
func starterConfig(preset string, files, collections []string) (*config.Config, error) {
	cfg := config.Default()
	cfg.Preset = preset
	cfg.Files = files

	for _, c := range collections {
		dir, route, ok := strings.Cut(c, "=")
		if !ok || dir == "" || route == "" {
			return nil, fmt.Errorf("invalid collection %q, expected dir=route", c)
		}
		cfg.Collections = append(cfg.Collections, config.Collection{Dir: dir, Route: route})
	}

	if !cfg.HasDocuments() {
		cfg.Files = append([]string(nil), defaultFiles...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeConfig writes cfg as dir/validlink.yaml and returns its path. Any
// existing config of dir is kept unless force is set.
func writeConfig(fsys afero.Fs, dir string, cfg *config.Config, force bool) (string, error) {
	if !force {
		for _, ext := range config.Extensions {
			existing := filepath.Join(dir, config.FileName+"."+ext)
			if ok, _ := afero.Exists(fsys, existing); ok {
				return "", fmt.Errorf("%s already exists, use --force to overwrite it", existing)
			}
		}
	}

	data, err := cfg.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	path := filepath.Join(dir, config.FileName+".yaml")
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
