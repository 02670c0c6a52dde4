package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/validlink/pkg/config"
	"github.com/abdul-hamid-achik/validlink/pkg/logger"
	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

// addProjectFlags registers the flags of commands that load a project.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("preset", "p", "", "Routing convention: next, astro, nuxt, waku, tanstack-start or react-router")
	cmd.Flags().String("cwd", "", "Project root (default: the directory of the config file)")
}

// loadConfig loads the config named by --config, overridden by the changed
// flags of cmd and VALIDLINK_* variables.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{File: configFile, Flags: cmd.Flags()})
}

// withFiles replaces the configured files with patterns given on the command
// line, which are relative to the working directory.
func withFiles(cfg *config.Config, patterns []string) (*config.Config, error) {
	if len(patterns) == 0 {
		return cfg, nil
	}
	files := make([]string, len(patterns))
	for i, p := range patterns {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %s: %w", p, err)
		}
		files[i] = abs
	}
	cfg.Files = files
	return cfg, nil
}

// scanProject resolves cfg and builds its URL space.
func scanProject(ctx context.Context, cfg *config.Config) (*config.Project, *scanner.URLSpace, error) {
	project, err := cfg.Resolve(nil)
	if err != nil {
		return nil, nil, err
	}

	space, err := scanner.ScanURLs(project.Scan)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan urls: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug("scanned urls", "root", project.Root, "urls", space.Len(), "fallbacks", len(space.Fallbacks))
	logWarnings(log, space.Warnings)
	return project, space, nil
}

// checkProject resolves cfg, then scans and validates it.
func checkProject(ctx context.Context, cfg *config.Config) (*validate.Report, error) {
	if !cfg.HasDocuments() {
		return nil, config.ErrNoDocuments
	}

	project, err := cfg.Resolve(nil)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Debug("resolved project", "root", project.Root, "documents", len(project.Files))

	space, r, err := project.Run(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("checked links", "urls", space.Len(), "files", r.Files, "errors", r.ErrorCount())
	logWarnings(log, r.Warnings)
	return r, nil
}

func logWarnings(log logger.Logger, warnings []validate.Warning) {
	for _, w := range warnings {
		if w.FilePath != "" {
			log.Warn(w.Message, "file", w.FilePath)
			continue
		}
		log.Warn(w.Message)
	}
}
