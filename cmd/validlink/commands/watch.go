package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"

	"github.com/abdul-hamid-achik/validlink/pkg/config"
	"github.com/abdul-hamid-achik/validlink/pkg/report"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

// watchDebounce groups the events of one save into a single run.
const watchDebounce = 200 * time.Millisecond

// watchedExts are the extensions of documents and route files.
var watchedExts = map[string]bool{
	".md": true, ".mdx": true,
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".astro": true, ".vue": true,
	".yaml": true, ".yml": true, ".json": true,
}

// skipWatchDir reports whether a directory is never watched.
func skipWatchDir(name string) bool {
	return (strings.HasPrefix(name, ".") && name != ".") || name == "node_modules" || name == "vendor" || name == "dist"
}

// isWatchedEvent reports whether event should trigger a new check.
func isWatchedEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return watchedExts[strings.ToLower(filepath.Ext(event.Name))]
}

// watchCheck checks the project, then checks it again after every relevant
// change until interrupted. The config is reloaded on each run; errors are
// reported without stopping the watch.
func watchCheck(ctx context.Context, load func() (*config.Config, error)) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	cfg, err := load()
	if err != nil {
		return err
	}
	project, err := cfg.Resolve(nil)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watchTree(watcher, project.Root)
	if !jsonOutput {
		fmt.Printf("  %s Watching %s for changes...\n\n", green("✓"), project.Root)
	}

	run := func() {
		timestamp := time.Now().Format("15:04:05")
		r, err := reloadAndCheck(ctx, load)
		switch {
		case err != nil && jsonOutput:
			printJSONError(err)
		case err != nil:
			fmt.Printf("  [%s] %s %v\n", timestamp, red("✗"), err)
		case jsonOutput:
			printSuccess(report.NewOutput(r))
		default:
			fmt.Printf("  [%s] %s Checked %d files\n", timestamp, yellow("→"), r.Files)
			report.NewPrinter(os.Stdout).Print(r)
		}
	}
	run()

	var debounceTimer *time.Timer
	rerun := make(chan struct{}, 1)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					watchTree(watcher, event.Name)
					continue
				}
			}
			if !isWatchedEvent(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "  %s Watcher error: %v\n", yellow("Warning:"), err)

		case <-signals:
			if !jsonOutput {
				fmt.Println("\n  Stopped watching")
			}
			return nil

		case <-ctx.Done():
			return nil
		}
	}
}

func reloadAndCheck(ctx context.Context, load func() (*config.Config, error)) (*validate.Report, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	return checkProject(ctx, cfg)
}

// watchTree adds root and its directories to watcher.
func watchTree(watcher *fsnotify.Watcher, root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && skipWatchDir(info.Name()) {
				return filepath.SkipDir
			}
			_ = watcher.Add(path)
		}
		return nil
	})
}
