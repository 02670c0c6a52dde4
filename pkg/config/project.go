package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
	"github.com/abdul-hamid-achik/validlink/pkg/toc"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

// Project is a config resolved against a file system: the options of the
// scan, the options of the validation and the documents to check.
type Project struct {
	// Root is the absolute project root
	Root     string
	Scan     scanner.Options
	Validate validate.Config
	Files    []validate.File
}

// ScanOptions returns the scanner options of the config, rooted at root.
func (c *Config) ScanOptions(fsys afero.Fs, root string) scanner.Options {
	opts := scanner.Options{
		Preset:       scanner.Preset(c.Preset),
		Pages:        c.Pages,
		Cwd:          root,
		Fs:           fsys,
		Meta:         c.Meta,
		Extensions:   c.Extensions,
		RouterConfig: c.Routes,
	}
	if len(c.Populate) > 0 {
		opts.Populate = make(scanner.PopulateParams, len(c.Populate))
		for k, v := range c.Populate {
			opts.Populate[k] = v
		}
	}
	return opts
}

// ValidateConfig returns the validator options of the config. The URL space
// is left to the caller.
func (c *Config) ValidateConfig(fsys afero.Fs, root string) validate.Config {
	cfg := validate.Config{
		BaseURL:            c.BaseURL,
		IgnoreFragment:     c.IgnoreFragment,
		IgnoreQuery:        c.IgnoreQuery,
		CheckExternal:      c.CheckExternal,
		CheckRelativePaths: validate.RelativePathMode(c.CheckRelativePaths),
		SkipRelativeURLs:   c.SkipRelativeURLs,
		Markdown:           validate.MarkdownConfig{Components: c.Components},
		Fs:                 fsys,
		ExternalTimeout:    c.ExternalTimeout,
		Concurrency:        c.Concurrency,
	}
	if c.BaseDir != "" {
		cfg.BaseDir = joinRoot(root, c.BaseDir)
	}
	if len(c.Whitelist) > 0 {
		cfg.Whitelist = PatternWhitelist(c.Whitelist...)
	}
	return cfg
}

// Resolve loads the collections and documents of the config.
func (c *Config) Resolve(fsys afero.Fs) (*Project, error) {
	fsys = fsutil.OrDefault(fsys)

	root, err := fsutil.AbsDir(c.Cwd)
	if err != nil {
		return nil, err
	}

	p := &Project{
		Root:     root,
		Scan:     c.ScanOptions(fsys, root),
		Validate: c.ValidateConfig(fsys, root),
	}

	seen := make(map[string]bool)
	for _, col := range c.Collections {
		files, entries, err := loadCollection(fsys, root, col)
		if err != nil {
			return nil, err
		}
		if p.Scan.Populate == nil {
			p.Scan.Populate = scanner.PopulateParams{}
		}
		key := scanner.RouteKey(scanner.SplitRoute(col.Route))
		p.Scan.Populate[key] = append(p.Scan.Populate[key], entries...)

		for _, f := range files {
			seen[filepath.Clean(f.Path)] = true
			p.Files = append(p.Files, f)
		}
	}

	if len(c.Files) > 0 {
		patterns := make([]string, len(c.Files))
		for i, pattern := range c.Files {
			patterns[i] = joinRoot(root, pattern)
		}
		files, err := validate.ReadFiles(fsys, patterns, nil)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if !seen[filepath.Clean(f.Path)] {
				seen[filepath.Clean(f.Path)] = true
				p.Files = append(p.Files, f)
			}
		}
	}

	return p, nil
}

// Run scans the project and validates its documents. Scan warnings come
// first in the report; paths are reported relative to the project root.
func (p *Project) Run(ctx context.Context) (*scanner.URLSpace, *validate.Report, error) {
	space, err := scanner.ScanURLs(p.Scan)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan urls: %w", err)
	}

	cfg := p.Validate
	cfg.Scanned = space
	report, err := validate.ValidateFiles(ctx, validate.Files(p.Files...), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to validate files: %w", err)
	}

	report.Warnings = append(append([]validate.Warning{}, space.Warnings...), report.Warnings...)
	for i := range report.Results {
		report.Results[i].File = p.Rel(report.Results[i].File)
	}
	for i := range report.Warnings {
		if report.Warnings[i].FilePath != "" {
			report.Warnings[i].FilePath = p.Rel(report.Warnings[i].FilePath)
		}
	}
	return space, report, nil
}

// Rel returns path relative to the project root when it lies below it.
func (p *Project) Rel(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(p.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// PatternWhitelist accepts hrefs matching any of the doublestar patterns.
// Invalid patterns match nothing.
func PatternWhitelist(patterns ...string) validate.Whitelist {
	return func(href string) bool {
		for _, p := range patterns {
			if ok, err := doublestar.Match(p, href); err == nil && ok {
				return true
			}
		}
		return false
	}
}

// loadCollection reads the documents of a collection. Each one yields a
// populate entry for the collection route: its path below the collection
// directory (without extension and trailing "index") as the value, its
// heading anchors as hashes. Documents get the URL of their entry.
func loadCollection(fsys afero.Fs, root string, col Collection) ([]validate.File, []scanner.PopulateEntry, error) {
	dir := joinRoot(root, col.Dir)
	include := col.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	patterns := make([]string, len(include))
	for i, pattern := range include {
		patterns[i] = filepath.Join(dir, pattern)
	}

	files, err := validate.ReadFiles(fsys, patterns, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("collection %s: %w", col.Dir, err)
	}

	route := scanner.SplitRoute(col.Route)
	key := scanner.RouteKey(route)

	entries := make([]scanner.PopulateEntry, 0, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(dir, f.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("collection %s: %w", col.Dir, err)
		}

		entry := scanner.PopulateEntry{
			Value:  collectionValue(route, DocumentSlugs(rel)),
			Hashes: toc.Anchors([]byte(f.Content)),
		}
		entries = append(entries, entry)

		urls, _, err := scanner.Populate(route, &scanner.Options{
			Populate: scanner.PopulateParams{key: {entry}},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("collection %s: %w", col.Dir, err)
		}
		for _, u := range urls {
			if !u.IsFallback() {
				files[i].URL = u.URL
			}
		}
	}
	return files, entries, nil
}

// collectionValue fills the parameter of a collection route: a list for a
// catch-all, the joined slugs for a dynamic segment.
func collectionValue(route []string, slugs []string) scanner.Value {
	for _, seg := range scanner.ParseSegments(route) {
		if seg.Type == scanner.SegmentDynamic {
			return scanner.String(strings.Join(slugs, "/"))
		}
	}
	return scanner.List(slugs...)
}

// DocumentSlugs returns the URL segments of a document path relative to its
// collection: "guide/index.mdx" becomes [guide], "index.md" becomes [].
func DocumentSlugs(rel string) []string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	slugs := scanner.SplitRoute(rel)
	if n := len(slugs); n > 0 && slugs[n-1] == "index" {
		slugs = slugs[:n-1]
	}
	return slugs
}

func joinRoot(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
