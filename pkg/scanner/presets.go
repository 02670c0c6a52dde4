package scanner

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
)

// Preset selects the routing convention used to discover pages.
type Preset string

const (
	// PresetNext is the Next.js convention: app router plus pages router
	PresetNext Preset = "next"
	// PresetAstro discovers src/pages/**
	PresetAstro Preset = "astro"
	// PresetNuxt discovers pages/** (or src/pages/**)
	PresetNuxt Preset = "nuxt"
	// PresetWaku discovers pages/** where [...x] is optional
	PresetWaku Preset = "waku"
	// PresetTanStackStart discovers flat dot-separated route files
	PresetTanStackStart Preset = "tanstack-start"
	// PresetReactRouter walks a declarative route config tree
	PresetReactRouter Preset = "react-router"
)

// presetAliases maps accepted spellings to presets.
var presetAliases = map[string]Preset{
	"":               PresetNext,
	"next":           PresetNext,
	"app-router":     PresetNext,
	"astro":          PresetAstro,
	"nuxt":           PresetNuxt,
	"waku":           PresetWaku,
	"tanstack-start": PresetTanStackStart,
	"react-router":   PresetReactRouter,
}

// Presets lists every supported preset in display order.
var Presets = []Preset{
	PresetNext,
	PresetAstro,
	PresetNuxt,
	PresetWaku,
	PresetTanStackStart,
	PresetReactRouter,
}

var (
	// ErrUnknownPreset is returned for an unsupported preset name.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrMissingRouterConfig is returned when the react-router preset has
	// neither pages nor a route config.
	ErrMissingRouterConfig = errors.New("react-router preset requires pages or a route config")
)

// ParsePreset resolves a preset name. The empty string selects PresetNext.
func ParsePreset(name string) (Preset, error) {
	p, ok := presetAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// route is one route template found by a preset, along with where it came from.
type route struct {
	source   string
	segments []string
}

// discoverFunc lists the route templates of a project.
type discoverFunc func(opts *Options) ([]route, error)

var discoverers = map[Preset]discoverFunc{
	PresetNext:          discoverNext,
	PresetAstro:         discoverAstro,
	PresetNuxt:          discoverNuxt,
	PresetWaku:          discoverWaku,
	PresetTanStackStart: discoverTanStack,
	PresetReactRouter:   discoverReactRouter,
}

// ScanURLs discovers the pages of a project and expands them into a URL space.
func ScanURLs(opts Options) (*URLSpace, error) {
	preset, err := ParsePreset(string(opts.Preset))
	if err != nil {
		return nil, err
	}
	opts.Preset = preset

	opts.Fs = fsutil.OrDefault(opts.Fs)
	if opts.Cwd, err = fsutil.AbsDir(opts.Cwd); err != nil {
		return nil, err
	}
	if preset == PresetNext {
		opts.Meta = normalizePageMeta(opts.Meta)
	}

	routes, err := discoverers[preset](&opts)
	if err != nil {
		return nil, fmt.Errorf("failed to discover %s pages: %w", preset, err)
	}

	space := NewURLSpace()
	for _, r := range routes {
		entries, warnings, err := Populate(r.segments, &opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.source, err)
		}
		for _, w := range warnings {
			if w.FilePath == "" {
				w.FilePath = r.source
			}
			space.Warnings = append(space.Warnings, w)
		}
		for _, e := range entries {
			space.Add(e)
		}
	}

	return space, nil
}

// templateRoutes turns caller supplied route templates into routes.
func templateRoutes(pages []string) []route {
	routes := make([]route, 0, len(pages))
	for _, p := range pages {
		routes = append(routes, route{source: p, segments: SplitRoute(filepath.ToSlash(p))})
	}
	return routes
}

// extensions returns the override when set, else the preset defaults.
func extensions(opts *Options, defaults ...string) []string {
	if opts.Extensions != nil {
		return opts.Extensions
	}
	return defaults
}

// globRoutes lists the files below dir matching name plus one of the page
// extensions and maps each through toSegments. A nil result skips the file.
func globRoutes(opts *Options, dir, name string, exts []string, toSegments func(file string) []string) ([]route, error) {
	files, err := fsutil.Glob(opts.Fs, dir, "**/"+fsutil.ExtensionPattern(name, exts))
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(opts.Cwd, dir)
	if err != nil {
		rel = dir
	}

	var routes []route
	for _, file := range files {
		segments := toSegments(file)
		if segments == nil {
			continue
		}
		routes = append(routes, route{
			source:   path.Join(filepath.ToSlash(rel), file),
			segments: segments,
		})
	}
	return routes, nil
}

// fileRoute maps a page file to its route: index files collapse to their
// directory, anything else adds its base name. Names starting with one of
// skipPrefixes exclude the file.
func fileRoute(file string, skipPrefixes ...string) []string {
	dir, base := path.Split(file)
	name := strings.TrimSuffix(base, path.Ext(base))
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(name, prefix) {
			return nil
		}
	}

	segments := SplitRoute(dir)
	if name != "index" {
		segments = append(segments, name)
	}
	if segments == nil {
		segments = []string{}
	}
	return segments
}
