package scanner

import (
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
)

// escapedDotPlaceholder stands in for "[.]" while a flat route name is split
// on dots. It cannot appear in a file name.
const escapedDotPlaceholder = "\x00"

var flatRouteSeparatorRe = regexp.MustCompile(`[/\\.]`)

// discoverTanStack maps flat route files (posts.$postId.edit.tsx) under
// src/routes or routes to routes.
func discoverTanStack(opts *Options) ([]route, error) {
	if opts.Pages != nil {
		return templateRoutes(opts.Pages), nil
	}

	dir := fsutil.FirstDir(opts.Fs, opts.Cwd, "src/routes", "routes")
	return globRoutes(opts, dir, "*", extensions(opts, "tsx", "ts", "jsx", "js"), flatRouteSegments)
}

// flatRouteSegments converts a TanStack route file path into a route
// template, or nil when the file is not a page.
func flatRouteSegments(file string) []string {
	parts := flatRouteSeparatorRe.Split(strings.ReplaceAll(file, "[.]", escapedDotPlaceholder), -1)
	// extension
	parts = parts[:len(parts)-1]
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, escapedDotPlaceholder, ".")
	}

	if len(parts) == 0 {
		return nil
	}
	// layouts and the root route ("_layout", "__root")
	if strings.HasPrefix(parts[len(parts)-1], "_") {
		return nil
	}
	if last := parts[len(parts)-1]; last == "index" || last == "route" {
		parts = parts[:len(parts)-1]
	}

	segments := []string{}
	for _, name := range parts {
		switch {
		case name == "":
			continue
		case strings.HasPrefix(name, "-"):
			// excluded from routing
			return nil
		case strings.HasPrefix(name, "_"):
			// pathless layout
			continue
		case name == "$":
			segments = append(segments, "[...splat]")
		case strings.HasPrefix(name, "$"):
			segments = append(segments, "["+name[1:]+"]")
		default:
			// "posts_" un-nests from its parent layout but keeps the URL
			segments = append(segments, strings.TrimSuffix(name, "_"))
		}
	}
	return segments
}
