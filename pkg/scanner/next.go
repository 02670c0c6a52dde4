package scanner

import (
	"path"
	"strings"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
)

// discoverNext finds app router pages (one route per directory holding a
// page file) and pages router files under src/ or the project root.
func discoverNext(opts *Options) ([]route, error) {
	if opts.Pages != nil {
		routes := make([]route, 0, len(opts.Pages))
		for _, p := range opts.Pages {
			routes = append(routes, route{source: p, segments: SplitRoute(pageDir(p))})
		}
		return routes, nil
	}

	exts := extensions(opts, "js", "jsx", "tsx", "md", "mdx")

	appDir := fsutil.FirstDir(opts.Fs, opts.Cwd, "src/app", "app")
	routes, err := globRoutes(opts, appDir, "page", exts, func(file string) []string {
		return SplitRoute(pageDir(file))
	})
	if err != nil {
		return nil, err
	}

	pagesDir := fsutil.FirstDir(opts.Fs, opts.Cwd, "src/pages", "pages")
	legacy, err := globRoutes(opts, pagesDir, "*", exts, func(file string) []string {
		// _app, _document and friends are not pages
		return fileRoute(file, "_")
	})
	if err != nil {
		return nil, err
	}

	return append(routes, legacy...), nil
}

// pageDir returns the directory of a page file, "" for the root page.
func pageDir(file string) string {
	dir := path.Dir(strings.ReplaceAll(file, "\\", "/"))
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// normalizePageMeta rewrites meta keys naming a page file ("docs/page.tsx")
// to their directory key ("docs"). The input map is not modified.
func normalizePageMeta(meta map[string]URLMeta) map[string]URLMeta {
	if meta == nil {
		return nil
	}

	out := make(map[string]URLMeta, len(meta))
	for key, m := range meta {
		if !strings.HasSuffix(key, "page.tsx") {
			if _, taken := out[key]; !taken {
				out[key] = m
			}
			continue
		}
		out[RouteKey(SplitRoute(pageDir(key)))] = m
	}
	return out
}
