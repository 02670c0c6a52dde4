package scanner

import (
	"strings"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
)

// discoverAstro maps src/pages/** files to routes.
func discoverAstro(opts *Options) ([]route, error) {
	if opts.Pages != nil {
		return templateRoutes(opts.Pages), nil
	}

	dir := fsutil.FirstDir(opts.Fs, opts.Cwd, "src/pages")
	return globRoutes(opts, dir, "*", extensions(opts, "astro", "md", "mdx"), func(file string) []string {
		return fileRoute(file)
	})
}

// discoverNuxt maps pages/** files to routes, preferring src/pages.
func discoverNuxt(opts *Options) ([]route, error) {
	if opts.Pages != nil {
		return templateRoutes(opts.Pages), nil
	}

	dir := fsutil.FirstDir(opts.Fs, opts.Cwd, "src/pages", "pages")
	return globRoutes(opts, dir, "*", extensions(opts, "vue", "md", "mdx"), func(file string) []string {
		return fileRoute(file)
	})
}

// discoverWaku maps pages/** files to routes. Files starting with "_"
// (layouts, root) are not pages, and a [...name] catch-all matches the empty
// path too.
func discoverWaku(opts *Options) ([]route, error) {
	if opts.Pages != nil {
		return templateRoutes(opts.Pages), nil
	}

	dir := fsutil.FirstDir(opts.Fs, opts.Cwd, "src/pages", "pages")
	return globRoutes(opts, dir, "*", extensions(opts, "tsx", "ts", "jsx", "js"), func(file string) []string {
		segments := fileRoute(file, "_")
		for i, seg := range segments {
			if strings.HasPrefix(seg, "[...") && strings.HasSuffix(seg, "]") {
				segments[i] = "[" + seg + "]"
			}
		}
		return segments
	})
}
