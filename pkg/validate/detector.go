package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
)

// Detector checks a single href. It returns an empty Reason for a valid
// link, and an error for a misconfiguration that prevents the check.
type Detector interface {
	Detect(ctx context.Context, href string, res Resolution) (Reason, error)
}

// detector is the default Detector. Its only mutable state is the warning
// list, which is guarded by mu.
type detector struct {
	space    *scanner.URLSpace
	cfg      Config
	fs       afero.Fs
	classify PathnameClassifier
	checker  URLChecker

	mu       sync.Mutex
	warnings []Warning
}

// NewDetector creates the Detector used by ValidateFiles.
func NewDetector(cfg Config) Detector {
	return newDetector(cfg)
}

func newDetector(cfg Config) *detector {
	d := &detector{
		space:    cfg.Scanned,
		cfg:      cfg,
		fs:       fsutil.OrDefault(cfg.Fs),
		classify: cfg.DeterminatePathname,
		checker:  cfg.Checker,
	}
	if d.space == nil {
		d.space = scanner.NewURLSpace()
	}
	if d.classify == nil {
		d.classify = DefaultClassifier
	}
	if d.checker == nil && cfg.CheckExternal {
		d.checker = NewHTTPChecker(cfg.ExternalTimeout)
	}
	return d
}

func (d *detector) warn(w Warning) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = append(d.warnings, w)
}

func (d *detector) takeWarnings() []Warning {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.warnings
	d.warnings = nil
	return out
}

// Detect implements Detector.
func (d *detector) Detect(ctx context.Context, href string, res Resolution) (Reason, error) {
	if strings.HasPrefix(href, "mailto:") {
		return "", nil
	}

	if externalURLRe.MatchString(href) {
		if !d.cfg.CheckExternal {
			return "", nil
		}
		result := d.checker.Check(ctx, href)
		if result.Warning != "" {
			d.warn(Warning{Message: result.Warning})
		}
		if !result.OK {
			return ReasonNotFound, nil
		}
		return "", nil
	}

	if d.cfg.Whitelist != nil && d.cfg.Whitelist(href) {
		return "", nil
	}

	pathname, query, fragment := splitHref(href)
	if pathname == "" || pathname == "./" {
		return "", nil
	}

	switch d.classify(pathname) {
	case KindRelativeURL:
		if d.cfg.SkipRelativeURLs {
			return "", nil
		}
		if res.BaseURL == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingBaseURL, pathname)
		}
		pathname = ResolveURL(res.BaseURL, pathname)

	case KindRelativeFilePath:
		filePath := filepath.Join(res.BaseDir, filepath.FromSlash(pathname))

		switch d.cfg.CheckRelativePaths {
		case RelativePathsExists:
			if !fsutil.FileExists(d.fs, filePath) {
				return ReasonNotFound, nil
			}
			return "", nil
		case RelativePathsAsURL:
			if res.PathToURL == nil {
				return "", ErrMissingPathToURL
			}
			u, ok := res.PathToURL(filePath)
			if !ok || u == "" {
				return "", nil
			}
			pathname = u
		default:
			return "", nil
		}
	}

	if !strings.HasPrefix(pathname, "/") {
		pathname = "/" + pathname
	}

	meta, ok := d.space.Lookup(pathname)
	if !ok {
		return ReasonNotFound, nil
	}
	if fragment != "" && !d.cfg.IgnoreFragment && !meta.AllowsHash(fragment) {
		return ReasonInvalidFragment, nil
	}
	if query != "" && !d.cfg.IgnoreQuery && !meta.AllowsQuery(query) {
		return ReasonInvalidQuery, nil
	}
	return "", nil
}
