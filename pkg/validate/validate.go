package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
)

// SupportedExtensions are the document formats links are extracted from.
var SupportedExtensions = []string{".md", ".mdx"}

// validation is the state shared by the files of one ValidateFiles run.
type validation struct {
	cfg       Config
	detector  *detector
	extractor *extractor
	pathToURL PathToURL
}

// ValidateFiles checks the links of every input against cfg.Scanned.
//
// Inputs are loaded first; a path that cannot be read fails the run. Files
// and the links within them are then checked concurrently. A link whose
// check fails unexpectedly is recorded as an error on that link, never
// aborting the rest. Only files with at least one error are reported.
func ValidateFiles(ctx context.Context, inputs []Input, cfg Config) (*Report, error) {
	cfg.Fs = fsutil.OrDefault(cfg.Fs)

	files, err := loadInputs(inputs, cfg)
	if err != nil {
		return nil, err
	}

	v := &validation{
		cfg:       cfg,
		detector:  newDetector(cfg),
		extractor: newExtractor(cfg.Markdown),
		pathToURL: cfg.PathToURL,
	}
	if v.pathToURL == nil {
		v.pathToURL = filesPathToURL(files)
	}

	results := make([]Result, len(files))
	fileWarnings := make([][]Warning, len(files))

	var g errgroup.Group
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}
	for i, f := range files {
		g.Go(func() error {
			results[i], fileWarnings[i] = v.validateFile(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Files: len(files), Results: []Result{}}
	for _, res := range results {
		if len(res.Errors) > 0 {
			report.Results = append(report.Results, res)
		}
	}
	for _, w := range fileWarnings {
		report.Warnings = append(report.Warnings, w...)
	}
	report.Warnings = append(report.Warnings, v.detector.takeWarnings()...)

	return report, nil
}

func loadInputs(inputs []Input, cfg Config) ([]File, error) {
	files := make([]File, len(inputs))

	var g errgroup.Group
	for i, in := range inputs {
		g.Go(func() error {
			f, err := in.load(cfg.Fs, cfg.PathToURL)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// filesPathToURL maps a path to the URL of the input file at that path.
func filesPathToURL(files []File) PathToURL {
	urls := make(map[string]string, len(files))
	for _, f := range files {
		if f.URL != "" {
			urls[filepath.Clean(f.Path)] = f.URL
		}
	}
	return func(path string) (string, bool) {
		u, ok := urls[filepath.Clean(path)]
		return u, ok
	}
}

// resolution builds the context the links of f are resolved in.
func (v *validation) resolution(f File) Resolution {
	res := Resolution{
		BaseURL:   v.cfg.BaseURL,
		BaseDir:   filepath.Dir(f.Path),
		PathToURL: v.pathToURL,
	}
	if f.URL != "" {
		res.BaseURL = parentURL(f.URL)
		if res.BaseURL == "" {
			res.BaseURL = "/"
		}
	}
	if res.BaseDir == "." && v.cfg.BaseDir != "" {
		res.BaseDir = v.cfg.BaseDir
	}
	return res
}

func (v *validation) validateFile(ctx context.Context, f File) (Result, []Warning) {
	result := Result{File: f.Path}

	ext := strings.ToLower(filepath.Ext(f.Path))
	if !slices.Contains(SupportedExtensions, ext) {
		return result, []Warning{{
			FilePath: f.Path,
			Message:  fmt.Sprintf("format unsupported: %s, supported: %s", ext, strings.Join(SupportedExtensions, ", ")),
		}}
	}

	res := v.resolution(f)
	links := v.extractor.extract(f.Path, []byte(f.Content))
	found := make([]*ValidateError, len(links))

	var g errgroup.Group
	for i, l := range links {
		g.Go(func() error {
			found[i] = v.checkLink(ctx, l, res)
			return nil
		})
	}
	_ = g.Wait()

	for _, e := range found {
		if e != nil {
			result.Errors = append(result.Errors, *e)
		}
	}
	return result, nil
}

// checkLink runs the detector on one link. Detector errors and panics are
// recorded on the link.
func (v *validation) checkLink(ctx context.Context, l link, res Resolution) (out *ValidateError) {
	defer func() {
		if r := recover(); r != nil {
			out = &ValidateError{URL: l.href, Line: l.line, Column: l.column, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	reason, err := v.detector.Detect(ctx, l.href, res)
	switch {
	case err != nil:
		return &ValidateError{URL: l.href, Line: l.line, Column: l.column, Err: err}
	case reason != "":
		return &ValidateError{URL: l.href, Line: l.line, Column: l.column, Reason: reason}
	default:
		return nil
	}
}
