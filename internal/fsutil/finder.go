// Package fsutil provides file system helpers shared by the scanner and the validator.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// OrDefault returns fsys, or the OS file system when fsys is nil.
func OrDefault(fsys afero.Fs) afero.Fs {
	if fsys == nil {
		return afero.NewOsFs()
	}
	return fsys
}

// AbsDir resolves dir against the working directory. An empty dir means the
// working directory itself.
func AbsDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}
	return filepath.Abs(dir)
}

// DirExists reports whether path is an existing directory.
func DirExists(fsys afero.Fs, path string) bool {
	ok, err := afero.DirExists(fsys, path)
	return err == nil && ok
}

// FileExists reports whether anything exists at path.
func FileExists(fsys afero.Fs, path string) bool {
	ok, err := afero.Exists(fsys, path)
	return err == nil && ok
}

// Glob matches pattern against the files below root. Returned paths are
// slash-separated, relative to root and sorted.
func Glob(fsys afero.Fs, root, pattern string) ([]string, error) {
	if !DirExists(fsys, root) {
		return nil, nil
	}

	iofs := afero.NewIOFS(afero.NewBasePathFs(fsys, root))
	matches, err := doublestar.Glob(iofs, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	sort.Strings(matches)
	return matches, nil
}

// ExtensionPattern builds a doublestar pattern matching name with any of exts.
// Extensions are given without the leading dot.
func ExtensionPattern(name string, exts []string) string {
	switch len(exts) {
	case 0:
		return name
	case 1:
		return name + "." + exts[0]
	default:
		return name + ".{" + strings.Join(exts, ",") + "}"
	}
}

// FirstDir returns the first candidate below cwd that is an existing
// directory, or the last candidate when none exists.
func FirstDir(fsys afero.Fs, cwd string, candidates ...string) string {
	for _, c := range candidates {
		dir := filepath.Join(cwd, c)
		if DirExists(fsys, dir) {
			return dir
		}
	}
	if len(candidates) == 0 {
		return cwd
	}
	return filepath.Join(cwd, candidates[len(candidates)-1])
}
