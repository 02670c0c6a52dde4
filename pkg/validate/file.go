package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/validlink/internal/fsutil"
)

// Input is a document to validate: a Path to read, or a loaded File.
type Input interface {
	load(fsys afero.Fs, pathToURL PathToURL) (File, error)
}

// Path is a document path to read from the file system.
type Path string

func (p Path) load(fsys afero.Fs, pathToURL PathToURL) (File, error) {
	return ReadFile(fsys, string(p), pathToURL)
}

// File is a loaded document.
type File struct {
	Path string
	// Content is the document body. Frontmatter is replaced by blank lines
	// so that line numbers match the file on disk.
	Content string
	// Data is the parsed frontmatter
	Data map[string]any
	// URL is the public URL of the document, used to resolve relative URLs
	URL string
}

func (f File) load(afero.Fs, PathToURL) (File, error) {
	return f, nil
}

// Paths converts document paths to inputs.
func Paths(paths ...string) []Input {
	inputs := make([]Input, 0, len(paths))
	for _, p := range paths {
		inputs = append(inputs, Path(p))
	}
	return inputs
}

// Files converts loaded documents to inputs.
func Files(files ...File) []Input {
	inputs := make([]Input, 0, len(files))
	for _, f := range files {
		inputs = append(inputs, f)
	}
	return inputs
}

// ReadFile reads a document and strips its frontmatter.
func ReadFile(fsys afero.Fs, path string, pathToURL PathToURL) (File, error) {
	content, err := afero.ReadFile(fsutil.OrDefault(fsys), path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data, body, err := SplitFrontmatter(string(content))
	if err != nil {
		return File{}, fmt.Errorf("invalid frontmatter in %s: %w", path, err)
	}

	file := File{Path: path, Content: body, Data: data}
	if pathToURL != nil {
		file.URL, _ = pathToURL(path)
	}
	return file, nil
}

// ReadFiles reads every document matching the glob patterns, relative to the
// working directory unless absolute. Files are returned in match order.
func ReadFiles(fsys afero.Fs, patterns []string, pathToURL PathToURL) ([]File, error) {
	fsys = fsutil.OrDefault(fsys)

	paths, err := GlobFiles(fsys, patterns)
	if err != nil {
		return nil, err
	}

	files := make([]File, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		g.Go(func() error {
			f, err := ReadFile(fsys, p, pathToURL)
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

// GlobFiles expands glob patterns into a de-duplicated list of file paths.
// Relative patterns resolve against the working directory and produce
// relative paths.
func GlobFiles(fsys afero.Fs, patterns []string) ([]string, error) {
	cwd, err := fsutil.AbsDir("")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		base, rel := doublestar.SplitPattern(filepath.ToSlash(pattern))
		root := filepath.FromSlash(base)
		if !filepath.IsAbs(root) {
			root = filepath.Join(cwd, root)
		}

		matches, err := fsutil.Glob(fsys, root, rel)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			p := filepath.Join(filepath.FromSlash(base), filepath.FromSlash(m))
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

// SplitFrontmatter parses a leading "---" YAML block. The returned body keeps
// one blank line per line of frontmatter.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	if !strings.HasPrefix(content, "---") {
		return nil, content, nil
	}

	firstBreak := strings.IndexByte(content, '\n')
	if firstBreak < 0 || strings.TrimSpace(content[:firstBreak]) != "---" {
		return nil, content, nil
	}

	rest := content[firstBreak+1:]
	var (
		yamlEnd  = -1
		bodyFrom = -1
	)
	for offset := 0; offset <= len(rest); {
		lineEnd := strings.IndexByte(rest[offset:], '\n')
		next := len(rest) + 1
		line := rest[offset:]
		if lineEnd >= 0 {
			line = rest[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		}
		if strings.TrimRight(line, " \t\r") == "---" {
			yamlEnd, bodyFrom = offset, min(next, len(rest))
			break
		}
		offset = next
	}
	if yamlEnd < 0 {
		return nil, content, nil
	}

	data := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:yamlEnd]), &data); err != nil {
		return nil, "", err
	}

	body := rest[bodyFrom:]
	offset := strings.Count(content, "\n") - strings.Count(body, "\n")
	return data, strings.Repeat("\n", offset) + body, nil
}
