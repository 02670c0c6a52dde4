package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/validlink/pkg/config"
	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestWithFiles(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	cfg := &config.Config{Files: []string{"configured.md"}}

	got, err := withFiles(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"configured.md"}, got.Files)

	got, err = withFiles(cfg, []string{"docs/**/*.md", "/abs/a.md"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(wd, "docs/**/*.md"), "/abs/a.md"}, got.Files)
}

func TestCheckProject(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"app/page.tsx":       "",
		"app/about/page.tsx": "",
		"README.md":          "# Site\n\n[about](/about)\n[home](/#site)\n[gone](/contact)\n",
	})

	cfg := &config.Config{
		Preset: "next",
		Cwd:    dir,
		Files:  []string{"README.md"},
		Meta:   map[string]scanner.URLMeta{"/": {Hashes: []string{"top"}}},
	}
	r, err := checkProject(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Files)
	require.Len(t, r.Results, 1)
	assert.Equal(t, "README.md", r.Results[0].File)
	require.Len(t, r.Results[0].Errors, 2)
	assert.Equal(t, "/#site", r.Results[0].Errors[0].URL)
	assert.Equal(t, validate.ReasonInvalidFragment, r.Results[0].Errors[0].Reason)
	assert.Equal(t, "/contact", r.Results[0].Errors[1].URL)
	assert.Equal(t, validate.ReasonNotFound, r.Results[0].Errors[1].Reason)
}

func TestCheckProjectNoDocuments(t *testing.T) {
	_, err := checkProject(context.Background(), &config.Config{Cwd: t.TempDir()})
	assert.True(t, errors.Is(err, config.ErrNoDocuments))
}

func TestScanProject(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"src/pages/index.astro":       "",
		"src/pages/blog/[slug].astro": "",
	})

	cfg := &config.Config{Preset: "astro", Cwd: dir}
	project, space, err := scanProject(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, dir, project.Root)
	assert.Equal(t, []string{"/"}, space.URLs())
	require.Len(t, space.Fallbacks, 1)
	assert.Equal(t, "^/blog/(.+)$", space.Fallbacks[0].Pattern.String())
}
