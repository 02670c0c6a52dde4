package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

const siteConfig = `preset: next
cwd: .
files:
  - content/**/*.md
populate:
  "blog/[slug]":
    - value: hello
      hashes: [intro, 2024]
    - value: [a, b]
  "docs/[[...slug]]":
    - value:
        slug: [x, y]
      queries:
        - page: 1
meta:
  "/":
    hashes: [top]
components:
  Card:
    attributes: [href]
externalTimeout: 5s
checkRelativePaths: as-url
whitelist:
  - /legacy/**
`

func writeFiles(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

func TestLoad(t *testing.T) {
	fsys := writeFiles(t, map[string]string{"/site/validlink.yaml": siteConfig})

	cfg, err := Load(LoadOptions{Dir: "/site", Fs: fsys})
	require.NoError(t, err)

	assert.Equal(t, "/site/validlink.yaml", cfg.Path())
	assert.Equal(t, "next", cfg.Preset)
	assert.Equal(t, "/site", cfg.Cwd)
	assert.Equal(t, []string{"content/**/*.md"}, cfg.Files)
	assert.Equal(t, 5*time.Second, cfg.ExternalTimeout)
	assert.Equal(t, "as-url", cfg.CheckRelativePaths)
	assert.Equal(t, []string{"/legacy/**"}, cfg.Whitelist)

	assert.Equal(t, scanner.PopulateParams{
		"blog/[slug]": {
			{Value: scanner.String("hello"), Hashes: []string{"intro", "2024"}},
			{Value: scanner.List("a", "b")},
		},
		"docs/[[...slug]]": {
			{
				Value:   scanner.Record(map[string]scanner.Value{"slug": scanner.List("x", "y")}),
				Queries: []scanner.Query{{"page": "1"}},
			},
		},
	}, cfg.Populate)
	assert.Equal(t, map[string]scanner.URLMeta{"/": {Hashes: []string{"top"}}}, cfg.Meta)
	assert.Equal(t, map[string]validate.ComponentSpec{"Card": {Attributes: []string{"href"}}}, cfg.Components)
}

func TestLoadJSON(t *testing.T) {
	fsys := writeFiles(t, map[string]string{
		"/site/validlink.json": `{"preset": "react-router", "routes": [{"path": "/", "children": [{"index": true}, {"path": "about"}]}]}`,
	})

	cfg, err := Load(LoadOptions{Dir: "/site", Fs: fsys})
	require.NoError(t, err)

	assert.Equal(t, "react-router", cfg.Preset)
	assert.Equal(t, []scanner.RouteConfigEntry{
		{Path: "/", Children: []scanner.RouteConfigEntry{{Index: true}, {Path: "about"}}},
	}, cfg.Routes)
}

func TestLoadDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/empty", 0o755))

	cfg, err := Load(LoadOptions{Dir: "/empty", Fs: fsys})
	require.NoError(t, err)

	assert.Empty(t, cfg.Path())
	assert.Equal(t, "next", cfg.Preset)
	assert.Equal(t, "/empty", cfg.Cwd)
	assert.False(t, cfg.HasDocuments())
}

func TestLoadOverrides(t *testing.T) {
	fsys := writeFiles(t, map[string]string{"/site/validlink.yaml": siteConfig})
	t.Setenv("VALIDLINK_BASE_URL", "/docs")
	t.Setenv("VALIDLINK_CONCURRENCY", "4")

	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	flags.String("preset", "", "")
	flags.Bool("check-external", false, "")
	flags.Bool("ignore-query", false, "")
	flags.Duration("external-timeout", 0, "")
	require.NoError(t, flags.Parse([]string{"--preset", "astro", "--check-external", "--external-timeout", "2s"}))

	cfg, err := Load(LoadOptions{Dir: "/site", Fs: fsys, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "astro", cfg.Preset)
	assert.True(t, cfg.CheckExternal)
	assert.False(t, cfg.IgnoreQuery, "unchanged flags keep file values")
	assert.Equal(t, 2*time.Second, cfg.ExternalTimeout)
	assert.Equal(t, "/docs", cfg.BaseURL)
	assert.Equal(t, 4, cfg.Concurrency)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		opts     LoadOptions
		contains string
	}{
		{
			name:     "unknown preset",
			files:    map[string]string{"/site/validlink.yaml": "preset: gatsby\n"},
			opts:     LoadOptions{Dir: "/site"},
			contains: "invalid config",
		},
		{
			name:     "unknown relative path mode",
			files:    map[string]string{"/site/validlink.yaml": "checkRelativePaths: always\n"},
			opts:     LoadOptions{Dir: "/site"},
			contains: "invalid config",
		},
		{
			name:     "unknown key",
			files:    map[string]string{"/site/validlink.yaml": "bogus: 1\n"},
			opts:     LoadOptions{Dir: "/site"},
			contains: "failed to decode",
		},
		{
			name:     "collection without route",
			files:    map[string]string{"/site/validlink.yaml": "collections:\n  - dir: content\n"},
			opts:     LoadOptions{Dir: "/site"},
			contains: "invalid config",
		},
		{
			name:     "nested populate value",
			files:    map[string]string{"/site/validlink.yaml": "populate:\n  \"[slug]\":\n    - value: [{a: 1}]\n"},
			opts:     LoadOptions{Dir: "/site"},
			contains: "populate value list items must be strings",
		},
		{
			name:     "unsupported format",
			files:    map[string]string{"/site/validlink.toml": "preset = \"next\"\n"},
			opts:     LoadOptions{Dir: "/site"},
			contains: "unsupported config format",
		},
		{
			name:     "missing explicit file",
			files:    map[string]string{},
			opts:     LoadOptions{File: "/site/custom.yaml"},
			contains: "failed to read config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Fs = writeFiles(t, tt.files)
			_, err := Load(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMarshal(t *testing.T) {
	cfg := Default()
	cfg.Files = []string{"content/**/*.mdx"}
	cfg.Collections = []Collection{{Dir: "content/docs", Route: "docs/[[...slug]]"}}
	cfg.ExternalTimeout = 3 * time.Second

	data, err := cfg.Marshal()
	require.NoError(t, err)

	assert.Equal(t, `preset: next
collections:
    - dir: content/docs
      route: docs/[[...slug]]
files:
    - content/**/*.mdx
externalTimeout: 3s
`, string(data))
}

func TestDocumentSlugs(t *testing.T) {
	tests := []struct {
		rel      string
		expected []string
	}{
		{"index.mdx", []string{}},
		{"guide.md", []string{"guide"}},
		{"guide/index.md", []string{"guide"}},
		{"guide/setup.mdx", []string{"guide", "setup"}},
	}
	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.expected, DocumentSlugs(tt.rel))
		})
	}
}

func TestPatternWhitelist(t *testing.T) {
	allow := PatternWhitelist("/legacy/**", "/exact", "[")

	assert.True(t, allow("/legacy/a/b"))
	assert.True(t, allow("/exact"))
	assert.False(t, allow("/exact/child"))
	assert.False(t, allow("/docs"))
}

func TestResolveAndRun(t *testing.T) {
	fsys := writeFiles(t, map[string]string{
		"/project/app/page.tsx":                  "",
		"/project/app/docs/[[...slug]]/page.tsx": "",
		"/project/content/docs/index.mdx":        "# Welcome\n\n[guide](/docs/guide#install)\n[bad](/docs/missing)\n",
		"/project/content/docs/guide.md":         "---\ntitle: Guide\n---\n# Guide\n\n## Install\n",
		"/project/content/docs/nested/index.md":  "# Nested\n\n[up](./guide)\n",
		"/project/content/docs/nested/notes.txt": "not a document",
		"/project/README.md":                     "[home](/) [docs](/docs/nested#nope)",
	})

	cfg := &Config{
		Preset:      "next",
		Cwd:         "/project",
		Files:       []string{"README.md", "content/docs/guide.md"},
		Collections: []Collection{{Dir: "content/docs", Route: "docs/[[...slug]]"}},
	}

	project, err := cfg.Resolve(fsys)
	require.NoError(t, err)

	urls := make(map[string]string)
	for _, f := range project.Files {
		urls[project.Rel(f.Path)] = f.URL
	}
	assert.Equal(t, map[string]string{
		"content/docs/guide.md":        "/docs/guide",
		"content/docs/index.mdx":       "/docs",
		"content/docs/nested/index.md": "/docs/nested",
		"README.md":                    "",
	}, urls)

	assert.Equal(t, []scanner.PopulateEntry{
		{Value: scanner.List("guide"), Hashes: []string{"guide", "install"}},
		{Value: scanner.List(), Hashes: []string{"welcome"}},
		{Value: scanner.List("nested"), Hashes: []string{"nested"}},
	}, project.Scan.Populate["docs/[[...slug]]"])

	space, report, err := project.Run(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/", "/docs", "/docs/guide", "/docs/nested"}, space.URLs())

	require.Len(t, report.Results, 2)
	assert.Equal(t, "content/docs/index.mdx", report.Results[0].File)
	assert.Equal(t, "/docs/missing", report.Results[0].Errors[0].URL)
	assert.Equal(t, 4, report.Results[0].Errors[0].Line)

	assert.Equal(t, "README.md", report.Results[1].File)
	assert.Equal(t, validate.ReasonInvalidFragment, report.Results[1].Errors[0].Reason)
	assert.Equal(t, 11, report.Results[1].Errors[0].Column)
	assert.Equal(t, 4, report.Files)
}

func TestCollectionDynamicRoute(t *testing.T) {
	fsys := writeFiles(t, map[string]string{
		"/blog/posts/hello.md": "# Hello",
	})

	cfg := &Config{Cwd: "/blog", Collections: []Collection{{Dir: "posts", Route: "blog/[slug]"}}}
	project, err := cfg.Resolve(fsys)
	require.NoError(t, err)

	require.Len(t, project.Files, 1)
	assert.Equal(t, "/blog/hello", project.Files[0].URL)
	assert.Equal(t, scanner.String("hello"), project.Scan.Populate["blog/[slug]"][0].Value)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{BaseDir: "content", Whitelist: []string{"/old/*"}, CheckRelativePaths: "exists"}
	vcfg := cfg.ValidateConfig(nil, "/project")

	assert.Equal(t, "/project/content", vcfg.BaseDir)
	assert.Equal(t, validate.RelativePathsExists, vcfg.CheckRelativePaths)
	require.NotNil(t, vcfg.Whitelist)
	assert.True(t, vcfg.Whitelist("/old/page"))
}
