package scanner

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCwd = "/project"

// newProject creates an in-memory project holding the given files.
func newProject(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, f := range files {
		p := filepath.Join(testCwd, f)
		require.NoError(t, fsys.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fsys, p, []byte("export default {}\n"), 0o644))
	}
	return fsys
}

func fallbackPatterns(space *URLSpace) []string {
	out := make([]string, 0, len(space.Fallbacks))
	for _, fb := range space.Fallbacks {
		out = append(out, fb.Pattern.String())
	}
	return out
}

func TestScanURLsNextPages(t *testing.T) {
	t.Run("static pages", func(t *testing.T) {
		space, err := ScanURLs(Options{
			Pages: []string{"page.tsx", "docs/page.tsx", "nested/docs/page.tsx"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/", "/docs", "/nested/docs"}, space.URLs())
		assert.Empty(t, space.Fallbacks)
	})

	t.Run("populated catch-all", func(t *testing.T) {
		space, err := ScanURLs(Options{
			Pages: []string{"docs/[...slug]/page.tsx"},
			Populate: PopulateParams{
				"docs/[...slug]": {{Value: List("hello", "world"), Hashes: []string{"hash"}}},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/docs/hello/world"}, space.URLs())
		meta, ok := space.Get("/docs/hello/world")
		require.True(t, ok)
		assert.Equal(t, []string{"hash"}, meta.Hashes)
	})

	t.Run("nested populate keys", func(t *testing.T) {
		space, err := ScanURLs(Options{
			Pages: []string{"blog/[lang]/page.tsx", "blog/[lang]/[...slug]/page.tsx"},
			Populate: PopulateParams{
				"blog/[lang]": {{Value: Record(map[string]Value{"lang": String("en")})}},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/blog/en"}, space.URLs())
		assert.Equal(t, []string{"^/blog/en/(.+)$"}, fallbackPatterns(space))
		require.Len(t, space.Warnings, 1)
		assert.Equal(t, "blog/[lang]/[...slug]/page.tsx", space.Warnings[0].FilePath)
	})

	t.Run("page file meta keys", func(t *testing.T) {
		meta := map[string]URLMeta{
			"page.tsx":      {Hashes: []string{"top"}},
			"docs/page.tsx": {Hashes: []string{"intro"}},
		}
		space, err := ScanURLs(Options{
			Pages: []string{"page.tsx", "docs/page.tsx"},
			Meta:  meta,
		})
		require.NoError(t, err)

		root, _ := space.Get("/")
		assert.Equal(t, []string{"top"}, root.Hashes)
		docs, _ := space.Get("/docs")
		assert.Equal(t, []string{"intro"}, docs.Hashes)
		assert.Contains(t, meta, "page.tsx", "caller meta must not be modified")
	})

	t.Run("misplaced optional catch-all", func(t *testing.T) {
		_, err := ScanURLs(Options{Pages: []string{"docs/[[...slug]]/edit/page.tsx"}})
		require.ErrorIs(t, err, ErrOptionalCatchAllPosition)
	})
}

func TestScanURLsNextDiscovery(t *testing.T) {
	fsys := newProject(t,
		"app/page.tsx",
		"app/docs/page.mdx",
		"app/(marketing)/about/page.tsx",
		"app/blog/[slug]/page.tsx",
		"app/components/button.tsx",
		"pages/legacy.tsx",
		"pages/guides/index.md",
		"pages/_app.tsx",
		"content/ignored.md",
	)

	space, err := ScanURLs(Options{Cwd: testCwd, Fs: fsys})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/", "/docs", "/about", "/guides", "/legacy"}, space.URLs())
	assert.Equal(t, []string{"^/blog/(.+)$"}, fallbackPatterns(space))
}

func TestScanURLsNextPrefersSrc(t *testing.T) {
	fsys := newProject(t,
		"src/app/page.tsx",
		"src/app/docs/page.tsx",
		"app/stale/page.tsx",
	)

	space, err := ScanURLs(Options{Cwd: testCwd, Fs: fsys})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/", "/docs"}, space.URLs())
}

func TestScanURLsExtensions(t *testing.T) {
	fsys := newProject(t,
		"app/page.tsx",
		"app/docs/page.md",
	)

	space, err := ScanURLs(Options{Cwd: testCwd, Fs: fsys, Extensions: []string{"md"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"/docs"}, space.URLs())
}

func TestScanURLsAstro(t *testing.T) {
	fsys := newProject(t,
		"src/pages/index.astro",
		"src/pages/blog/index.md",
		"src/pages/blog/post.mdx",
		"src/pages/[lang]/about.astro",
		"src/pages/styles.css",
	)

	space, err := ScanURLs(Options{Preset: PresetAstro, Cwd: testCwd, Fs: fsys})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/", "/blog", "/blog/post"}, space.URLs())
	assert.Equal(t, []string{"^/(.+)/about$"}, fallbackPatterns(space))
}

func TestScanURLsNuxt(t *testing.T) {
	fsys := newProject(t,
		"pages/index.vue",
		"pages/users/[id].vue",
	)

	space, err := ScanURLs(Options{
		Preset: PresetNuxt,
		Cwd:    testCwd,
		Fs:     fsys,
		Populate: PopulateParams{
			"users/[id]": {{Value: String("42")}},
		},
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/", "/users/42"}, space.URLs())
	assert.Empty(t, space.Fallbacks)
}

func TestScanURLsWaku(t *testing.T) {
	fsys := newProject(t,
		"pages/index.tsx",
		"pages/_layout.tsx",
		"pages/about.tsx",
		"pages/blog/[slug].tsx",
		"pages/docs/[...path].tsx",
	)

	space, err := ScanURLs(Options{Preset: PresetWaku, Cwd: testCwd, Fs: fsys})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/", "/about", "/docs"}, space.URLs())
	assert.ElementsMatch(t, []string{"^/blog/(.+)$", "^/docs/(.+)$"}, fallbackPatterns(space))
}

func TestScanURLsTanStackStart(t *testing.T) {
	fsys := newProject(t,
		"src/routes/__root.tsx",
		"src/routes/index.tsx",
		"src/routes/about.tsx",
		"src/routes/posts/index.tsx",
		"src/routes/posts.$postId.tsx",
		"src/routes/files/$.tsx",
		"src/routes/_layout.tsx",
		"src/routes/_layout/dashboard.tsx",
		"src/routes/docs[.]json.ts",
		"src/routes/settings/route.tsx",
		"src/routes/-components/header.tsx",
	)

	space, err := ScanURLs(Options{Preset: PresetTanStackStart, Cwd: testCwd, Fs: fsys})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"/", "/about", "/posts", "/dashboard", "/docs.json", "/settings"}, space.URLs())
	assert.ElementsMatch(t, []string{"^/posts/(.+)$", "^/files/(.+)$"}, fallbackPatterns(space))
}

func TestFlatRouteSegments(t *testing.T) {
	tests := []struct {
		file string
		want []string
	}{
		{"index.tsx", []string{}},
		{"posts.$postId.edit.tsx", []string{"posts", "[postId]", "edit"}},
		{"posts_.$postId.tsx", []string{"posts", "[postId]"}},
		{"$.tsx", []string{"[...splat]"}},
		{"api/v1[.]0/index.ts", []string{"api", "v1.0"}},
		{"_auth.tsx", nil},
		{"-utils.ts", nil},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, flatRouteSegments(tt.file))
		})
	}
}

func TestScanURLsReactRouter(t *testing.T) {
	t.Run("optional segment combinations", func(t *testing.T) {
		space, err := ScanURLs(Options{
			Preset: PresetReactRouter,
			RouterConfig: []RouteConfigEntry{
				{
					Path: "projects",
					Children: []RouteConfigEntry{
						{Index: true},
						{Path: "seek?"},
						{Path: ":pid"},
					},
				},
				{Path: "*"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/projects", "/projects/seek", "/"}, space.URLs())
		assert.Equal(t, []string{"^/projects/(.+)$", "^/(.+)$"}, fallbackPatterns(space))
	})

	t.Run("pathless layout passes its prefix", func(t *testing.T) {
		space, err := ScanURLs(Options{
			Preset: PresetReactRouter,
			RouterConfig: []RouteConfigEntry{
				{Children: []RouteConfigEntry{{Path: "about"}}},
				{Path: ":lang?/docs"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"/about", "/docs"}, space.URLs())
		assert.Equal(t, []string{"^/(.+)/docs$"}, fallbackPatterns(space))
	})

	t.Run("pages bypass config", func(t *testing.T) {
		space, err := ScanURLs(Options{
			Preset: PresetReactRouter,
			Pages:  []string{"a", "b/c"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"/a", "/b/c"}, space.URLs())
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := ScanURLs(Options{Preset: PresetReactRouter})
		require.ErrorIs(t, err, ErrMissingRouterConfig)
	})
}

func TestExpandRouteEntryDoubling(t *testing.T) {
	got := expandRouteEntry(nil, RouteConfigEntry{Path: "a?/b/c?"}, nil)
	assert.ElementsMatch(t, []string{"b", "a/b", "b/c", "a/b/c"}, got)
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		input   string
		want    Preset
		wantErr bool
	}{
		{"", PresetNext, false},
		{"app-router", PresetNext, false},
		{"Astro", PresetAstro, false},
		{"tanstack-start", PresetTanStackStart, false},
		{"gatsby", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePreset(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPreset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanURLsIdempotent(t *testing.T) {
	opts := Options{
		Pages: []string{"page.tsx", "docs/[[...slug]]/page.tsx", "blog/[slug]/page.tsx"},
		Populate: PopulateParams{
			"blog/[slug]": {{Value: String("a")}, {Value: String("b")}, {}},
		},
	}

	first, err := ScanURLs(opts)
	require.NoError(t, err)
	second, err := ScanURLs(opts)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, string(a), string(b))
}
