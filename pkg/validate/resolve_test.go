package validate

import "testing"

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base     string
		relative string
		expected string
	}{
		{"docs/a", "../b", "docs/b"},
		{"/docs", "./a", "docs/a"},
		{"/docs/", "./a/./b/", "docs/a/b"},
		{"docs", "../../x", "x"},
		{"", "./a", "a"},
		{"/", "..", ""},
		{"/docs/guide", "../../blog/post", "blog/post"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.relative, func(t *testing.T) {
			if got := ResolveURL(tt.base, tt.relative); got != tt.expected {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.relative, got, tt.expected)
			}
		})
	}
}

func TestSplitHref(t *testing.T) {
	tests := []struct {
		href     string
		pathname string
		query    string
		fragment string
	}{
		{"/docs", "/docs", "", ""},
		{"/docs?q=1", "/docs", "q=1", ""},
		{"/docs#intro", "/docs", "", "intro"},
		{"/docs?q=1#intro", "/docs", "q=1", "intro"},
		{"/docs#a?b", "/docs", "", "a?b"},
		{"#top", "", "", "top"},
		{"?page=2", "", "page=2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			pathname, query, fragment := splitHref(tt.href)
			if pathname != tt.pathname || query != tt.query || fragment != tt.fragment {
				t.Errorf("splitHref(%q) = (%q, %q, %q), want (%q, %q, %q)",
					tt.href, pathname, query, fragment, tt.pathname, tt.query, tt.fragment)
			}
		})
	}
}

func TestParentURL(t *testing.T) {
	tests := map[string]string{
		"/docs/a": "/docs",
		"/docs":   "",
		"docs":    "",
		"/a/b/c":  "/a/b",
	}
	for in, want := range tests {
		if got := parentURL(in); got != want {
			t.Errorf("parentURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultClassifier(t *testing.T) {
	tests := []struct {
		pathname string
		expected PathnameKind
	}{
		{"/docs", KindURL},
		{"docs", KindURL},
		{"./guide.md", KindRelativeFilePath},
		{"../guide.mdx", KindRelativeFilePath},
		{"./guide", KindRelativeURL},
		{"../", KindRelativeURL},
	}

	for _, tt := range tests {
		if got := DefaultClassifier(tt.pathname); got != tt.expected {
			t.Errorf("DefaultClassifier(%q) = %v, want %v", tt.pathname, got, tt.expected)
		}
	}
}

func TestAllowList(t *testing.T) {
	allow := AllowList("/legacy", "/old#section")

	if !allow("/legacy") {
		t.Error("expected /legacy to be allowed")
	}
	if !allow("/old#section") {
		t.Error("expected /old#section to be allowed")
	}
	if allow("/legacy/child") {
		t.Error("expected /legacy/child to be rejected")
	}
}
