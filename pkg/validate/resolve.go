package validate

import (
	"regexp"
	"strings"
)

// hrefPartsRe splits an href on the first "?" and the first "#".
var hrefPartsRe = regexp.MustCompile(`^([^?#]*)(\?[^#]*)?(#.*)?$`)

// externalURLRe matches absolute http(s) URLs.
var externalURLRe = regexp.MustCompile(`https?://`)

// splitHref returns the pathname, query and fragment of an href. Query and
// fragment exclude their leading "?" and "#".
func splitHref(href string) (pathname, query, fragment string) {
	m := hrefPartsRe.FindStringSubmatch(href)
	if m == nil {
		return href, "", ""
	}
	return m[1], strings.TrimPrefix(m[2], "?"), strings.TrimPrefix(m[3], "#")
}

// ResolveURL resolves a relative URL against base by segment traversal: ".."
// drops the last segment of base, "." is skipped and anything else is
// appended. Going above the root is not an error, it just stays at the root.
// The result has no leading or trailing slash.
func ResolveURL(base, relative string) string {
	stack := splitPath(base)
	for _, seg := range splitPath(relative) {
		switch seg {
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ".":
		default:
			stack = append(stack, seg)
		}
	}
	return strings.Join(stack, "/")
}

// splitPath splits a path into its non-empty segments.
func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parentURL returns url without its last segment.
func parentURL(url string) string {
	i := strings.LastIndexByte(url, '/')
	if i < 0 {
		return ""
	}
	return url[:i]
}

// DefaultClassifier treats anything not starting with "." as a site URL, a
// dotted path to a Markdown document as a relative file path, and any other
// dotted path as a relative URL.
func DefaultClassifier(pathname string) PathnameKind {
	if !strings.HasPrefix(pathname, ".") {
		return KindURL
	}
	if strings.HasSuffix(pathname, ".md") || strings.HasSuffix(pathname, ".mdx") {
		return KindRelativeFilePath
	}
	return KindRelativeURL
}

// AllowList returns a Whitelist accepting exactly the given hrefs.
func AllowList(hrefs ...string) Whitelist {
	allowed := make(map[string]struct{}, len(hrefs))
	for _, h := range hrefs {
		allowed[h] = struct{}{}
	}
	return func(href string) bool {
		_, ok := allowed[href]
		return ok
	}
}
