package scanner

import (
	"encoding/json"
	"net/url"
	"regexp"
	"slices"
)

// FallbackURL is a pattern standing in for a route whose parameters were not
// concretely populated.
type FallbackURL struct {
	Pattern *regexp.Regexp
	Meta    URLMeta
}

// URLSpace is the set of known-good site URLs: exact pathnames plus ordered
// fallback patterns. It is built once by ScanURLs and only read afterwards,
// so concurrent lookups need no locking.
type URLSpace struct {
	urls  map[string]URLMeta
	order []string

	// Fallbacks are matched in registration order, first match wins
	Fallbacks []FallbackURL
	// Warnings are non-fatal issues encountered during scanning
	Warnings []Warning
}

// NewURLSpace creates an empty URL space.
func NewURLSpace() *URLSpace {
	return &URLSpace{urls: make(map[string]URLMeta)}
}

// Set registers an exact URL. Re-registering a URL replaces its metadata but
// keeps its original position.
func (s *URLSpace) Set(pathname string, meta URLMeta) {
	if s.urls == nil {
		s.urls = make(map[string]URLMeta)
	}
	if _, ok := s.urls[pathname]; !ok {
		s.order = append(s.order, pathname)
	}
	s.urls[pathname] = meta
}

// Add registers a populated entry.
func (s *URLSpace) Add(e Entry) {
	if e.IsFallback() {
		s.Fallbacks = append(s.Fallbacks, FallbackURL{Pattern: e.Pattern, Meta: e.Meta})
		return
	}
	s.Set(e.URL, e.Meta)
}

// Get returns the metadata of an exact URL.
func (s *URLSpace) Get(pathname string) (URLMeta, bool) {
	meta, ok := s.urls[pathname]
	return meta, ok
}

// URLs returns the exact URLs in registration order.
func (s *URLSpace) URLs() []string {
	return slices.Clone(s.order)
}

// Len returns the number of exact URLs.
func (s *URLSpace) Len() int {
	return len(s.order)
}

// Lookup finds the metadata for a pathname: exact match first, then the
// first fallback pattern that matches.
func (s *URLSpace) Lookup(pathname string) (URLMeta, bool) {
	if meta, ok := s.urls[pathname]; ok {
		return meta, true
	}
	for _, fb := range s.Fallbacks {
		if fb.Pattern.MatchString(pathname) {
			return fb.Meta, true
		}
	}
	return URLMeta{}, false
}

// AllowsHash reports whether fragment is valid for the URL.
func (m URLMeta) AllowsHash(fragment string) bool {
	if m.Hashes == nil {
		return true
	}
	return slices.Contains(m.Hashes, fragment)
}

// AllowsQuery reports whether a raw query string matches one of the declared
// shapes. Both sides are compared in their key-sorted canonical form.
func (m URLMeta) AllowsQuery(rawQuery string) bool {
	if m.Queries == nil {
		return true
	}
	canonical := CanonicalQuery(rawQuery)
	for _, q := range m.Queries {
		if q.Encode() == canonical {
			return true
		}
	}
	return false
}

// Encode serializes the shape with keys sorted, the same form CanonicalQuery
// produces for links.
func (q Query) Encode() string {
	values := make(url.Values, len(q))
	for k, v := range q {
		values.Set(k, v)
	}
	return values.Encode()
}

// CanonicalQuery re-encodes a raw query string with keys sorted. Strings that
// cannot be parsed are returned unchanged.
func CanonicalQuery(rawQuery string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}
	return values.Encode()
}

type urlJSON struct {
	URL  string  `json:"url"`
	Meta URLMeta `json:"meta"`
}

type fallbackJSON struct {
	Pattern string  `json:"pattern"`
	Meta    URLMeta `json:"meta"`
}

// MarshalJSON encodes the space with URLs in registration order.
func (s *URLSpace) MarshalJSON() ([]byte, error) {
	out := struct {
		URLs      []urlJSON      `json:"urls"`
		Fallbacks []fallbackJSON `json:"fallbackUrls"`
		Warnings  []Warning      `json:"warnings,omitempty"`
	}{
		URLs:      make([]urlJSON, 0, len(s.order)),
		Fallbacks: make([]fallbackJSON, 0, len(s.Fallbacks)),
		Warnings:  s.Warnings,
	}
	for _, u := range s.order {
		out.URLs = append(out.URLs, urlJSON{URL: u, Meta: s.urls[u]})
	}
	for _, fb := range s.Fallbacks {
		out.Fallbacks = append(out.Fallbacks, fallbackJSON{Pattern: fb.Pattern.String(), Meta: fb.Meta})
	}
	return json.Marshal(out)
}
