// Package scanner synthesizes the URL space of a site from its router layout.
// It parses file-system routing conventions ([id], [...slug], [[...slug]], (group))
// of several frameworks, expands parameterized routes with caller supplied
// values, and collects exact URLs plus regex fallbacks for unresolved routes.
package scanner

import (
	"github.com/spf13/afero"
)

// SegmentType represents the type of a route segment.
type SegmentType int

const (
	// SegmentStatic is a literal path segment (e.g., "docs")
	SegmentStatic SegmentType = iota
	// SegmentDynamic is a required single parameter (e.g., [id])
	SegmentDynamic
	// SegmentCatchAll is a required catch-all parameter (e.g., [...slug])
	SegmentCatchAll
	// SegmentOptionalCatchAll is an optional catch-all (e.g., [[...slug]])
	SegmentOptionalCatchAll
	// SegmentGroup is a route group that doesn't affect the URL (e.g., (marketing))
	SegmentGroup
)

// String returns a short name for the segment type.
func (t SegmentType) String() string {
	switch t {
	case SegmentStatic:
		return "static"
	case SegmentDynamic:
		return "dynamic"
	case SegmentCatchAll:
		return "catch-all"
	case SegmentOptionalCatchAll:
		return "optional-catch-all"
	case SegmentGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Segment represents a parsed path segment.
type Segment struct {
	// Raw is the original segment (e.g., "[id]", "(admin)")
	Raw string
	// Name is the literal token or the parameter name (e.g., "id" from "[id]")
	Name string
	// Type is the segment type
	Type SegmentType
}

// IsParam reports whether the segment is filled from populate values.
func (s Segment) IsParam() bool {
	return s.Type == SegmentDynamic || s.Type == SegmentCatchAll || s.Type == SegmentOptionalCatchAll
}

// Query is one accepted query-string shape, a mapping of key to value.
type Query map[string]string

// URLMeta describes what a URL accepts. A nil field does not constrain links;
// a non-nil empty field rejects every fragment or query.
type URLMeta struct {
	Hashes  []string `json:"hashes,omitempty" mapstructure:"hashes" yaml:"hashes,omitempty"`
	Queries []Query  `json:"queries,omitempty" mapstructure:"queries" yaml:"queries,omitempty"`
}

// PopulateEntry supplies parameter values for one concrete URL of a route
// template, along with the metadata of that URL.
type PopulateEntry struct {
	Value   Value    `json:"value,omitempty" mapstructure:"value" yaml:"value,omitempty"`
	Hashes  []string `json:"hashes,omitempty" mapstructure:"hashes" yaml:"hashes,omitempty"`
	Queries []Query  `json:"queries,omitempty" mapstructure:"queries" yaml:"queries,omitempty"`
}

// Meta returns the URL metadata carried by the entry.
func (e PopulateEntry) Meta() URLMeta {
	return URLMeta{Hashes: e.Hashes, Queries: e.Queries}
}

// PopulateParams maps a route template key (raw segments joined by "/", or "/"
// for the root) to the entries that expand it.
type PopulateParams map[string][]PopulateEntry

// RouteConfigEntry is one node of a declarative route tree (React Router style).
type RouteConfigEntry struct {
	// Path is the node's path, relative to its parent (e.g., ":id/edit", "seek?", "*")
	Path string `json:"path,omitempty" mapstructure:"path" yaml:"path,omitempty"`
	// Index marks an index route, which never declares a path
	Index bool `json:"index,omitempty" mapstructure:"index" yaml:"index,omitempty"`
	// Children are nested routes
	Children []RouteConfigEntry `json:"children,omitempty" mapstructure:"children" yaml:"children,omitempty"`
}

// Options configures ScanURLs.
type Options struct {
	// Preset selects the routing convention (default: PresetNext)
	Preset Preset
	// Pages bypasses file discovery. For PresetNext entries are page file paths
	// relative to the app directory (e.g. "docs/[slug]/page.tsx"); for every
	// other preset they are route templates (e.g. "docs/[slug]").
	Pages []string
	// Cwd is the project root (default: working directory)
	Cwd string
	// Fs is the file system to discover pages on (default: OS file system)
	Fs afero.Fs
	// Populate supplies values for parameterized routes
	Populate PopulateParams
	// Meta attaches metadata to static routes, keyed like Populate
	Meta map[string]URLMeta
	// Extensions overrides the preset's page file extensions (without dots)
	Extensions []string
	// RouterConfig is the route tree for PresetReactRouter
	RouterConfig []RouteConfigEntry
}

// Warning represents a non-fatal issue found while scanning or validating.
type Warning struct {
	FilePath string `json:"file,omitempty"`
	Message  string `json:"message"`
}
