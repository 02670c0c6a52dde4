// Package validate checks the links of Markdown and MDX documents against a
// scanned URL space.
//
// Every href found in a document is classified (site URL, relative URL,
// relative file path or external URL), resolved to a pathname and looked up
// in the URL space, then its fragment and query are checked against the
// metadata declared for the matching URL.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"

	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
)

// Reason classifies why a link is invalid.
type Reason string

const (
	// ReasonNotFound means no URL matches the link, or an external URL is dead
	ReasonNotFound Reason = "not-found"
	// ReasonInvalidFragment means the URL exists but does not declare the fragment
	ReasonInvalidFragment Reason = "invalid-fragment"
	// ReasonInvalidQuery means the URL exists but none of its query shapes match
	ReasonInvalidQuery Reason = "invalid-query"
)

var (
	// ErrMissingBaseURL is returned for a relative URL in a file with no known URL.
	ErrMissingBaseURL = errors.New("relative URL detected, but base URL is missing")
	// ErrMissingPathToURL is returned when relative paths are checked as URLs
	// without a way to map files to URLs.
	ErrMissingPathToURL = errors.New("relative paths are checked as URLs, but path to URL mapping is missing")
)

// Warning is a non-fatal diagnostic, e.g. an unsupported file or an
// unexpected external status.
type Warning = scanner.Warning

// ValidateError is one invalid link of a document. Exactly one of Reason and
// Err is set: Err carries an unexpected failure raised while checking the link.
type ValidateError struct {
	URL    string
	Line   int
	Column int
	Reason Reason
	Err    error
}

// Message describes the failure.
func (e ValidateError) Message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Reason)
}

// Error implements error.
func (e ValidateError) Error() string {
	return fmt.Sprintf("%s: %s at line %d column %d", e.URL, e.Message(), e.Line, e.Column)
}

// Unwrap returns the unexpected failure, if any.
func (e ValidateError) Unwrap() error {
	return e.Err
}

// Tuple returns the error in the legacy (url, line, column, reason) shape.
// The reason is a Reason or an error.
func (e ValidateError) Tuple() (string, int, int, any) {
	if e.Err != nil {
		return e.URL, e.Line, e.Column, e.Err
	}
	return e.URL, e.Line, e.Column, e.Reason
}

// MarshalJSON encodes an unexpected failure as its message under "error".
func (e ValidateError) MarshalJSON() ([]byte, error) {
	out := struct {
		URL    string `json:"url"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Reason Reason `json:"reason,omitempty"`
		Error  string `json:"error,omitempty"`
	}{
		URL:    e.URL,
		Line:   e.Line,
		Column: e.Column,
		Reason: e.Reason,
	}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return json.Marshal(out)
}

// Result holds the invalid links of one file, in document order.
type Result struct {
	File   string          `json:"file"`
	Errors []ValidateError `json:"errors"`
}

// Report is the outcome of one validation run.
type Report struct {
	// Results lists the files with at least one error, in input order
	Results []Result `json:"results"`
	// Warnings are non-fatal diagnostics raised during the run
	Warnings []Warning `json:"warnings,omitempty"`
	// Files is the number of files checked
	Files int `json:"files"`
}

// ErrorCount returns the number of invalid links across all files.
func (r *Report) ErrorCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Errors)
	}
	return n
}

// HasErrors reports whether any link is invalid.
func (r *Report) HasErrors() bool {
	return len(r.Results) > 0
}

// PathToURL maps a document path to its public URL. It reports false for
// files that are not part of the site.
type PathToURL func(path string) (string, bool)

// PathnameKind is how a pathname is resolved.
type PathnameKind int

const (
	// KindURL is a site pathname, looked up as is
	KindURL PathnameKind = iota
	// KindRelativeFilePath points at another document (./other.md)
	KindRelativeFilePath
	// KindRelativeURL is resolved against the URL of the current document (../other)
	KindRelativeURL
)

// PathnameClassifier decides how a pathname is resolved.
type PathnameClassifier func(pathname string) PathnameKind

// Whitelist reports whether an href is always valid.
type Whitelist func(href string) bool

// RelativePathMode selects how links to other documents are checked.
type RelativePathMode string

const (
	// RelativePathsIgnore skips links to other documents
	RelativePathsIgnore RelativePathMode = ""
	// RelativePathsExists checks that the linked file exists
	RelativePathsExists RelativePathMode = "exists"
	// RelativePathsAsURL checks the public URL of the linked file
	RelativePathsAsURL RelativePathMode = "as-url"
)

// Resolution is the per-file context a link is resolved in.
type Resolution struct {
	// BaseURL is the URL relative URLs resolve against
	BaseURL string
	// BaseDir is the directory relative file paths resolve against
	BaseDir string
	// PathToURL maps a linked document to its URL
	PathToURL PathToURL
}

// ComponentSpec lists the attributes of an MDX component that hold links.
type ComponentSpec struct {
	Attributes []string `json:"attributes" mapstructure:"attributes" yaml:"attributes"`
}

// Href is a link found in a document. Offset is its byte offset in the
// source, or -1 to use the position of the node it was found on.
type Href struct {
	URL    string
	Offset int
}

// NodeHrefs extracts the links of one node. A custom NodeHrefs replaces the
// default extraction entirely.
type NodeHrefs func(node ast.Node, source []byte) []Href

// MarkdownConfig controls link extraction.
type MarkdownConfig struct {
	// Components maps MDX component names to their link attributes
	Components map[string]ComponentSpec
	// Extensions are additional goldmark extensions, applied after GFM
	Extensions []goldmark.Extender
	// OnNode overrides link extraction
	OnNode NodeHrefs
}

// Config configures ValidateFiles.
type Config struct {
	// Scanned is the URL space links are checked against
	Scanned *scanner.URLSpace
	// BaseURL is the default base for relative URLs
	BaseURL string
	// BaseDir is the default base for relative file paths
	BaseDir string

	IgnoreFragment bool
	IgnoreQuery    bool
	// CheckExternal sends a HEAD request to every http(s) link
	CheckExternal bool
	// CheckRelativePaths selects how links to other documents are checked
	CheckRelativePaths RelativePathMode
	// SkipRelativeURLs ignores relative URLs instead of resolving them
	SkipRelativeURLs bool

	// PathToURL maps documents to URLs (default: the URLs of the input files)
	PathToURL PathToURL
	// Whitelist marks hrefs that are always valid
	Whitelist Whitelist
	// DeterminatePathname overrides DefaultClassifier
	DeterminatePathname PathnameClassifier
	// Markdown controls link extraction
	Markdown MarkdownConfig

	// Fs is the file system documents are read from (default: OS file system)
	Fs afero.Fs
	// Checker checks external URLs (default: an HTTPChecker)
	Checker URLChecker
	// ExternalTimeout bounds each external check (default: 10s)
	ExternalTimeout time.Duration
	// Concurrency limits files checked at once (default: unlimited)
	Concurrency int
}
