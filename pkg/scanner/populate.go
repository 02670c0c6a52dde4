package scanner

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrOptionalCatchAllPosition is returned when an optional catch-all is not
// the last segment of a route template.
var ErrOptionalCatchAllPosition = errors.New("invalid position of optional catch-all")

// fallbackToken matches any non-empty value of an unresolved parameter.
const fallbackToken = "(.+)"

// Entry is one URL produced by Populate: an exact URL, or a fallback pattern
// when some parameter stayed unresolved.
type Entry struct {
	URL     string
	Pattern *regexp.Regexp
	Meta    URLMeta
}

// IsFallback reports whether the entry is a regex fallback.
func (e Entry) IsFallback() bool {
	return e.Pattern != nil
}

// defaultPopulate leaves every parameter of a template unresolved.
var defaultPopulate = []PopulateEntry{{}}

// Populate expands a route template into the URLs it stands for.
//
// Static templates produce exactly one exact URL carrying opts.Meta for their
// key. Parameterized templates produce one URL per populate entry found for
// the template (or its closest ancestor key), falling back to an anchored
// pattern wherever a parameter has no value.
func Populate(raw []string, opts *Options) ([]Entry, []Warning, error) {
	raw = SplitRoute(strings.Join(raw, "/"))
	segments := ParseSegments(raw)
	key := RouteKey(raw)

	var params []int
	for i, seg := range segments {
		if !seg.IsParam() {
			continue
		}
		if seg.Type == SegmentOptionalCatchAll && i != len(segments)-1 {
			return nil, nil, fmt.Errorf("%w: %s", ErrOptionalCatchAllPosition, key)
		}
		params = append(params, i)
	}

	// static
	if len(params) == 0 {
		tokens := make([]string, len(segments))
		for i, seg := range segments {
			tokens[i] = seg.Name
		}
		var meta URLMeta
		if opts != nil {
			meta = opts.Meta[key]
		}
		return []Entry{{URL: "/" + strings.Join(tokens, "/"), Meta: meta}}, nil, nil
	}

	var (
		out      []Entry
		warnings []Warning
	)
	for _, entry := range lookupPopulate(raw, opts) {
		tokens := make([]string, len(segments))
		unresolved := make([]bool, len(segments))
		for i, seg := range segments {
			tokens[i] = seg.Name
		}

		ambiguous := len(params) > 1 && entry.Value.IsSingle()
		if ambiguous {
			warnings = append(warnings, Warning{
				Message: fmt.Sprintf("path %s requires multiple params, an object value for populate is expected", key),
			})
		}

		for _, i := range params {
			seg := segments[i]

			var (
				text string
				ok   bool
			)
			switch {
			case ambiguous:
			case entry.Value.IsSingle():
				text, ok = entry.Value.segment()
			default:
				if field, found := entry.Value.Field(seg.Name); found {
					text, ok = field.segment()
				}
			}

			if ok {
				tokens[i] = text
				continue
			}

			if entry.Value.Kind() == ValueRecord && seg.Type != SegmentOptionalCatchAll {
				warnings = append(warnings, Warning{
					Message: fmt.Sprintf("path %s: populate value has no param %q, falling back to a pattern", key, seg.Name),
				})
			}
			unresolved[i] = true
		}

		meta := entry.Meta()
		last := len(segments) - 1
		if unresolved[last] && segments[last].Type == SegmentOptionalCatchAll {
			// without param (optional case)
			out = append(out, buildEntry(tokens[:last], unresolved[:last], meta))
		}
		out = append(out, buildEntry(tokens, unresolved, meta))
	}

	return out, warnings, nil
}

// lookupPopulate walks from the full template key up through its ancestors,
// then "/", and returns the first registered entries.
func lookupPopulate(raw []string, opts *Options) []PopulateEntry {
	if opts == nil || opts.Populate == nil {
		return defaultPopulate
	}
	for n := len(raw); n > 0; n-- {
		if entries, ok := opts.Populate[strings.Join(raw[:n], "/")]; ok {
			return entries
		}
	}
	if entries, ok := opts.Populate["/"]; ok {
		return entries
	}
	return defaultPopulate
}

// buildEntry joins tokens into an exact URL, or into an anchored pattern when
// any token is unresolved. Empty tokens (collapsed values) are dropped.
func buildEntry(tokens []string, unresolved []bool, meta URLMeta) Entry {
	exact := make([]string, 0, len(tokens))
	quoted := make([]string, 0, len(tokens))
	fallback := false

	for i, tok := range tokens {
		if unresolved[i] {
			quoted = append(quoted, fallbackToken)
			fallback = true
			continue
		}
		if tok == "" {
			continue
		}
		exact = append(exact, tok)
		quoted = append(quoted, regexp.QuoteMeta(tok))
	}

	if fallback {
		return Entry{
			Pattern: regexp.MustCompile("^/" + strings.Join(quoted, "/") + "$"),
			Meta:    meta,
		}
	}
	return Entry{URL: "/" + strings.Join(exact, "/"), Meta: meta}
}
