package scanner

import (
	"regexp"
	"strings"
)

// Route segment pattern matchers
var (
	// [[...slug]] - optional catch-all segment
	// Matches: [[...slug]], [[...path]]
	optionalCatchAllRe = regexp.MustCompile(`^\[\[\.\.\.(.+)\]\]$`)

	// [...slug] - catch-all segment
	// Matches: [...slug], [...path], [..._splat]
	catchAllSegmentRe = regexp.MustCompile(`^\[\.\.\.(.+)\]$`)

	// [id] - dynamic segment
	// Matches: [id], [userId], [post-id]
	dynamicSegmentRe = regexp.MustCompile(`^\[(.+)\]$`)

	// (group) - route group (doesn't affect URL)
	// Matches: (admin), (home), (marketing)
	routeGroupRe = regexp.MustCompile(`^\((.+)\)$`)
)

// ParseSegment parses one raw route segment into a Segment.
func ParseSegment(name string) Segment {
	seg := Segment{Raw: name}

	// Route group: (admin)
	if matches := routeGroupRe.FindStringSubmatch(name); len(matches) > 1 {
		seg.Name = matches[1]
		seg.Type = SegmentGroup
		return seg
	}

	// Optional catch-all: [[...slug]]
	if matches := optionalCatchAllRe.FindStringSubmatch(name); len(matches) > 1 {
		seg.Name = matches[1]
		seg.Type = SegmentOptionalCatchAll
		return seg
	}

	// Catch-all: [...slug]
	if matches := catchAllSegmentRe.FindStringSubmatch(name); len(matches) > 1 {
		seg.Name = matches[1]
		seg.Type = SegmentCatchAll
		return seg
	}

	// Dynamic: [id]
	if matches := dynamicSegmentRe.FindStringSubmatch(name); len(matches) > 1 {
		seg.Name = matches[1]
		seg.Type = SegmentDynamic
		return seg
	}

	// Static segment
	seg.Name = name
	seg.Type = SegmentStatic
	return seg
}

// ParseSegments parses a route template into its URL-visible segments.
// Empty segments and route groups are dropped; the result is index-aligned
// with the tokens that make up the URL.
func ParseSegments(raw []string) []Segment {
	segments := make([]Segment, 0, len(raw))
	for _, part := range raw {
		if part == "" {
			continue
		}
		seg := ParseSegment(part)
		if seg.Type == SegmentGroup {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

// SplitRoute splits a slash-separated route template into raw segments.
func SplitRoute(route string) []string {
	parts := strings.Split(route, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RouteKey returns the populate/meta key of a raw segment list.
func RouteKey(raw []string) string {
	if len(raw) == 0 {
		return "/"
	}
	return strings.Join(raw, "/")
}
