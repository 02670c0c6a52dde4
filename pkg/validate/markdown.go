package validate

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

// link is an href found in a document, with its 1-based position.
type link struct {
	href   string
	line   int
	column int
}

// extractor finds the links of Markdown and MDX documents.
type extractor struct {
	parser     parser.Parser
	components map[string]ComponentSpec
	onNode     NodeHrefs
}

func newExtractor(cfg MarkdownConfig) *extractor {
	exts := append([]goldmark.Extender{extension.GFM}, cfg.Extensions...)
	md := goldmark.New(goldmark.WithExtensions(exts...))

	return &extractor{
		parser:     md.Parser(),
		components: cfg.Components,
		onNode:     cfg.OnNode,
	}
}

// extract returns the links of a document in document order. MDX component
// attributes are only read from .mdx documents, after their JSX expressions
// are masked.
func (e *extractor) extract(path string, source []byte) []link {
	lines := newLineIndex(source)
	mdx := strings.EqualFold(filepath.Ext(path), ".mdx")
	if mdx && len(e.components) > 0 {
		source = maskExpressions(source, e.components)
	}
	doc := e.parser.Parse(text.NewReader(source))

	var (
		out    []link
		cursor int
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var hrefs []Href
		if e.onNode != nil {
			hrefs = e.onNode(n, source)
		} else {
			hrefs = e.defaultHrefs(n, source, mdx)
		}

		nodeOffset := -1
		for _, h := range hrefs {
			offset := h.Offset
			if offset < 0 {
				if nodeOffset < 0 {
					nodeOffset = locate(n, source, cursor)
				}
				offset = nodeOffset
			}
			// synthetic nodes have no place in the source
			if offset < 0 {
				continue
			}
			line, column := lines.position(offset)
			out = append(out, link{href: h.URL, line: line, column: column})
		}
		if nodeOffset >= 0 {
			cursor = max(cursor, nodeOffset+1)
		}

		if t, ok := n.(*ast.Text); ok {
			cursor = max(cursor, t.Segment.Stop)
		}
		return ast.WalkContinue, nil
	})

	return out
}

// defaultHrefs reads the destination of links and autolinks, and the link
// attributes of configured MDX components.
func (e *extractor) defaultHrefs(n ast.Node, source []byte, mdx bool) []Href {
	switch n := n.(type) {
	case *ast.Link:
		dest := util.UnescapePunctuations(n.Destination)
		dest = util.ResolveNumericReferences(util.ResolveEntityNames(dest))
		return []Href{{URL: string(dest), Offset: -1}}

	case *ast.AutoLink:
		u := string(n.URL(source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(u), "mailto:") {
			u = "mailto:" + u
		}
		return []Href{{URL: u, Offset: -1}}

	case *ast.RawHTML:
		if !mdx || len(e.components) == 0 {
			return nil
		}
		return e.componentHrefs(segmentList(n.Segments), source)

	case *ast.HTMLBlock:
		if !mdx || len(e.components) == 0 {
			return nil
		}
		segments := segmentList(n.Lines())
		if n.HasClosure() {
			segments = append(segments, n.ClosureLine)
		}
		return e.componentHrefs(segments, source)
	}
	return nil
}

// componentHrefs tokenizes raw HTML/JSX and returns the string values of the
// configured attributes. Expression values ({...}) cannot be analyzed and
// are skipped. Offsets point at the start of the component
// tag.
func (e *extractor) componentHrefs(segments []text.Segment, source []byte) []Href {
	var (
		buf    []byte
		starts []int // offset in buf where each segment begins
	)
	for _, s := range segments {
		starts = append(starts, len(buf))
		buf = append(buf, s.Value(source)...)
	}
	toSource := func(pos int) int {
		i := sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
		if i < 0 {
			return -1
		}
		return segments[i].Start + pos - starts[i]
	}

	var hrefs []Href
	z := html.NewTokenizer(bytes.NewReader(buf))
	pos := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		start := pos
		pos += len(raw)

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		spec, ok := e.components[rawTagName(raw)]
		if !ok {
			continue
		}

		for {
			key, val, more := z.TagAttr()
			if v := bytes.TrimSpace(val); len(v) > 0 && v[0] != '{' && hasAttribute(spec, string(key)) {
				hrefs = append(hrefs, Href{URL: string(val), Offset: toSource(start)})
			}
			if !more {
				break
			}
		}
	}
	return hrefs
}

// exprSpan is a JSX expression of a component tag, braces included.
type exprSpan struct {
	start, end int
	// value is set for an attribute value (name={...}), unset for a spread
	value bool
}

// maskExpressions rewrites the JSX expressions inside the opening tags of the
// configured components, so that the tags read as plain HTML. An expression
// value becomes a quoted run of "{", a spread becomes a run of "_" read as a
// bare attribute. Byte offsets and line breaks are kept.
func maskExpressions(source []byte, components map[string]ComponentSpec) []byte {
	var out []byte
	for i := 0; i < len(source); i++ {
		if source[i] != '<' {
			continue
		}
		name := tagName(source[i+1:])
		if _, ok := components[name]; name == "" || !ok {
			continue
		}

		end, spans := tagExpressions(source, i+1+len(name))
		for _, sp := range spans {
			if out == nil {
				out = bytes.Clone(source)
			}
			fill := byte('_')
			if sp.value {
				fill = '{'
			}
			for j := sp.start; j <= sp.end; j++ {
				if out[j] != '\n' && out[j] != '\r' {
					out[j] = fill
				}
			}
			if sp.value {
				out[sp.start], out[sp.end] = '"', '"'
			}
		}
		i = end
	}
	if out == nil {
		return source
	}
	return out
}

// tagName reads a JSX tag name such as "Card" or "Tabs.Tab".
func tagName(b []byte) string {
	n := 0
	for n < len(b) {
		c := b[n]
		if c == '.' || c == '_' || c == '-' || c == '$' ||
			'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || n > 0 && '0' <= c && c <= '9' {
			n++
			continue
		}
		break
	}
	return string(b[:n])
}

// tagExpressions scans an opening tag from pos and returns the offset of its
// closing ">" (len(src) when unclosed) and its expressions.
func tagExpressions(src []byte, pos int) (int, []exprSpan) {
	var (
		spans []exprSpan
		quote byte
	)
	for i := pos; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '{':
			end := closeBrace(src, i)
			if end < 0 {
				return len(src), spans
			}
			spans = append(spans, exprSpan{start: i, end: end, value: afterEquals(src, pos, i)})
			i = end
		case c == '>':
			return i, spans
		}
	}
	return len(src), spans
}

// closeBrace returns the offset of the brace closing the one at open, or -1.
// String and template literals are skipped.
func closeBrace(src []byte, open int) int {
	var (
		depth int
		quote byte
	)
	for i := open; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// afterEquals reports whether the only thing between "=" and at is blank.
func afterEquals(src []byte, from, at int) bool {
	for i := at - 1; i >= from; i-- {
		switch src[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case '=':
			return true
		}
		return false
	}
	return false
}

// rawTagName returns the tag name of a raw start tag, keeping its case.
func rawTagName(raw []byte) string {
	name := bytes.TrimPrefix(raw, []byte("<"))
	if i := bytes.IndexAny(name, " \t\r\n/>"); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

func hasAttribute(spec ComponentSpec, name string) bool {
	for _, a := range spec.Attributes {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

func segmentList(segments *text.Segments) []text.Segment {
	if segments == nil {
		return nil
	}
	out := make([]text.Segment, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		out = append(out, segments.At(i))
	}
	return out
}

// locate returns the source offset a node starts at, or -1. Inline nodes do
// not record positions, so links are found from their text, and autolinks by
// searching forward from cursor, the end of the preceding text.
func locate(n ast.Node, source []byte, cursor int) int {
	switch n := n.(type) {
	case *ast.Text:
		return n.Segment.Start

	case *ast.Link:
		return locateBracket(n, source, cursor)

	case *ast.Image:
		at := locateBracket(n, source, cursor)
		if at > 0 && source[at-1] == '!' {
			at--
		}
		return at

	case *ast.AutoLink:
		label := n.Label(source)
		if len(label) == 0 {
			return -1
		}
		i := bytes.Index(source[min(cursor, len(source)):], label)
		if i < 0 {
			return -1
		}
		at := cursor + i
		if at > 0 && source[at-1] == '<' {
			at--
		}
		return at

	case *ast.RawHTML:
		if n.Segments != nil && n.Segments.Len() > 0 {
			return n.Segments.At(0).Start
		}
		return -1
	}

	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start
	}
	return -1
}

// locateBracket finds the "[" opening the label of a link or image.
func locateBracket(n ast.Node, source []byte, cursor int) int {
	if start, images, ok := firstText(n, 0); ok {
		for i := start - 1; i >= cursor && i >= 0; i-- {
			if source[i] != '[' {
				continue
			}
			if images > 0 && i > 0 && source[i-1] == '!' {
				images--
				continue
			}
			return i
		}
		return start
	}
	if i := bytes.IndexByte(source[min(cursor, len(source)):], '['); i >= 0 {
		return cursor + i
	}
	return -1
}

// firstText finds the first text segment below n, counting the images it is
// nested in.
func firstText(n ast.Node, images int) (start, depth int, ok bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			return c.Segment.Start, images, true
		case *ast.Image:
			if s, d, ok := firstText(c, images+1); ok {
				return s, d, true
			}
		default:
			if s, d, ok := firstText(c, images); ok {
				return s, d, true
			}
		}
	}
	return 0, 0, false
}

// lineIndex converts byte offsets into 1-based line and column numbers.
// Columns count runes.
type lineIndex struct {
	source []byte
	starts []int
}

func newLineIndex(source []byte) lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{source: source, starts: starts}
}

func (l lineIndex) position(offset int) (line, column int) {
	offset = min(max(offset, 0), len(l.source))
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	return i + 1, utf8.RuneCount(l.source[l.starts[i]:offset]) + 1
}
