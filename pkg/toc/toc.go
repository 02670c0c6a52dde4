// Package toc extracts the headings of Markdown documents along with the
// fragment ids a site generator assigns them.
package toc

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is a document heading.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// URL returns the fragment link of the heading.
func (h Heading) URL() string {
	return "#" + h.ID
}

// fallbackID is used for headings whose text slugifies to nothing.
const fallbackID = "heading"

// slugger assigns GitHub style ids to headings. Repeated ids get a numeric
// suffix: "intro", "intro-1", "intro-2".
type slugger struct {
	used map[string]bool
}

func newSlugger() *slugger {
	return &slugger{used: make(map[string]bool)}
}

func (s *slugger) generate(value string) string {
	base := githubSlug(value)
	if base == "" {
		base = fallbackID
	}

	id := base
	for i := 1; s.used[id]; i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	s.used[id] = true
	return id
}

// reserve marks an explicit id ({#custom} attribute) as taken.
func (s *slugger) reserve(id string) {
	s.used[id] = true
}

// githubSlug lowercases value, keeps letters, numbers, "-" and "_", turns
// every space into "-" and drops everything else. Runs of hyphens are kept
// as is: "Step 1 -- Setup" is "step-1----setup".
func githubSlug(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_',
			unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAttribute()),
)

// Headings returns the headings of a Markdown document in document order.
// Explicit ids are reserved before any id is generated.
func Headings(source []byte) []Heading {
	doc := md.Parser().Parse(text.NewReader(source))

	var (
		out   []Heading
		nodes []*ast.Heading
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		nodes = append(nodes, h)
		out = append(out, Heading{Level: h.Level, Text: plainText(h, source)})
		return ast.WalkSkipChildren, nil
	})

	ids := newSlugger()
	for i, h := range nodes {
		if id, ok := explicitID(h); ok {
			out[i].ID = id
			ids.reserve(id)
		}
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = ids.generate(out[i].Text)
		}
	}
	return out
}

func explicitID(h *ast.Heading) (string, bool) {
	v, ok := h.AttributeString("id")
	if !ok {
		return "", false
	}
	b, ok := v.([]byte)
	if !ok || len(b) == 0 {
		return "", false
	}
	return string(b), true
}

// Anchors returns the fragment ids of the headings of a document.
func Anchors(source []byte) []string {
	headings := Headings(source)
	ids := make([]string, 0, len(headings))
	for _, h := range headings {
		if h.ID != "" {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.CodeSpan:
			for t := c.FirstChild(); t != nil; t = t.NextSibling() {
				if s, ok := t.(*ast.Text); ok {
					buf.Write(s.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(buf.Bytes()))
}
