// Package report renders validation reports and URL spaces for people and
// machines.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/abdul-hamid-achik/validlink/pkg/scanner"
	"github.com/abdul-hamid-achik/validlink/pkg/validate"
)

// Summary counts the outcome of a validation run.
type Summary struct {
	Files        int `json:"files"`
	ErroredFiles int `json:"errored_files"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
}

// Summarize counts r.
func Summarize(r *validate.Report) Summary {
	return Summary{
		Files:        r.Files,
		ErroredFiles: len(r.Results),
		Errors:       r.ErrorCount(),
		Warnings:     len(r.Warnings),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("%d errored file, %d errors", s.ErroredFiles, s.Errors)
}

// Output is the JSON shape of a validation run.
type Output struct {
	Summary  Summary            `json:"summary"`
	Results  []validate.Result  `json:"results"`
	Warnings []validate.Warning `json:"warnings,omitempty"`
}

// NewOutput builds the JSON shape of r.
func NewOutput(r *validate.Report) Output {
	results := r.Results
	if results == nil {
		results = []validate.Result{}
	}
	return Output{Summary: Summarize(r), Results: results, Warnings: r.Warnings}
}

// ScanOutput is the JSON shape of a scanned URL space.
type ScanOutput struct {
	Cwd           string            `json:"cwd"`
	Preset        string            `json:"preset"`
	URLSpace      *scanner.URLSpace `json:"url_space"`
	URLCount      int               `json:"url_count"`
	FallbackCount int               `json:"fallback_count"`
}

// NewScanOutput builds the JSON shape of the URL space of the project at cwd.
func NewScanOutput(cwd, preset string, space *scanner.URLSpace) ScanOutput {
	return ScanOutput{
		Cwd:           cwd,
		Preset:        preset,
		URLSpace:      space,
		URLCount:      space.Len(),
		FallbackCount: len(space.Fallbacks),
	}
}

// ExitCode is 1 when any link is invalid.
func ExitCode(r *validate.Report) int {
	if r.HasErrors() {
		return 1
	}
	return 0
}

// Printer writes human-readable reports.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter writes to out, with colors when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, color: !color.NoColor && isTerminal(out)}
}

// WithColor forces colors on or off.
func (p *Printer) WithColor(enabled bool) *Printer {
	return &Printer{out: p.out, color: enabled}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) style(attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

// Print writes the invalid links of every errored file followed by a
// summary line.
func (p *Printer) Print(r *validate.Report) {
	heading := p.style(color.FgHiRed, color.Bold)
	bold := p.style(color.Bold)
	dim := p.style(color.Faint)

	var b strings.Builder
	for _, res := range r.Results {
		fmt.Fprintln(&b, heading(fmt.Sprintf("Invalid URLs in %s:", res.File)))
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "%s: %s at line %d column %d\n", bold(e.URL), e.Message(), e.Line, e.Column)
		}
		fmt.Fprintln(&b, dim("------"))
	}

	summary := Summarize(r)
	if summary.Errors > 0 {
		fmt.Fprintln(&b, heading(summary.String()))
	} else {
		fmt.Fprintln(&b, p.style(color.FgHiGreen, color.Bold)(summary.String()))
	}

	_, _ = io.WriteString(p.out, b.String())
}

// PrintURLSpace lists the concrete URLs of a space, then its fallback
// patterns.
func (p *Printer) PrintURLSpace(space *scanner.URLSpace) {
	cyan := p.style(color.FgCyan)
	yellow := p.style(color.FgYellow)
	dim := p.style(color.Faint)

	var b strings.Builder
	for _, u := range space.URLs() {
		meta, _ := space.Get(u)
		fmt.Fprintf(&b, "  %s%s\n", cyan(u), dim(describeMeta(meta)))
	}
	for _, f := range space.Fallbacks {
		fmt.Fprintf(&b, "  %s%s\n", yellow(f.Pattern.String()), dim(describeMeta(f.Meta)))
	}
	fmt.Fprintf(&b, "\n  %d URLs, %d fallback patterns\n", space.Len(), len(space.Fallbacks))

	_, _ = io.WriteString(p.out, b.String())
}

func describeMeta(meta scanner.URLMeta) string {
	var parts []string
	if len(meta.Hashes) > 0 {
		parts = append(parts, "#"+strings.Join(meta.Hashes, " #"))
	}
	for _, q := range meta.Queries {
		parts = append(parts, "?"+q.Encode())
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}
