package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/logsift/pkg/collector"
	"github.com/ccollicutt/logsift/pkg/parser"
)

// levelWidth pads level tags to the longest severity name (CRITICAL).
const levelWidth = 8

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	p := newPalette(w, f.opts.NoColor)

	if !f.opts.Quiet {
		for i := range report.Entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.formatEntry(&report.Entries[i], p, w)
		}

		if f.opts.Verbose && len(report.Failures) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, p.paint(p.heading, "Malformed lines:"))
			for _, failure := range report.Failures {
				f.formatFailure(failure, p, w)
			}
		}

		fmt.Fprintln(w, "---")
	}

	return f.formatSummary(report, p, w)
}

func (f *TextFormatter) formatEntry(e *collector.Entry, p palette, w io.Writer) {
	var b strings.Builder
	b.WriteString(e.Timestamp)
	b.WriteByte(' ')
	b.WriteString(p.level(e.Level))
	b.WriteByte(' ')
	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(p.paint(p.faint, k+"="+e.Fields[k]))
		}
	}

	if f.opts.Verbose {
		b.WriteByte(' ')
		b.WriteString(p.paint(p.source, fmt.Sprintf("(%s:%d)", e.Source, e.LineNum)))
	}

	fmt.Fprintln(w, b.String())
}

func (f *TextFormatter) formatFailure(failure collector.Failure, p palette, w io.Writer) {
	fmt.Fprintf(w, "  %s %s: %q\n",
		p.paint(p.source, fmt.Sprintf("%s:%d:", failure.Source, failure.LineNum)),
		failure.Reason,
		failure.Raw)
}

func (f *TextFormatter) formatSummary(report *Report, p palette, w io.Writer) error {
	s := report.Summary
	line := fmt.Sprintf("logsift: %d lines, %d entries, %d malformed, %d filtered",
		s.LinesProcessed, s.Entries, s.Failures, s.Filtered)
	if s.Failures > 0 {
		line = p.paint(p.failure, line)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	if s.Truncated {
		fmt.Fprintln(w, "Stopped early: failure limit reached")
	}

	if f.opts.Quiet {
		return nil
	}

	if counts := report.levelCounts(); len(counts) > 0 {
		parts := make([]string, len(counts))
		for i, c := range counts {
			parts[i] = fmt.Sprintf("%s=%d", c.Level, c.Count)
		}
		fmt.Fprintf(w, "Levels: %s\n", strings.Join(parts, " "))
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Sources: %s\n", strings.Join(report.Metadata.Sources, ", "))
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

// palette holds the styles for one Format call. Colors are resolved
// against the destination writer, so non-terminal output stays plain.
type palette struct {
	enabled bool
	levels  map[parser.Severity]lipgloss.Style
	faint   lipgloss.Style
	source  lipgloss.Style
	heading lipgloss.Style
	failure lipgloss.Style
}

func newPalette(w io.Writer, noColor bool) palette {
	if noColor {
		return palette{}
	}

	r := lipgloss.NewRenderer(w)
	return palette{
		enabled: true,
		levels: map[parser.Severity]lipgloss.Style{
			parser.SeverityTrace:   r.NewStyle().Foreground(lipgloss.Color("245")).Faint(true),
			parser.SeverityDebug:   r.NewStyle().Foreground(lipgloss.Color("245")),
			parser.SeverityInfo:    r.NewStyle().Foreground(lipgloss.Color("39")),
			parser.SeverityWarning: r.NewStyle().Foreground(lipgloss.Color("220")),
			parser.SeverityError:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			parser.SeverityCritical: r.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("196")).
				Bold(true),
			parser.SeverityUnknown: r.NewStyle().Foreground(lipgloss.Color("141")),
		},
		faint:   r.NewStyle().Faint(true),
		source:  r.NewStyle().Foreground(lipgloss.Color("39")).Faint(true),
		heading: r.NewStyle().Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("208")),
	}
}

func (p palette) paint(style lipgloss.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Render(s)
}

func (p palette) level(s parser.Severity) string {
	return p.paint(p.levels[s], fmt.Sprintf("%-*s", levelWidth, s.String()))
}
