package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as a single JSON document.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		// Quiet mode: just summary
		return encoder.Encode(report.Summary)
	}

	return encoder.Encode(report)
}

// JSONLinesFormatter writes one JSON object per entry, for piping into
// line-oriented tools. Failures are written only in verbose mode, tagged
// with "error": true.
type JSONLinesFormatter struct {
	opts FormatOptions
}

// NewJSONLinesFormatter creates a new JSON Lines formatter.
func NewJSONLinesFormatter(opts FormatOptions) *JSONLinesFormatter {
	return &JSONLinesFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONLinesFormatter) Name() string {
	return "jsonl"
}

type failureLine struct {
	Error   bool   `json:"error"`
	Source  string `json:"source"`
	LineNum int    `json:"line"`
	Raw     string `json:"raw"`
	Reason  string `json:"reason"`
}

// Format renders entries as JSON Lines.
func (f *JSONLinesFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)

	if f.opts.Quiet {
		return encoder.Encode(report.Summary)
	}

	for i := range report.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := encoder.Encode(&report.Entries[i]); err != nil {
			return err
		}
	}

	if f.opts.Verbose {
		for _, failure := range report.Failures {
			line := failureLine{
				Error:   true,
				Source:  failure.Source,
				LineNum: failure.LineNum,
				Raw:     failure.Raw,
				Reason:  failure.Reason,
			}
			if err := encoder.Encode(line); err != nil {
				return err
			}
		}
	}

	return nil
}
