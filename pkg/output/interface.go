package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders parse results in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, jsonl).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds source locations and lists malformed lines.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// NoColor disables terminal colors in text output.
	NoColor bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "jsonl":
		return NewJSONLinesFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json, or jsonl)", name)
	}
}
