package collector

import (
	"time"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// Entry is a parsed log entry together with where it was read from.
type Entry struct {
	Source  string `json:"source"`
	LineNum int    `json:"line"`
	parser.LogEntry
}

// Failure records a line that could not be parsed.
type Failure struct {
	Source  string `json:"source"`
	LineNum int    `json:"line"`
	Raw     string `json:"raw"`
	Reason  string `json:"reason"`
}

// Result is the outcome of collecting a source.
type Result struct {
	// Entries are the parsed lines that passed the level filter, in read order.
	Entries []Entry

	// Failures are the malformed lines, in read order.
	Failures []Failure

	// Counts is the number of parsed lines per severity, before filtering.
	Counts map[parser.Severity]int

	// Filtered is the number of parsed lines dropped by the level filter.
	Filtered int

	// Truncated is set when collection stopped at the failure limit.
	Truncated bool

	Metadata Metadata
}

// Metadata provides context about the collection run.
type Metadata struct {
	// Sources lists the files or streams read, in first-seen order.
	Sources []string

	StartTime time.Time
	EndTime   time.Time

	// LinesProcessed counts every line read, valid or not.
	LinesProcessed int
}

// Parsed returns the number of lines that parsed successfully.
func (r *Result) Parsed() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// HasFailures reports whether any line failed to parse.
func (r *Result) HasFailures() bool {
	return len(r.Failures) > 0
}
