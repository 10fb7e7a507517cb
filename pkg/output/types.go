// Package output provides formatting and output generation for parse results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/logsift/pkg/collector"
	"github.com/ccollicutt/logsift/pkg/parser"
)

// Report is the complete parse output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Entries are the parsed entries that passed the level filter.
	Entries []collector.Entry `json:"entries"`

	// Failures are the lines that could not be parsed.
	Failures []collector.Failure `json:"failures"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesProcessed counts every line read.
	LinesProcessed int `json:"lines_processed"`

	// Entries is the number of entries reported.
	Entries int `json:"entries"`

	// Failures is the number of malformed lines.
	Failures int `json:"failures"`

	// Filtered is the number of parsed entries hidden by the level filter.
	Filtered int `json:"filtered"`

	// Truncated is set when the run stopped at the failure limit.
	Truncated bool `json:"truncated,omitempty"`

	// Levels counts parsed entries by severity name, before filtering.
	Levels map[string]int `json:"levels"`
}

// Metadata provides context about the run.
type Metadata struct {
	// RunID uniquely identifies this run, e.g. for webhook deduplication.
	RunID string `json:"run_id"`

	// ConfigFile is the path to the configuration file used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the files or streams that were read.
	Sources []string `json:"sources"`

	// ParsedAt is when the run finished.
	ParsedAt time.Time `json:"parsed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from a collection result.
func NewReport(result *collector.Result, configFile string) *Report {
	levels := make(map[string]int, len(result.Counts))
	for sev, n := range result.Counts {
		if n > 0 {
			levels[sev.String()] = n
		}
	}

	entries := result.Entries
	if entries == nil {
		entries = []collector.Entry{}
	}
	failures := result.Failures
	if failures == nil {
		failures = []collector.Failure{}
	}

	return &Report{
		Entries:  entries,
		Failures: failures,
		Summary: Summary{
			LinesProcessed: result.Metadata.LinesProcessed,
			Entries:        len(result.Entries),
			Failures:       len(result.Failures),
			Filtered:       result.Filtered,
			Truncated:      result.Truncated,
			Levels:         levels,
		},
		Metadata: Metadata{
			RunID:      uuid.NewString(),
			ConfigFile: configFile,
			Sources:    result.Metadata.Sources,
			ParsedAt:   result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
	}
}

// HasFailures returns true if any line could not be parsed.
func (r *Report) HasFailures() bool {
	return r.Summary.Failures > 0
}

// levelCounts returns the non-zero level counts in severity declaration order.
func (r *Report) levelCounts() []levelCount {
	var counts []levelCount
	for _, sev := range parser.Severities() {
		if n := r.Summary.Levels[sev.String()]; n > 0 {
			counts = append(counts, levelCount{Level: sev, Count: n})
		}
	}
	return counts
}

type levelCount struct {
	Level parser.Severity
	Count int
}
