// Package collector drains a line source into parsed entries and
// per-line failures, applying the caller's level filter.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// Collector gathers parse results from a LineSource.
type Collector struct {
	levels      map[parser.Severity]bool // nil means all levels
	logger      *slog.Logger
	maxFailures int
}

// Option configures collector behavior.
type Option func(*Collector)

// WithLevelFilter keeps only entries with one of the given severities.
// An empty list keeps everything.
func WithLevelFilter(levels []parser.Severity) Option {
	return func(c *Collector) {
		if len(levels) > 0 {
			c.levels = make(map[parser.Severity]bool, len(levels))
			for _, l := range levels {
				c.levels[l] = true
			}
		}
	}
}

// WithLogger sets the logger used to report malformed lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxFailures stops collection once n malformed lines have been seen.
// Zero means no limit.
func WithMaxFailures(n int) Option {
	return func(c *Collector) {
		if n >= 0 {
			c.maxFailures = n
		}
	}
}

// New creates a Collector.
func New(opts ...Option) *Collector {
	c := &Collector{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect reads every record from source. Malformed lines are logged,
// recorded as failures, and skipped; they never stop the run unless the
// failure limit is reached. Read errors from the source are returned.
func (c *Collector) Collect(ctx context.Context, source parser.LineSource) (*Result, error) {
	result := &Result{
		Counts: make(map[parser.Severity]int),
		Metadata: Metadata{
			StartTime: time.Now(),
		},
	}

	sourcesSeen := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}

		if !sourcesSeen[rec.Source] {
			sourcesSeen[rec.Source] = true
			result.Metadata.Sources = append(result.Metadata.Sources, rec.Source)
		}

		result.Metadata.LinesProcessed++

		if !rec.Valid() {
			failure := newFailure(rec)
			result.Failures = append(result.Failures, failure)
			c.logger.Warn("skipping malformed line",
				"source", failure.Source,
				"line", failure.LineNum,
				"reason", failure.Reason,
				"raw", failure.Raw)

			if c.maxFailures > 0 && len(result.Failures) >= c.maxFailures {
				result.Truncated = true
				c.logger.Error("failure limit reached, stopping",
					"limit", c.maxFailures,
					"source", failure.Source,
					"line", failure.LineNum)
				break
			}
			continue
		}

		result.Counts[rec.Entry.Level]++

		if c.levels != nil && !c.levels[rec.Entry.Level] {
			result.Filtered++
			continue
		}

		result.Entries = append(result.Entries, Entry{
			Source:   rec.Source,
			LineNum:  rec.LineNum,
			LogEntry: *rec.Entry,
		})
	}

	result.Metadata.EndTime = time.Now()
	c.logger.Debug("collection finished",
		"lines", result.Metadata.LinesProcessed,
		"entries", len(result.Entries),
		"failures", len(result.Failures),
		"filtered", result.Filtered)

	return result, nil
}

func newFailure(rec *parser.Record) Failure {
	reason := "unparsed line"
	var perr *parser.ParseError
	switch {
	case errors.As(rec.Err, &perr):
		reason = perr.Reason
	case rec.Err != nil:
		reason = rec.Err.Error()
	}

	return Failure{
		Source:  rec.Source,
		LineNum: rec.LineNum,
		Raw:     rec.Raw,
		Reason:  reason,
	}
}
