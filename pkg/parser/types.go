// Package parser turns raw log lines of the form
// "<timestamp> [<level>] <message>" into structured entries, and provides
// the line sources that feed it from files and streams.
package parser

import (
	"fmt"
	"sort"
	"strings"
)

// LogEntry is a successfully parsed log line.
type LogEntry struct {
	// Timestamp is the text preceding the first space, stored verbatim.
	// It is not validated or converted to a time value.
	Timestamp string `json:"timestamp"`

	// Level is the classified severity from the bracketed level marker.
	Level Severity `json:"level"`

	// Message is the text after the level marker, trimmed. Never empty.
	Message string `json:"message"`

	// Fields holds structured key/value data. ParseLine always leaves it empty.
	Fields map[string]string `json:"fields"`
}

// String renders the entry for debugging, with fields in key order.
func (e *LogEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", e.Timestamp, e.Level, e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, e.Fields[k])
	}
	return b.String()
}

// Record is one line read from a LineSource together with its parse result.
// Exactly one of Entry and Err is set.
type Record struct {
	// Raw is the original line content.
	Raw string

	// Source is the file path (or stream name) this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int

	// Entry is the parsed entry, nil if the line was malformed.
	Entry *LogEntry

	// Err describes why the line could not be parsed.
	Err error
}

// Valid reports whether the record parsed into an entry.
func (r *Record) Valid() bool {
	return r.Err == nil && r.Entry != nil
}
