package collector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// mockSource is a test LineSource that parses predefined lines.
type mockSource struct {
	source string
	lines  []string
	index  int
	err    error // returned after lines are exhausted, instead of io.EOF
}

func (m *mockSource) Next(ctx context.Context) (*parser.Record, error) {
	if m.index >= len(m.lines) {
		if m.err != nil {
			return nil, m.err
		}
		return nil, io.EOF
	}
	line := m.lines[m.index]
	m.index++

	entry, err := parser.ParseLine(line)
	return &parser.Record{
		Raw:     line,
		Source:  m.source,
		LineNum: m.index,
		Entry:   entry,
		Err:     err,
	}, nil
}

func (m *mockSource) Close() error {
	return nil
}

func newSource(lines ...string) *mockSource {
	return &mockSource{source: "test.log", lines: lines}
}

func TestCollect(t *testing.T) {
	source := newSource(
		"2025-05-04T15:30:00Z [INFO] User logged in",
		"2025-05-04T15:30:01Z [WARN] Slow query",
		"not a log line",
		"",
		"2025-05-04T15:30:02Z [ERR] Connection reset",
		"2025-05-04T15:30:03Z [NOTICE] Odd level",
	)

	result, err := New().Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if result.Metadata.LinesProcessed != 6 {
		t.Errorf("LinesProcessed = %d, want 6", result.Metadata.LinesProcessed)
	}
	if len(result.Entries) != 4 {
		t.Errorf("Entries = %d, want 4", len(result.Entries))
	}
	if len(result.Failures) != 2 {
		t.Fatalf("Failures = %d, want 2", len(result.Failures))
	}
	if result.Parsed() != 4 {
		t.Errorf("Parsed() = %d, want 4", result.Parsed())
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}

	f := result.Failures[0]
	if f.LineNum != 3 || f.Raw != "not a log line" || f.Source != "test.log" {
		t.Errorf("Failures[0] = %+v", f)
	}
	if f.Reason != parser.ReasonMissingOpen {
		t.Errorf("Failures[0].Reason = %q, want %q", f.Reason, parser.ReasonMissingOpen)
	}
	if result.Failures[1].Reason != parser.ReasonEmptyLine {
		t.Errorf("Failures[1].Reason = %q, want %q", result.Failures[1].Reason, parser.ReasonEmptyLine)
	}

	wantCounts := map[parser.Severity]int{
		parser.SeverityInfo:    1,
		parser.SeverityWarning: 1,
		parser.SeverityError:   1,
		parser.SeverityUnknown: 1,
	}
	for sev, n := range wantCounts {
		if result.Counts[sev] != n {
			t.Errorf("Counts[%v] = %d, want %d", sev, result.Counts[sev], n)
		}
	}

	e := result.Entries[2]
	if e.LineNum != 5 || e.Level != parser.SeverityError || e.Message != "Connection reset" {
		t.Errorf("Entries[2] = %+v", e)
	}
	if len(result.Metadata.Sources) != 1 || result.Metadata.Sources[0] != "test.log" {
		t.Errorf("Sources = %v", result.Metadata.Sources)
	}
}

func TestCollect_LevelFilter(t *testing.T) {
	source := newSource(
		"t1 [INFO] a",
		"t2 [ERROR] b",
		"t3 [FATAL] c",
		"t4 [DEBUG] d",
	)

	c := New(WithLevelFilter([]parser.Severity{parser.SeverityError, parser.SeverityCritical}))
	result, err := c.Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(result.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(result.Entries))
	}
	if result.Entries[0].Message != "b" || result.Entries[1].Message != "c" {
		t.Errorf("Entries = %+v", result.Entries)
	}
	if result.Filtered != 2 {
		t.Errorf("Filtered = %d, want 2", result.Filtered)
	}
	// Counts are taken before filtering
	if result.Counts[parser.SeverityInfo] != 1 {
		t.Errorf("Counts[INFO] = %d, want 1", result.Counts[parser.SeverityInfo])
	}
}

func TestCollect_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	source := newSource("t1 [INFO] ok", "[INFO] ts message")
	if _, err := New(WithLogger(logger)).Collect(context.Background(), source); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"skipping malformed line", "line=2", "source=test.log", `raw="[INFO] ts message"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestCollect_MaxFailures(t *testing.T) {
	source := newSource("bad one", "t [INFO] good", "bad two", "bad three", "t [INFO] never read")

	result, err := New(WithMaxFailures(2)).Collect(context.Background(), source)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if !result.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(result.Failures) != 2 {
		t.Errorf("Failures = %d, want 2", len(result.Failures))
	}
	if result.Metadata.LinesProcessed != 3 {
		t.Errorf("LinesProcessed = %d, want 3", result.Metadata.LinesProcessed)
	}
}

func TestCollect_SourceError(t *testing.T) {
	readErr := errors.New("disk on fire")
	source := newSource("t [INFO] fine")
	source.err = readErr

	_, err := New().Collect(context.Background(), source)
	if !errors.Is(err, readErr) {
		t.Errorf("Collect() error = %v, want wrapped %v", err, readErr)
	}
}

func TestCollect_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Collect(ctx, newSource("t [INFO] x"))
	if err != context.Canceled {
		t.Errorf("Collect() error = %v, want context.Canceled", err)
	}
}

func TestCollect_Empty(t *testing.T) {
	result, err := New().Collect(context.Background(), newSource())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if result.Metadata.LinesProcessed != 0 || len(result.Entries) != 0 || result.HasFailures() {
		t.Errorf("result = %+v, want empty", result)
	}
	if result.Metadata.EndTime.Before(result.Metadata.StartTime) {
		t.Error("EndTime before StartTime")
	}
}
