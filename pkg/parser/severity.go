package parser

import (
	"fmt"
	"strings"
)

// Severity is the classified level of a log entry.
type Severity int

const (
	// SeverityUnknown is assigned when the level token is not recognized.
	// It is a valid classification, not an error.
	SeverityUnknown Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityDebug
	SeverityTrace
	SeverityCritical
)

// severityKeywords maps upper-cased level tokens to their severity.
var severityKeywords = map[string]Severity{
	"INFO":     SeverityInfo,
	"WARNING":  SeverityWarning,
	"WARN":     SeverityWarning,
	"ERROR":    SeverityError,
	"ERR":      SeverityError,
	"DEBUG":    SeverityDebug,
	"DBG":      SeverityDebug,
	"TRACE":    SeverityTrace,
	"TRC":      SeverityTrace,
	"CRITICAL": SeverityCritical,
	"CRIT":     SeverityCritical,
	"FATAL":    SeverityCritical,
}

// Classify maps a raw level token to a Severity.
// Matching is case-insensitive and accepts common abbreviations
// (WARN, ERR, DBG, TRC, CRIT, FATAL). Unrecognized tokens, including the
// empty string, classify as SeverityUnknown.
func Classify(token string) Severity {
	if s, ok := severityKeywords[strings.ToUpper(strings.TrimSpace(token))]; ok {
		return s
	}
	return SeverityUnknown
}

// Severities returns every severity in declaration order.
func Severities() []Severity {
	return []Severity{
		SeverityUnknown,
		SeverityInfo,
		SeverityWarning,
		SeverityError,
		SeverityDebug,
		SeverityTrace,
		SeverityCritical,
	}
}

// Keywords returns the level tokens that classify as s, canonical name first.
// SeverityUnknown has no keywords.
func (s Severity) Keywords() []string {
	switch s {
	case SeverityInfo:
		return []string{"INFO"}
	case SeverityWarning:
		return []string{"WARNING", "WARN"}
	case SeverityError:
		return []string{"ERROR", "ERR"}
	case SeverityDebug:
		return []string{"DEBUG", "DBG"}
	case SeverityTrace:
		return []string{"TRACE", "TRC"}
	case SeverityCritical:
		return []string{"CRITICAL", "CRIT", "FATAL"}
	default:
		return nil
	}
}

// String returns the canonical upper-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityDebug:
		return "DEBUG"
	case SeverityTrace:
		return "TRACE"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the severity as its canonical name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes any keyword Classify accepts, or "unknown".
// Unlike Classify it rejects unrecognized text, so configuration typos
// surface as errors instead of silently matching nothing.
func (s *Severity) UnmarshalText(text []byte) error {
	token := strings.TrimSpace(string(text))
	if strings.EqualFold(token, "unknown") {
		*s = SeverityUnknown
		return nil
	}

	parsed := Classify(token)
	if parsed == SeverityUnknown {
		return fmt.Errorf("unrecognized severity %q", token)
	}
	*s = parsed
	return nil
}
