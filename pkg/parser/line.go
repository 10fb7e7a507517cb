package parser

import "strings"

// ParseLine parses a single "<timestamp> [<level>] <message>" line.
//
// The timestamp is everything before the first space, so the level marker
// must open after it: the first space, the first '[' and the first ']' must
// all be present and appear in that order. Surrounding whitespace on the
// line, the level token and the message is ignored. A line with an empty
// message is rejected.
//
// On failure the returned error is a *ParseError matching ErrInvalidFormat
// and no entry is returned. ParseLine holds no state and is safe for
// concurrent use.
func ParseLine(line string) (*LogEntry, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, newParseError(ReasonEmptyLine)
	}

	space := strings.IndexByte(trimmed, ' ')
	open := strings.IndexByte(trimmed, '[')
	closing := strings.IndexByte(trimmed, ']')

	switch {
	case space < 0:
		return nil, newParseError(ReasonMissingSpace)
	case open < 0:
		return nil, newParseError(ReasonMissingOpen)
	case closing < 0:
		return nil, newParseError(ReasonMissingClose)
	case open < space:
		return nil, newParseError(ReasonLevelBeforeTS)
	case closing < open:
		return nil, newParseError(ReasonCloseBeforeOpen)
	}

	message := strings.TrimSpace(trimmed[closing+1:])
	if message == "" {
		return nil, newParseError(ReasonEmptyMessage)
	}

	return &LogEntry{
		Timestamp: trimmed[:space],
		Level:     Classify(trimmed[open+1 : closing]),
		Message:   message,
		Fields:    map[string]string{},
	}, nil
}
