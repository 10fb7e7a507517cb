package parser

import "context"

// LineSource yields one Record per input line, in read order.
// Implementations are not safe for concurrent use.
type LineSource interface {
	// Next returns the next record, valid or not. Malformed lines come back
	// with Record.Err set rather than being skipped. Returns io.EOF when
	// the input is exhausted.
	Next(ctx context.Context) (*Record, error)

	// Close releases any resources held by the source.
	Close() error
}
