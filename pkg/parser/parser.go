package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// DefaultMaxLineBytes is the longest line a source will read.
const DefaultMaxLineBytes = 1024 * 1024

// SourceOption configures a FileSource or ReaderSource.
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	maxLineBytes int
	logger       *slog.Logger
}

// WithMaxLineBytes sets the maximum line length. Longer lines are skipped
// and returned as failed records.
func WithMaxLineBytes(n int) SourceOption {
	return func(o *sourceOptions) {
		if n > 0 {
			o.maxLineBytes = n
		}
	}
}

// WithSourceLogger sets the logger used for file open/close events.
func WithSourceLogger(l *slog.Logger) SourceOption {
	return func(o *sourceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildSourceOptions(opts []SourceOption) sourceOptions {
	o := sourceOptions{
		maxLineBytes: DefaultMaxLineBytes,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func parseRecord(line, source string, lineNum int) *Record {
	rec := &Record{
		Raw:     line,
		Source:  source,
		LineNum: lineNum,
	}
	rec.Entry, rec.Err = ParseLine(line)
	return rec
}

// FileSource implements LineSource for reading from log files in order.
type FileSource struct {
	files []string
	opts  sourceOptions

	currentFile   *os.File
	currentReader *lineReader
	currentSource string
	currentLine   int
	fileIndex      int
}

// NewFileSource creates a LineSource that reads the given files one after another.
func NewFileSource(files []string, opts ...SourceOption) *FileSource {
	return &FileSource{
		files:     files,
		opts:      buildSourceOptions(opts),
		fileIndex: -1,
	}
}

// Next returns the next line of the current file, parsed.
// Returns io.EOF when all files have been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Record, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.currentReader == nil {
			if err := s.openNextFile(); err != nil {
				return nil, err
			}
		}

		line, tooLong, err := s.currentReader.next()
		if err == nil {
			s.currentLine++
			if tooLong {
				s.opts.logger.Debug("line exceeds limit", "source", s.currentSource,
					"line", s.currentLine, "limit", s.opts.maxLineBytes)
				return tooLongRecord(line, s.currentSource, s.currentLine), nil
			}
			return parseRecord(line, s.currentSource, s.currentLine), nil
		}
		if err != io.EOF {
			return nil, fmt.Errorf("reading %s line %d: %w", s.currentSource, s.currentLine+1, err)
		}

		// Current file exhausted, try next
		if err := s.closeCurrentFile(); err != nil {
			return nil, err
		}
	}
}

// Close releases resources.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}

	s.currentFile = f
	s.currentReader = newLineReader(f, s.opts.maxLineBytes)
	s.currentSource = path
	s.currentLine = 0
	s.opts.logger.Debug("opened log file", "source", path)

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.opts.logger.Debug("closed log file", "source", s.currentSource, "lines", s.currentLine)
		s.currentFile = nil
		s.currentReader = nil
		return err
	}
	return nil
}

// ReaderSource implements LineSource over an arbitrary stream such as stdin.
// The caller owns the reader; Close does not close it.
type ReaderSource struct {
	name   string
	reader *lineReader
	line   int
	done   bool
}

// NewReaderSource creates a LineSource reading lines from r.
// name identifies the stream in records, e.g. "<stdin>".
func NewReaderSource(name string, r io.Reader, opts ...SourceOption) *ReaderSource {
	o := buildSourceOptions(opts)
	return &ReaderSource{
		name:   name,
		reader: newLineReader(r, o.maxLineBytes),
	}
}

// Next returns the next line of the stream, parsed.
func (s *ReaderSource) Next(ctx context.Context) (*Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	line, tooLong, err := s.reader.next()
	if err == nil {
		s.line++
		if tooLong {
			return tooLongRecord(line, s.name, s.line), nil
		}
		return parseRecord(line, s.name, s.line), nil
	}

	s.done = true
	if err != io.EOF {
		return nil, fmt.Errorf("reading %s line %d: %w", s.name, s.line+1, err)
	}
	return nil, io.EOF
}

// Close is a no-op; the reader belongs to the caller.
func (s *ReaderSource) Close() error {
	return nil
}
