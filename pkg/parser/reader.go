package parser

import (
	"bufio"
	"bytes"
	"io"
)

// rawPrefixBytes is how much of an over-long line is kept in Record.Raw.
const rawPrefixBytes = 256

// lineReader splits a stream into lines like bufio.ScanLines, but an
// over-long line is consumed up to its newline and flagged instead of
// ending the stream.
type lineReader struct {
	r   *bufio.Reader
	max int
}

func newLineReader(r io.Reader, maxLineBytes int) *lineReader {
	size := 64 * 1024
	if maxLineBytes < size {
		size = maxLineBytes
	}
	return &lineReader{r: bufio.NewReaderSize(r, size), max: maxLineBytes}
}

// next returns the next line without its line ending. When the line is
// longer than the limit, only a prefix is returned and tooLong is set.
// Returns io.EOF once the stream is exhausted.
func (lr *lineReader) next() (line string, tooLong bool, err error) {
	var buf []byte
	read := false

	for {
		chunk, err := lr.r.ReadSlice('\n')
		read = read || len(chunk) > 0

		if !tooLong {
			buf = append(buf, chunk...)
			if len(trimLineEnding(buf)) > lr.max {
				tooLong = true
				buf = buf[:min(len(buf), rawPrefixBytes)]
			}
		}

		switch err {
		case nil:
			return string(trimLineEnding(buf)), tooLong, nil
		case bufio.ErrBufferFull:
			continue
		case io.EOF:
			if !read {
				return "", false, io.EOF
			}
			return string(trimLineEnding(buf)), tooLong, nil
		default:
			return "", false, err
		}
	}
}

func trimLineEnding(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte{'\n'})
	return bytes.TrimSuffix(b, []byte{'\r'})
}

func tooLongRecord(prefix, source string, lineNum int) *Record {
	return &Record{
		Raw:     prefix + "...",
		Source:  source,
		LineNum: lineNum,
		Err:     newParseError(ReasonLineTooLong),
	}
}
