package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// LineParser turns one input line into a record.
type LineParser[T any] func(line string) (T, error)

// Handler receives parse results. Record is called for every parsed line and
// Skip for every line that did not contribute, with a *LineError or
// *ReadError describing why.
type Handler[T any] struct {
	Record func(line int, rec T)
	Skip   func(err error)
}

// ParseFile opens path (or stdin for "-") and feeds each line through parse.
// Only a failure to open is returned; per-line problems go to h.Skip.
func ParseFile[T any](path string, parse LineParser[T], h Handler[T]) error {
	r, err := Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	ParseReader(path, r, parse, h)
	return nil
}

// ParseReader feeds each line of r through parse. Lines longer than
// maxLineBytes are skipped with ErrLineTooLong. A read error stops the scan
// and is passed to h.Skip; records already delivered stand.
func ParseReader[T any](name string, r io.Reader, parse LineParser[T], h Handler[T]) {
	br := bufio.NewReaderSize(r, 64*1024)
	n := 0
	for {
		text, tooLong, err := readLine(br)
		if err != nil && err != io.EOF {
			if h.Skip != nil {
				h.Skip(&ReadError{Path: name, Line: n, Err: err})
			}
			return
		}
		if err == io.EOF && text == "" && !tooLong {
			return
		}
		n++
		switch rec, perr := parseLine(text, tooLong, parse); {
		case perr != nil:
			if h.Skip != nil {
				h.Skip(&LineError{Line: n, Text: text, Err: perr})
			}
		case h.Record != nil:
			h.Record(n, rec)
		}
		if err == io.EOF {
			return
		}
	}
}

func parseLine[T any](text string, tooLong bool, parse LineParser[T]) (T, error) {
	if tooLong {
		var zero T
		return zero, ErrLineTooLong
	}
	return parse(text)
}

// readLine returns the next line without its terminator. An over-long line is
// consumed up to its newline and reported as tooLong with empty text.
func readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		frag, err := br.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(frag) > maxLineBytes+1 {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		line := strings.TrimSuffix(strings.TrimSuffix(string(buf), "\n"), "\r")
		return line, tooLong, err
	}
}

// Open returns a reader for path, or stdin when path is "-".
func Open(path string) (io.ReadCloser, error) {
	if path == StdinPath {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return f, nil
}
