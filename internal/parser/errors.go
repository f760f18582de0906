package parser

import (
	"errors"
	"fmt"
)

// ErrEmptyRecord indicates a report line yielded no levels.
var ErrEmptyRecord = errors.New("no levels found on line")

// ErrNoPair indicates a location line did not hold exactly two IDs.
var ErrNoPair = errors.New("each line must contain two numbers separated by space(s)")

// ErrLineTooLong indicates a line exceeded the reader's line limit.
var ErrLineTooLong = errors.New("line too long")

// OpenError is fatal: the input could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("error while opening file %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ReadError reports a failure reading the input after it was opened.
type ReadError struct {
	Path string
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error while reading file %s after line %d: %v", e.Path, e.Line, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// LineError reports a line that could not be turned into a record.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
