package ihex

import (
	"errors"
	"fmt"
)

// ErrNoMoreRecords is returned by Parser.Next when the input ends before
// another ':' marker is found. It is not a format error by itself; the loader
// turns it into ErrMissingEOF when no end-of-file record was seen.
var ErrNoMoreRecords = errors.New("no more records")

// Format error kinds. Every *FormatError unwraps to exactly one of these.
var (
	ErrMalformedHex  = errors.New("malformed hex digit")
	ErrUnexpectedEOF = errors.New("premature end of input")
	ErrBadChecksum   = errors.New("bad checksum")
	ErrBadRecordType = errors.New("bad record type")
	ErrMissingEOF    = errors.New("missing end-of-file record")
)

// FormatError describes a record that could not be decoded.
type FormatError struct {
	// Line is the 1-based record number (count of ':' markers consumed)
	Line int

	// Kind is one of the Err* sentinels above
	Kind error

	// Detail adds field-specific context (optional)
	Detail string
}

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("line %d: %v: %s", e.Line, e.Kind, e.Detail)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
}

func (e *FormatError) Unwrap() error {
	return e.Kind
}
