package ihex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Constants for Intel-HEX record parsing.
const (
	// StartCode marks the beginning of every record
	StartCode = ':'

	// MaxDataLength is the largest payload a single record can declare
	MaxDataLength = 0xFF
)

// Parser decodes records from a byte stream one at a time.
//
// The record counter and running checksum live in the Parser, so independent
// parsers can be used side by side.
type Parser struct {
	r    io.ByteReader
	line int
	sum  byte
}

// NewParser returns a Parser reading from r.
// r is wrapped in a bufio.Reader unless it already implements io.ByteReader.
func NewParser(r io.Reader) *Parser {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Parser{r: br}
}

// Line returns the number of ':' markers consumed so far. After a failed
// Next call it is the 1-based number of the offending record.
func (p *Parser) Line() int {
	return p.line
}

// Next scans forward to the next ':' and decodes one record.
//
// It returns ErrNoMoreRecords if the input ends before a marker is found.
// Decoding failures are returned as *FormatError.
func (p *Parser) Next() (*Record, error) {
	found, err := p.findStart()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoMoreRecords
	}

	p.sum = 0

	count, err := p.readByte("byte count")
	if err != nil {
		return nil, err
	}

	addrHi, err := p.readByte("address")
	if err != nil {
		return nil, err
	}
	addrLo, err := p.readByte("address")
	if err != nil {
		return nil, err
	}

	typ, err := p.readByte("record type")
	if err != nil {
		return nil, err
	}
	if RecordType(typ) != TypeData && RecordType(typ) != TypeEndOfFile {
		return nil, p.formatError(ErrBadRecordType, fmt.Sprintf("0x%02X", typ))
	}

	rec := &Record{
		Type:    RecordType(typ),
		Address: uint16(addrHi)<<8 | uint16(addrLo),
		Data:    make([]byte, count),
	}

	for i := range rec.Data {
		if rec.Data[i], err = p.readByte("data"); err != nil {
			return nil, err
		}
	}

	if rec.Checksum, err = p.readByte("checksum"); err != nil {
		return nil, err
	}

	if p.sum != 0 {
		return nil, p.formatError(ErrBadChecksum, fmt.Sprintf("sum is 0x%02X", p.sum))
	}

	return rec, nil
}

// findStart discards input up to and including the next ':'.
func (p *Parser) findStart() (bool, error) {
	for {
		c, err := p.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read hex input: %w", err)
		}
		if c == StartCode {
			p.line++
			return true, nil
		}
	}
}

// readByte decodes two hex digits and folds the value into the running sum.
func (p *Parser) readByte(field string) (byte, error) {
	hi, err := p.readNibble(field)
	if err != nil {
		return 0, err
	}
	lo, err := p.readNibble(field)
	if err != nil {
		return 0, err
	}
	v := hi<<4 | lo
	p.sum += v
	return v, nil
}

func (p *Parser) readNibble(field string) (byte, error) {
	c, err := p.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, p.formatError(ErrUnexpectedEOF, "reading "+field)
		}
		return 0, fmt.Errorf("read hex input: %w", err)
	}

	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, p.formatError(ErrMalformedHex, fmt.Sprintf("%q in %s", c, field))
	}
}

func (p *Parser) formatError(kind error, detail string) *FormatError {
	return &FormatError{Line: p.line, Kind: kind, Detail: detail}
}
