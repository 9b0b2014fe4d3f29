package ihex

import (
	"bufio"
	"fmt"
	"io"
)

// DefaultRecordSize is the payload length of data records written by Encode.
const DefaultRecordSize = 16

const hexDigits = "0123456789ABCDEF"

// MarshalText renders the record as ":BBAAAATT[DD...]CC" without a line
// terminator. The checksum is recomputed from the fields; the Checksum field
// is ignored.
func (r *Record) MarshalText() ([]byte, error) {
	if len(r.Data) > MaxDataLength {
		return nil, fmt.Errorf("record data length %d exceeds maximum %d bytes", len(r.Data), MaxDataLength)
	}

	out := make([]byte, 0, 1+2*(5+len(r.Data)))
	out = append(out, StartCode)
	out = appendHex(out, byte(len(r.Data)))
	out = appendHex(out, byte(r.Address>>8))
	out = appendHex(out, byte(r.Address))
	out = appendHex(out, byte(r.Type))
	for _, b := range r.Data {
		out = appendHex(out, b)
	}
	out = appendHex(out, recordChecksum(r.Type, r.Address, r.Data))

	return out, nil
}

// Encode writes data as DefaultRecordSize-byte data records starting at base,
// followed by a single end-of-file record. Lines end with "\n".
//
// Example:
//
//	var buf bytes.Buffer
//	err := ihex.Encode(&buf, 0x0000, image)
func Encode(w io.Writer, base uint16, data []byte) error {
	return EncodeSize(w, base, data, DefaultRecordSize)
}

// EncodeSize is like Encode with a caller-chosen record payload length.
func EncodeSize(w io.Writer, base uint16, data []byte, recordSize int) error {
	if recordSize <= 0 || recordSize > MaxDataLength {
		return fmt.Errorf("record size %d out of range 1-%d", recordSize, MaxDataLength)
	}
	if int(base)+len(data) > 0x10000 {
		return fmt.Errorf("data of %d bytes at 0x%04X exceeds the 16-bit address space", len(data), base)
	}

	bw := bufio.NewWriter(w)

	for off := 0; off < len(data); off += recordSize {
		end := off + recordSize
		if end > len(data) {
			end = len(data)
		}

		rec := Record{
			Type:    TypeData,
			Address: base + uint16(off),
			Data:    data[off:end],
		}
		if err := writeRecord(bw, &rec); err != nil {
			return err
		}
	}

	if err := writeRecord(bw, &Record{Type: TypeEndOfFile}); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write hex output: %w", err)
	}
	return nil
}

func writeRecord(w *bufio.Writer, rec *Record) error {
	line, err := rec.MarshalText()
	if err != nil {
		return err
	}
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("write hex output: %w", err)
	}
	return nil
}

func appendHex(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}
