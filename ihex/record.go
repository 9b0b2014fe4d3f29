package ihex

import "fmt"

// RecordType identifies the kind of an Intel-HEX record.
type RecordType byte

// Supported record types. Extended address and start address records are
// rejected with ErrBadRecordType.
const (
	// TypeData carries payload bytes for the record address
	TypeData RecordType = 0x00

	// TypeEndOfFile terminates the record stream
	TypeEndOfFile RecordType = 0x01
)

func (t RecordType) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeEndOfFile:
		return "end-of-file"
	default:
		return fmt.Sprintf("type 0x%02X", byte(t))
	}
}

// Record is a single decoded Intel-HEX record.
type Record struct {
	// Type is the record type
	Type RecordType

	// Address is the 16-bit load address
	Address uint16

	// Data is the record payload (empty for end-of-file records)
	Data []byte

	// Checksum is the checksum byte as read from the input
	Checksum byte
}

// Block is a contiguous run of bytes destined for one address range.
// Loaded images are a sequence of blocks in input order.
type Block struct {
	// Address is the first byte's address
	Address uint16

	// Data is the block content
	Data []byte
}

// End returns the address one past the last byte of the block.
func (b Block) End() int {
	return int(b.Address) + len(b.Data)
}
