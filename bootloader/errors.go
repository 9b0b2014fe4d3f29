package bootloader

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-ubaboot/protocol"
)

// Transport failure kinds. A *TransportError matches its operation kind and,
// when the device returned fewer bytes than requested, ErrShortTransfer.
var (
	ErrWrite         = errors.New("write failed")
	ErrRead          = errors.New("read failed")
	ErrReadBack      = errors.New("read-back failed")
	ErrReboot        = errors.New("reboot failed")
	ErrShortTransfer = errors.New("short transfer")
)

// Plan failure kinds.
var (
	ErrEmptyImage    = errors.New("nothing to write")
	ErrImageTooLarge = errors.New("image exceeds programmable area")
	ErrBadGeometry   = errors.New("invalid space geometry")
)

// TransportError describes a failed or short control transfer.
type TransportError struct {
	// Op is ErrWrite, ErrRead, ErrReadBack or ErrReboot
	Op error

	// Request is the protocol request code
	Request byte

	// Address is the wValue of the transfer
	Address uint16

	// Requested and Transferred are the byte counts asked for and moved
	Requested   int
	Transferred int

	// Err is the transport error, or ErrShortTransfer
	Err error
}

func (e *TransportError) Error() string {
	if errors.Is(e.Err, ErrShortTransfer) {
		return fmt.Sprintf("%v: %s at 0x%04X: short transfer: %d of %d bytes",
			e.Op, protocol.RequestName(e.Request), e.Address, e.Transferred, e.Requested)
	}
	return fmt.Sprintf("%v: %s at 0x%04X: %v",
		e.Op, protocol.RequestName(e.Request), e.Address, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{e.Op, e.Err}
}

// VerifyMismatchError reports the first byte that differs after read-back.
type VerifyMismatchError struct {
	Index    int
	Expected byte
	Actual   byte
}

func (e *VerifyMismatchError) Error() string {
	return fmt.Sprintf("verify mismatch at offset 0x%04X: wrote 0x%02X, read 0x%02X",
		e.Index, e.Expected, e.Actual)
}

// DeviceMismatchError indicates that the device signature doesn't match the
// configured target.
type DeviceMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *DeviceMismatchError) Error() string {
	return fmt.Sprintf("device mismatch: expected signature 0x%06X, device has 0x%06X",
		e.Expected, e.Actual)
}

// PlanError indicates an image that cannot be programmed. It is raised
// before any device I/O.
type PlanError struct {
	// Kind is ErrEmptyImage, ErrImageTooLarge or ErrBadGeometry
	Kind error

	// Space is the memory space name
	Space string

	HighWaterMark int
	Limit         int

	// WriteBlockSize and ReadBlockSize are set for ErrBadGeometry
	WriteBlockSize int
	ReadBlockSize  int
}

func (e *PlanError) Error() string {
	if errors.Is(e.Kind, ErrBadGeometry) {
		return fmt.Sprintf("%s: %v: write block %d, read block %d, limit 0x%04X",
			e.Space, e.Kind, e.WriteBlockSize, e.ReadBlockSize, e.Limit)
	}
	return fmt.Sprintf("%s: %v: high-water mark 0x%04X, limit 0x%04X",
		e.Space, e.Kind, e.HighWaterMark, e.Limit)
}

func (e *PlanError) Unwrap() error {
	return e.Kind
}
