package protocol

import (
	"fmt"
)

// Request is the setup stage of one vendor control transfer.
//
// Setup packet layout:
//
//	[bmRequestType][bRequest][wValue=address][wIndex=0][wLength]
type Request struct {
	// RequestType is DevRead or DevWrite
	RequestType uint8

	// Request is one of the Req* codes
	Request uint8

	// Value carries the memory address
	Value uint16

	// Index is always zero
	Index uint16

	// Length is the data stage size in bytes
	Length uint16
}

func (r Request) String() string {
	return fmt.Sprintf("%s addr=0x%04X len=%d", RequestName(r.Request), r.Value, r.Length)
}

// BuildReadRequest constructs a device-to-host request reading length bytes
// at address. Only GET_SIGNATURE, READ_FLASH, READ_EEPROM and GET_LOCK are
// accepted.
func BuildReadRequest(code byte, address uint16, length int) (Request, error) {
	if !isReadCode(code) {
		return Request{}, fmt.Errorf("%w: 0x%02X is not a read request", ErrUnknownRequest, code)
	}
	if length < 0 || length > 0xFFFF {
		return Request{}, fmt.Errorf("length %d out of range 0-65535", length)
	}

	return Request{
		RequestType: DevRead,
		Request:     code,
		Value:       address,
		Length:      uint16(length),
	}, nil
}

// BuildWriteRequest constructs a host-to-device request carrying length bytes
// for address. Only WRITE_FLASH, WRITE_EEPROM and REBOOT are accepted.
func BuildWriteRequest(code byte, address uint16, length int) (Request, error) {
	if !isWriteCode(code) {
		return Request{}, fmt.Errorf("%w: 0x%02X is not a write request", ErrUnknownRequest, code)
	}
	if length < 0 || length > 0xFFFF {
		return Request{}, fmt.Errorf("length %d out of range 0-65535", length)
	}

	return Request{
		RequestType: DevWrite,
		Request:     code,
		Value:       address,
		Length:      uint16(length),
	}, nil
}

// BuildRebootRequest constructs the zero-length REBOOT request.
func BuildRebootRequest() Request {
	return Request{RequestType: DevWrite, Request: ReqReboot}
}

func isReadCode(code byte) bool {
	switch code {
	case ReqGetSignature, ReqReadFlash, ReqReadEEPROM, ReqGetLock:
		return true
	}
	return false
}

func isWriteCode(code byte) bool {
	switch code {
	case ReqWriteFlash, ReqWriteEEPROM, ReqReboot:
		return true
	}
	return false
}
