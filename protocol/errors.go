package protocol

import (
	"errors"
	"fmt"
)

// ErrUnknownRequest is returned when a request code is outside 1-7.
var ErrUnknownRequest = errors.New("unknown request")

// ResponseSizeError indicates a fixed-size response of the wrong length.
type ResponseSizeError struct {
	// Request is the request code that produced the response
	Request byte

	// Expected is the required length
	Expected int

	// Actual is the received length
	Actual int
}

func (e *ResponseSizeError) Error() string {
	return fmt.Sprintf("%s response: expected %d bytes, got %d",
		RequestName(e.Request), e.Expected, e.Actual)
}

// RequestName returns a human-readable name for a request code.
func RequestName(code byte) string {
	switch code {
	case ReqGetSignature:
		return "get signature"
	case ReqReadFlash:
		return "read flash"
	case ReqWriteFlash:
		return "write flash"
	case ReqReboot:
		return "reboot"
	case ReqReadEEPROM:
		return "read eeprom"
	case ReqWriteEEPROM:
		return "write eeprom"
	case ReqGetLock:
		return "get lock"
	default:
		return fmt.Sprintf("request 0x%02X", code)
	}
}
