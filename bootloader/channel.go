package bootloader

import "context"

// Channel carries ubaboot control transfers to a device.
//
// Each method performs exactly one blocking transfer and returns the number
// of bytes moved. Implementations do not retry; timeouts surface as errors.
type Channel interface {
	// ReadBlock issues a device-to-host request for len(buf) bytes at address
	ReadBlock(ctx context.Context, request byte, address uint16, buf []byte) (int, error)

	// WriteBlock issues a host-to-device request carrying buf for address
	WriteBlock(ctx context.Context, request byte, address uint16, buf []byte) (int, error)

	// SendCommand issues a host-to-device request with no data stage
	SendCommand(ctx context.Context, request byte) (int, error)
}
