package protocol

import "fmt"

// Fuses contains the fuse and lock bytes returned by GET_LOCK.
type Fuses struct {
	// Low is the low fuse byte (lfuse)
	Low byte

	// Lock is the lock bits byte
	Lock byte

	// Extended is the extended fuse byte (efuse)
	Extended byte

	// High is the high fuse byte (hfuse)
	High byte
}

func (f Fuses) String() string {
	return fmt.Sprintf("L:%02X H:%02X E:%02X Lock:%02X", f.Low, f.High, f.Extended, f.Lock)
}

// Signature is the 24-bit device signature, most significant byte first.
type Signature uint32

func (s Signature) String() string {
	return fmt.Sprintf("%06X", uint32(s))
}
