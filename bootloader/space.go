package bootloader

import "github.com/moffa90/go-ubaboot/protocol"

// Space describes one programmable memory of the target.
type Space struct {
	// Name identifies the space in logs and errors
	Name string

	// ReadRequest and WriteRequest are the protocol request codes
	ReadRequest  byte
	WriteRequest byte

	// Capacity is the size of the space in bytes
	Capacity int

	// Reserved is the tail of the space that must never be written
	Reserved int

	// WriteBlockSize is the fixed write chunk; partial chunks are padded
	WriteBlockSize int

	// ReadBlockSize is the maximum bytes per read request
	ReadBlockSize int
}

// Limit returns the first address of the reserved tail.
func (s Space) Limit() int {
	return s.Capacity - s.Reserved
}

// validate rejects geometry that cannot be transferred: block sizes must
// fit a control transfer and addresses must fit wValue.
func (s Space) validate() error {
	blockOK := func(n int) bool { return n > 0 && n <= 0xFFFF }
	if !blockOK(s.WriteBlockSize) || !blockOK(s.ReadBlockSize) ||
		s.Capacity < 0 || s.Capacity > 0x10000 || s.Reserved < 0 || s.Reserved > s.Capacity {
		return &PlanError{
			Kind:           ErrBadGeometry,
			Space:          s.Name,
			Limit:          s.Limit(),
			WriteBlockSize: s.WriteBlockSize,
			ReadBlockSize:  s.ReadBlockSize,
		}
	}
	return nil
}

// Flash returns the flash space for the configured geometry.
func (p *Programmer) Flash() Space {
	return Space{
		Name:           "flash",
		ReadRequest:    protocol.ReqReadFlash,
		WriteRequest:   protocol.ReqWriteFlash,
		Capacity:       p.config.FlashSize,
		Reserved:       p.config.BootloaderSize,
		WriteBlockSize: p.config.FlashBlockSize,
		ReadBlockSize:  p.config.ReadBlockSize,
	}
}

// EEPROM returns the EEPROM space.
func (p *Programmer) EEPROM() Space {
	return Space{
		Name:           "eeprom",
		ReadRequest:    protocol.ReqReadEEPROM,
		WriteRequest:   protocol.ReqWriteEEPROM,
		Capacity:       p.config.EEPROMSize,
		WriteBlockSize: p.config.EEPROMBlockSize,
		ReadBlockSize:  p.config.EEPROMBlockSize,
	}
}

// SpaceByName returns Flash or EEPROM for "flash" or "eeprom".
func (p *Programmer) SpaceByName(name string) (Space, bool) {
	switch name {
	case "flash":
		return p.Flash(), true
	case "eeprom":
		return p.EEPROM(), true
	}
	return Space{}, false
}
