package protocol

import "time"

// Default USB identity of a ubaboot device (OpenMoko-assigned VID:PID).
const (
	DefaultVendorID  = 0x1d50
	DefaultProductID = 0x611c
)

// Request codes carried in bRequest of every control transfer.
const (
	// ReqGetSignature reads the 3-byte device signature
	ReqGetSignature = 1

	// ReqReadFlash reads flash starting at wValue
	ReqReadFlash = 2

	// ReqWriteFlash programs flash starting at wValue
	ReqWriteFlash = 3

	// ReqReboot leaves the bootloader and starts the application
	ReqReboot = 4

	// ReqReadEEPROM reads EEPROM starting at wValue
	ReqReadEEPROM = 5

	// ReqWriteEEPROM programs EEPROM starting at wValue
	ReqWriteEEPROM = 6

	// ReqGetLock reads the fuse and lock bytes
	ReqGetLock = 7
)

// bmRequestType values: vendor request to the device, direction in bit 7.
const (
	// DevRead is device-to-host
	DevRead = 0xC0

	// DevWrite is host-to-device
	DevWrite = 0x40
)

// Target geometry of the ATmega32U4 as shipped with ubaboot.
const (
	// DefaultSignature is the ATmega32U4 signature (1E 95 87)
	DefaultSignature = 0x001E9587

	// FlashSize is the total flash capacity in bytes
	FlashSize = 32768

	// BootloaderSize is the reserved tail of flash holding ubaboot
	BootloaderSize = 512

	// EEPROMSize is the EEPROM capacity in bytes
	EEPROMSize = 1024
)

// Transfer sizes.
const (
	// FlashBlockSize is the flash write chunk; the device erases and programs
	// whole blocks, so partial blocks are padded
	FlashBlockSize = 512

	// FlashReadBlockSize is the per-request flash read size
	FlashReadBlockSize = 512

	// EEPROMBlockSize is the EEPROM read and write chunk
	EEPROMBlockSize = 16

	// SignatureSize is the GET_SIGNATURE response length
	SignatureSize = 3

	// FusesSize is the GET_LOCK response length
	FusesSize = 4
)

// ErasedByte is the value unprogrammed memory reads as, used for padding.
const ErasedByte = 0xFF

// WriteSettleDelay is the pause after each block write while the device
// programs the page.
const WriteSettleDelay = 20 * time.Millisecond
