package bootloader

import (
	"time"

	"github.com/moffa90/go-ubaboot/protocol"
)

// Config holds the programmer configuration.
type Config struct {
	// ProgressCallback is called during programming to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Signature is the expected device signature
	Signature protocol.Signature

	// CheckSignature makes Program and Verify read the signature before
	// touching memory
	CheckSignature bool

	// FlashSize is the flash capacity in bytes
	FlashSize int

	// BootloaderSize is the reserved tail of flash
	BootloaderSize int

	// EEPROMSize is the EEPROM capacity in bytes
	EEPROMSize int

	// FlashBlockSize is the flash write chunk size
	FlashBlockSize int

	// ReadBlockSize is the per-request flash read size
	ReadBlockSize int

	// EEPROMBlockSize is the EEPROM read and write chunk size
	EEPROMBlockSize int

	// WriteDelay is the settle time after each block write
	WriteDelay time.Duration

	// Reboot issues REBOOT after a verified write
	Reboot bool
}

// defaultConfig returns the default configuration for an ATmega32U4.
func defaultConfig() Config {
	return Config{
		Signature:       protocol.DefaultSignature,
		CheckSignature:  true,
		FlashSize:       protocol.FlashSize,
		BootloaderSize:  protocol.BootloaderSize,
		EEPROMSize:      protocol.EEPROMSize,
		FlashBlockSize:  protocol.FlashBlockSize,
		ReadBlockSize:   protocol.FlashReadBlockSize,
		EEPROMBlockSize: protocol.EEPROMBlockSize,
		WriteDelay:      protocol.WriteSettleDelay,
		Reboot:          true,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithProgressCallback sets a callback function to track programming progress.
//
// Example:
//
//	prog := bootloader.New(device,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("[%s] %.1f%%\n", p.Phase, p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the programmer operations.
//
// Example:
//
//	prog := bootloader.New(device, bootloader.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithWriteDelay sets the settle time after each block write.
// Non-positive values are ignored; the device always needs a delay.
//
// Example:
//
//	prog := bootloader.New(device, bootloader.WithWriteDelay(30*time.Millisecond))
func WithWriteDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay > 0 {
			c.WriteDelay = delay
		}
	}
}

// WithReadBlockSize sets the per-request flash read size (1-65535 bytes).
func WithReadBlockSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= 0xFFFF {
			c.ReadBlockSize = size
		}
	}
}

// WithSignature sets the expected device signature.
//
// Example:
//
//	prog := bootloader.New(device, bootloader.WithSignature(0x1E9587))
func WithSignature(signature uint32) Option {
	return func(c *Config) {
		c.Signature = protocol.Signature(signature & 0xFFFFFF)
	}
}

// WithSignatureCheck enables or disables the signature precondition.
// Default is true.
func WithSignatureCheck(check bool) Option {
	return func(c *Config) {
		c.CheckSignature = check
	}
}

// WithFlashGeometry sets the flash capacity and the bootloader region size.
// Invalid combinations are ignored.
//
// Example:
//
//	prog := bootloader.New(device, bootloader.WithFlashGeometry(16384, 512))
func WithFlashGeometry(flashSize, bootloaderSize int) Option {
	return func(c *Config) {
		if flashSize <= 0 || flashSize > 0x10000 {
			return
		}
		if bootloaderSize < 0 || bootloaderSize >= flashSize {
			return
		}
		c.FlashSize = flashSize
		c.BootloaderSize = bootloaderSize
	}
}

// WithEEPROMSize sets the EEPROM capacity.
func WithEEPROMSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= 0x10000 {
			c.EEPROMSize = size
		}
	}
}

// WithReboot enables or disables the reboot after a verified write.
// Default is true.
func WithReboot(reboot bool) Option {
	return func(c *Config) {
		c.Reboot = reboot
	}
}
