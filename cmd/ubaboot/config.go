package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-ubaboot/protocol"
	"github.com/moffa90/go-ubaboot/usb"
)

const (
	backendLibUSB  = "libusb"
	backendSoftUSB = "softusb"
)

type fileConfig struct {
	VendorID       string `toml:"vendor_id"`
	ProductID      string `toml:"product_id"`
	Backend        string `toml:"backend"`
	Signature      string `toml:"signature"`
	FlashSize      int    `toml:"flash_size"`
	BootloaderSize int    `toml:"bootloader_size"`
	EEPROMSize     int    `toml:"eeprom_size"`
	ReadBlockSize  int    `toml:"read_block_size"`
	WriteDelay     string `toml:"write_delay"`
	Timeout        string `toml:"timeout"`
	RetryInterval  string `toml:"retry_interval"`
}

type settings struct {
	VendorID       uint16
	ProductID      uint16
	Backend        string
	Signature      uint32
	FlashSize      int
	BootloaderSize int
	EEPROMSize     int
	ReadBlockSize  int
	WriteDelay     time.Duration
	Timeout        time.Duration
	RetryInterval  time.Duration
	Wait           bool
}

func defaultSettings() settings {
	return settings{
		VendorID:       protocol.DefaultVendorID,
		ProductID:      protocol.DefaultProductID,
		Backend:        backendLibUSB,
		Signature:      uint32(protocol.DefaultSignature),
		FlashSize:      protocol.FlashSize,
		BootloaderSize: protocol.BootloaderSize,
		EEPROMSize:     protocol.EEPROMSize,
		ReadBlockSize:  protocol.FlashReadBlockSize,
		WriteDelay:     protocol.WriteSettleDelay,
		Timeout:        usb.DefaultTimeout,
		RetryInterval:  time.Second,
	}
}

// loadSettings returns the defaults overlaid with the keys present in path.
// An empty path yields the defaults.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return settings{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("vendor_id") {
		if s.VendorID, err = parseID(raw.VendorID); err != nil {
			return settings{}, fmt.Errorf("parse vendor_id: %w", err)
		}
	}

	if meta.IsDefined("product_id") {
		if s.ProductID, err = parseID(raw.ProductID); err != nil {
			return settings{}, fmt.Errorf("parse product_id: %w", err)
		}
	}

	if meta.IsDefined("backend") {
		s.Backend = strings.TrimSpace(raw.Backend)
	}

	if meta.IsDefined("signature") {
		v, err := strconv.ParseUint(trimHexPrefix(raw.Signature), 16, 24)
		if err != nil {
			return settings{}, fmt.Errorf("parse signature: %w", err)
		}
		s.Signature = uint32(v)
	}

	if meta.IsDefined("flash_size") {
		s.FlashSize = raw.FlashSize
	}

	if meta.IsDefined("bootloader_size") {
		s.BootloaderSize = raw.BootloaderSize
	}

	if meta.IsDefined("eeprom_size") {
		s.EEPROMSize = raw.EEPROMSize
	}

	if meta.IsDefined("read_block_size") {
		s.ReadBlockSize = raw.ReadBlockSize
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"write_delay", raw.WriteDelay, &s.WriteDelay},
		{"timeout", raw.Timeout, &s.Timeout},
		{"retry_interval", raw.RetryInterval, &s.RetryInterval},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		v, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return settings{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.dst = v
	}

	if err := s.validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

// applyFlags overrides s with flags set explicitly on the command line.
func (s *settings) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("backend") {
		s.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("timeout") {
		s.Timeout, _ = flags.GetDuration("timeout")
	}
	s.Wait, _ = flags.GetBool("wait")

	return s.validate()
}

func (s settings) validate() error {
	switch s.Backend {
	case backendLibUSB, backendSoftUSB:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", s.Backend, backendLibUSB, backendSoftUSB)
	}
	if s.FlashSize <= 0 || s.FlashSize > 0x10000 {
		return fmt.Errorf("flash_size %d out of range 1-65536", s.FlashSize)
	}
	if s.BootloaderSize < 0 || s.BootloaderSize >= s.FlashSize {
		return fmt.Errorf("bootloader_size %d must be below flash_size %d", s.BootloaderSize, s.FlashSize)
	}
	if s.EEPROMSize <= 0 || s.EEPROMSize > 0x10000 {
		return fmt.Errorf("eeprom_size %d out of range 1-65536", s.EEPROMSize)
	}
	if s.ReadBlockSize <= 0 || s.ReadBlockSize > 0xFFFF {
		return fmt.Errorf("read_block_size %d out of range 1-65535", s.ReadBlockSize)
	}
	if s.WriteDelay <= 0 {
		return fmt.Errorf("write_delay must be positive")
	}
	return nil
}

func parseID(v string) (uint16, error) {
	id, err := strconv.ParseUint(trimHexPrefix(v), 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(id), nil
}

func trimHexPrefix(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.TrimPrefix(v, "0x")
}
