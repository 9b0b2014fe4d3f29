// Package simulator provides an in-memory ubaboot device.
//
// Device implements bootloader.Channel by serving requests from address
// indexed flash and EEPROM buffers. Faults can be injected per request and
// address to exercise failure paths.
package simulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/moffa90/go-ubaboot/protocol"
)

// ErrStall is returned for requests the device does not accept, the
// equivalent of a control pipe stall.
var ErrStall = errors.New("control pipe stall")

// Transfer records one request seen by the device.
type Transfer struct {
	Request byte
	Address uint16
	Length  int

	// Data is a copy of the host-to-device payload (nil for reads)
	Data []byte
}

type faultKey struct {
	request byte
	address uint16
}

type fault struct {
	err   error
	short int
}

// Device is an address-indexed ubaboot target.
type Device struct {
	flash     []byte
	eeprom    []byte
	signature [protocol.SignatureSize]byte
	fuses     protocol.Fuses
	latency   time.Duration

	faults    map[faultKey]fault
	stuck     map[int]byte
	rebootErr error

	transfers []Transfer
	reboots   int
}

// Option configures a Device.
type Option func(*Device)

// WithSignature sets the 24-bit device signature.
func WithSignature(sig uint32) Option {
	return func(d *Device) {
		d.signature = [3]byte{byte(sig >> 16), byte(sig >> 8), byte(sig)}
	}
}

// WithFuses sets the fuse and lock bytes.
func WithFuses(f protocol.Fuses) Option {
	return func(d *Device) {
		d.fuses = f
	}
}

// WithFlashSize sets the flash capacity.
func WithFlashSize(size int) Option {
	return func(d *Device) {
		if size > 0 {
			d.flash = erased(size)
		}
	}
}

// WithEEPROMSize sets the EEPROM capacity.
func WithEEPROMSize(size int) Option {
	return func(d *Device) {
		if size > 0 {
			d.eeprom = erased(size)
		}
	}
}

// WithLatency makes every transfer take at least d.
func WithLatency(latency time.Duration) Option {
	return func(d *Device) {
		d.latency = latency
	}
}

// New returns an erased ATmega32U4-like device.
//
// Example:
//
//	dev := simulator.New()
//	prog := bootloader.New(dev, bootloader.WithWriteDelay(time.Millisecond))
func New(opts ...Option) *Device {
	d := &Device{
		flash:  erased(protocol.FlashSize),
		eeprom: erased(protocol.EEPROMSize),
		fuses:  protocol.Fuses{Low: 0xFF, Lock: 0x3F, Extended: 0xCB, High: 0xD8},
		faults: make(map[faultKey]fault),
		stuck:  make(map[int]byte),
	}
	WithSignature(protocol.DefaultSignature)(d)

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReadBlock serves GET_SIGNATURE, GET_LOCK, READ_FLASH and READ_EEPROM.
func (d *Device) ReadBlock(ctx context.Context, request byte, address uint16, buf []byte) (int, error) {
	if err := d.begin(ctx, request, address, len(buf), nil); err != nil {
		return 0, err
	}
	if n, ok, err := d.injected(request, address, len(buf)); ok {
		return n, err
	}

	switch request {
	case protocol.ReqGetSignature:
		return copy(buf, d.signature[:]), nil
	case protocol.ReqGetLock:
		f := d.fuses
		return copy(buf, []byte{f.Low, f.Lock, f.Extended, f.High}), nil
	case protocol.ReqReadFlash:
		return readMem(d.flash, address, buf)
	case protocol.ReqReadEEPROM:
		return readMem(d.eeprom, address, buf)
	default:
		return 0, fmt.Errorf("%w: read request %d", ErrStall, request)
	}
}

// WriteBlock serves WRITE_FLASH and WRITE_EEPROM.
func (d *Device) WriteBlock(ctx context.Context, request byte, address uint16, buf []byte) (int, error) {
	if err := d.begin(ctx, request, address, len(buf), buf); err != nil {
		return 0, err
	}
	if n, ok, err := d.injected(request, address, len(buf)); ok {
		return n, err
	}

	switch request {
	case protocol.ReqWriteFlash:
		n, err := writeMem(d.flash, address, buf)
		for addr, v := range d.stuck {
			d.flash[addr] = v
		}
		return n, err
	case protocol.ReqWriteEEPROM:
		return writeMem(d.eeprom, address, buf)
	default:
		return 0, fmt.Errorf("%w: write request %d", ErrStall, request)
	}
}

// SendCommand serves REBOOT.
func (d *Device) SendCommand(ctx context.Context, request byte) (int, error) {
	if err := d.begin(ctx, request, 0, 0, nil); err != nil {
		return 0, err
	}
	if request != protocol.ReqReboot {
		return 0, fmt.Errorf("%w: command %d", ErrStall, request)
	}
	if d.rebootErr != nil {
		return 0, d.rebootErr
	}
	d.reboots++
	return 0, nil
}

// InjectError makes every transfer of request at address fail with err.
func (d *Device) InjectError(request byte, address uint16, err error) {
	d.faults[faultKey{request, address}] = fault{err: err}
}

// InjectShort makes every transfer of request at address move only n bytes.
func (d *Device) InjectShort(request byte, address uint16, n int) {
	d.faults[faultKey{request, address}] = fault{short: n}
}

// StickByte pins a flash cell to value; writes to it have no effect.
func (d *Device) StickByte(address int, value byte) {
	d.stuck[address] = value
	d.flash[address] = value
}

// FailReboot makes REBOOT fail with err.
func (d *Device) FailReboot(err error) {
	d.rebootErr = err
}

// LoadFlash presets flash contents at address.
func (d *Device) LoadFlash(address int, data []byte) {
	copy(d.flash[address:], data)
}

// LoadEEPROM presets EEPROM contents at address.
func (d *Device) LoadEEPROM(address int, data []byte) {
	copy(d.eeprom[address:], data)
}

// Flash returns the flash contents. The slice aliases device memory.
func (d *Device) Flash() []byte {
	return d.flash
}

// EEPROM returns the EEPROM contents. The slice aliases device memory.
func (d *Device) EEPROM() []byte {
	return d.eeprom
}

// Transfers returns every request seen so far, in order.
func (d *Device) Transfers() []Transfer {
	return d.transfers
}

// Count returns how many transfers used request.
func (d *Device) Count(request byte) int {
	n := 0
	for _, t := range d.transfers {
		if t.Request == request {
			n++
		}
	}
	return n
}

// Reboots returns the number of accepted REBOOT requests.
func (d *Device) Reboots() int {
	return d.reboots
}

func (d *Device) begin(ctx context.Context, request byte, address uint16, length int, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.latency > 0 {
		time.Sleep(d.latency)
	}

	t := Transfer{Request: request, Address: address, Length: length}
	if data != nil {
		t.Data = append([]byte(nil), data...)
	}
	d.transfers = append(d.transfers, t)
	return nil
}

func (d *Device) injected(request byte, address uint16, length int) (int, bool, error) {
	f, ok := d.faults[faultKey{request, address}]
	if !ok {
		return 0, false, nil
	}
	if f.err != nil {
		return 0, true, f.err
	}
	if f.short < length {
		return f.short, true, nil
	}
	return length, true, nil
}

func readMem(mem []byte, address uint16, buf []byte) (int, error) {
	start := int(address)
	if start+len(buf) > len(mem) {
		return 0, fmt.Errorf("%w: read 0x%04X+%d past end 0x%04X", ErrStall, start, len(buf), len(mem))
	}
	return copy(buf, mem[start:]), nil
}

func writeMem(mem []byte, address uint16, buf []byte) (int, error) {
	start := int(address)
	if start+len(buf) > len(mem) {
		return 0, fmt.Errorf("%w: write 0x%04X+%d past end 0x%04X", ErrStall, start, len(buf), len(mem))
	}
	return copy(mem[start:], buf), nil
}

func erased(size int) []byte {
	return bytes.Repeat([]byte{protocol.ErasedByte}, size)
}
