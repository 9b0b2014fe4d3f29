// Package usb opens ubaboot devices through libusb.
//
// Device implements bootloader.Channel on top of gousb control transfers.
package usb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"

	"github.com/moffa90/go-ubaboot/protocol"
)

// ErrNotFound is returned when no device with the requested VID:PID is
// attached.
var ErrNotFound = errors.New("ubaboot device not found")

// DefaultTimeout bounds every control transfer.
const DefaultTimeout = 5 * time.Second

// controller is the part of *gousb.Device used here.
type controller interface {
	Control(rType, request uint8, val, idx uint16, data []byte) (int, error)
	Close() error
}

// Device is an open ubaboot device.
type Device struct {
	ctrl   controller
	usbCtx *gousb.Context
	vid    uint16
	pid    uint16
}

// Open opens the first device matching vid:pid. Control transfers time out
// after timeout (DefaultTimeout when zero).
//
// Example:
//
//	dev, err := usb.Open(protocol.DefaultVendorID, protocol.DefaultProductID, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
func Open(vid, pid uint16, timeout time.Duration) (*Device, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	usbCtx := gousb.NewContext()

	dev, err := usbCtx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		_ = usbCtx.Close()
		return nil, fmt.Errorf("open %04x:%04x: %w", vid, pid, err)
	}
	if dev == nil {
		_ = usbCtx.Close()
		return nil, fmt.Errorf("%w: %04x:%04x", ErrNotFound, vid, pid)
	}
	dev.ControlTimeout = timeout

	return &Device{ctrl: dev, usbCtx: usbCtx, vid: vid, pid: pid}, nil
}

// OpenWait retries Open every interval until the device appears or ctx is
// done. Errors other than ErrNotFound end the wait immediately.
func OpenWait(ctx context.Context, vid, pid uint16, timeout, interval time.Duration) (*Device, error) {
	return Wait(ctx, interval, func() (*Device, error) {
		return Open(vid, pid, timeout)
	})
}

// Wait calls open until it stops returning ErrNotFound, sleeping interval
// between attempts. It is shared by the libusb and softusb backends.
func Wait[T any](ctx context.Context, interval time.Duration, open func() (T, error)) (T, error) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		dev, err := open()
		if !errors.Is(err, ErrNotFound) {
			return dev, err
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, fmt.Errorf("waiting for device: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// ReadBlock issues a device-to-host vendor request.
func (d *Device) ReadBlock(ctx context.Context, request byte, address uint16, buf []byte) (int, error) {
	req, err := protocol.BuildReadRequest(request, address, len(buf))
	if err != nil {
		return 0, err
	}
	return d.control(ctx, req, buf)
}

// WriteBlock issues a host-to-device vendor request carrying buf.
func (d *Device) WriteBlock(ctx context.Context, request byte, address uint16, buf []byte) (int, error) {
	req, err := protocol.BuildWriteRequest(request, address, len(buf))
	if err != nil {
		return 0, err
	}
	return d.control(ctx, req, buf)
}

// SendCommand issues a host-to-device vendor request with no data stage.
// REBOOT is the only such request.
func (d *Device) SendCommand(ctx context.Context, request byte) (int, error) {
	if request != protocol.ReqReboot {
		return 0, fmt.Errorf("%w: 0x%02X is not a command", protocol.ErrUnknownRequest, request)
	}
	return d.control(ctx, protocol.BuildRebootRequest(), nil)
}

// control performs one transfer. gousb has no context support, so ctx is
// only checked before the transfer starts; ControlTimeout bounds the rest.
func (d *Device) control(ctx context.Context, req protocol.Request, data []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return d.ctrl.Control(req.RequestType, req.Request, req.Value, req.Index, data)
}

func (d *Device) String() string {
	return fmt.Sprintf("libusb %04x:%04x", d.vid, d.pid)
}

// Close releases the device and its libusb context.
func (d *Device) Close() error {
	var errs []error
	if d.ctrl != nil {
		errs = append(errs, d.ctrl.Close())
	}
	if d.usbCtx != nil {
		errs = append(errs, d.usbCtx.Close())
	}
	return errors.Join(errs...)
}
