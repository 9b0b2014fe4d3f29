// Package softusb drives ubaboot devices through the softusb pure-Go host
// stack instead of libusb.
package softusb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/softusb/host"
	"github.com/ardnew/softusb/host/hal"

	"github.com/moffa90/go-ubaboot/protocol"
	"github.com/moffa90/go-ubaboot/usb"
)

type transferer interface {
	ControlTransfer(ctx context.Context, setup *hal.SetupPacket, data []byte) (int, error)
}

// Device is an enumerated ubaboot device on a softusb host.
type Device struct {
	dev   transferer
	close func() error
	vid   uint16
	pid   uint16
}

// Open starts a softusb host on h and returns the first enumerated device
// matching vid:pid. It blocks until the device appears or ctx is done.
// The host outlives ctx; closing the returned Device stops it.
func Open(ctx context.Context, h hal.HostHAL, vid, pid uint16) (*Device, error) {
	hst := host.New(h)
	if err := hst.Start(context.WithoutCancel(ctx)); err != nil {
		return nil, fmt.Errorf("start usb host: %w", err)
	}

	shutdown := func() error {
		return errors.Join(hst.Stop(), h.Close())
	}

	for _, d := range hst.Devices() {
		if d.VendorID() == vid && d.ProductID() == pid {
			return &Device{dev: d, close: shutdown, vid: vid, pid: pid}, nil
		}
	}

	for {
		d, err := hst.WaitDevice(ctx)
		if err != nil {
			_ = shutdown()
			return nil, fmt.Errorf("%w: %04x:%04x: %w", usb.ErrNotFound, vid, pid, err)
		}
		if d.VendorID() == vid && d.ProductID() == pid {
			return &Device{dev: d, close: shutdown, vid: vid, pid: pid}, nil
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

func (d *Device) control(ctx context.Context, req protocol.Request, data []byte) (int, error) {
	setup := &hal.SetupPacket{
		RequestType: req.RequestType,
		Request:     req.Request,
		Value:       req.Value,
		Index:       req.Index,
		Length:      req.Length,
	}
	return d.dev.ControlTransfer(ctx, setup, data)
}

func (d *Device) String() string {
	return fmt.Sprintf("softusb %04x:%04x", d.vid, d.pid)
}

// Close stops the host the device was found on.
func (d *Device) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}
