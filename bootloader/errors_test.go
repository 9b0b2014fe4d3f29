package bootloader

import (
	"errors"
	"strings"
	"testing"
)

func TestTransportError(t *testing.T) {
	err := &TransportError{
		Op:          ErrWrite,
		Request:     3,
		Address:     0x0200,
		Requested:   512,
		Transferred: 100,
		Err:         ErrShortTransfer,
	}

	want := "write failed: write flash at 0x0200: short transfer: 100 of 512 bytes"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrWrite) || !errors.Is(err, ErrShortTransfer) {
		t.Error("expected error to match ErrWrite and ErrShortTransfer")
	}
	if errors.Is(err, ErrReadBack) {
		t.Error("error should not match ErrReadBack")
	}

	cause := errors.New("libusb: timeout")
	err = &TransportError{Op: ErrReadBack, Request: 2, Address: 0x0400, Err: cause}
	if !strings.Contains(err.Error(), "read-back failed: read flash at 0x0400: libusb: timeout") {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to wrap the transport cause")
	}
}

func TestVerifyMismatchError(t *testing.T) {
	err := &VerifyMismatchError{Index: 0x1234, Expected: 0xAA, Actual: 0x55}

	errMsg := err.Error()
	for _, want := range []string{"verify mismatch", "0x1234", "0xAA", "0x55"} {
		if !strings.Contains(errMsg, want) {
			t.Errorf("error message should contain %q, got: %s", want, errMsg)
		}
	}
}

func TestDeviceMismatchError(t *testing.T) {
	err := &DeviceMismatchError{
		Expected: 0x1E9587,
		Actual:   0x1E9488,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "device mismatch") {
		t.Errorf("error message should contain 'device mismatch', got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x1E9587") {
		t.Errorf("error message should contain expected signature, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x1E9488") {
		t.Errorf("error message should contain actual signature, got: %s", errMsg)
	}
}

func TestPlanError(t *testing.T) {
	err := &PlanError{Kind: ErrImageTooLarge, Space: "flash", HighWaterMark: 0x7E01, Limit: 0x7E00}

	want := "flash: image exceeds programmable area: high-water mark 0x7E01, limit 0x7E00"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrImageTooLarge) {
		t.Error("expected error to match ErrImageTooLarge")
	}
}

func TestPlanErrorBadGeometry(t *testing.T) {
	err := &PlanError{Kind: ErrBadGeometry, Space: "eeprom", Limit: 0x0400, WriteBlockSize: 16}

	want := "eeprom: invalid space geometry: write block 16, read block 0, limit 0x0400"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrBadGeometry) {
		t.Error("expected error to match ErrBadGeometry")
	}
}
