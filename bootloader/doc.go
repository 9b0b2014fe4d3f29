// Package bootloader programs and reads ubaboot devices.
//
// # Overview
//
// A programming run is a one-way state machine:
//
//	planning -> writing -> reading-back -> verifying -> rebooting -> done
//
// Any non-terminal phase may end in failed. A failed run is not resumable;
// start again from a fresh image.
//
// # Basic Usage
//
//	dev, err := usb.Open(protocol.DefaultVendorID, protocol.DefaultProductID, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	prog := bootloader.New(dev)
//
//	img, err := prog.LoadFile(prog.Flash(), "firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := prog.Program(ctx, img)
//	if err != nil {
//	    log.Fatalf("failed in %s: %v", res.FailedIn, err)
//	}
//
// # Memory Spaces
//
// Flash and EEPROM share the same engine. Flash() reserves the bootloader
// region at the top of flash; EEPROM() has no reserved area and uses
// 16-byte blocks.
//
//	res, err := prog.ProgramSpace(ctx, prog.EEPROM(), img)
//	n, err := prog.Dump(ctx, prog.Flash(), os.Stdout, bootloader.DumpOptions{TrimErased: true})
//
// # Configuration Options
//
//	prog := bootloader.New(dev,
//	    bootloader.WithProgressCallback(progressFunc),
//	    bootloader.WithLogger(myLogger),
//	    bootloader.WithWriteDelay(25*time.Millisecond),
//	    bootloader.WithFlashGeometry(32768, 4096),
//	    bootloader.WithReboot(false),
//	)
//
// # Error Handling
//
// Failures are typed and can be matched with errors.As and errors.Is:
//   - ihex.FormatError and memory.BoundsError: the image was rejected before any I/O
//   - PlanError: empty image or image past the programmable area
//   - DeviceMismatchError: wrong signature
//   - TransportError (ErrWrite, ErrReadBack, ErrReboot, ErrShortTransfer)
//   - VerifyMismatchError: first differing offset after read-back
//
// # Hardware Independence
//
// The programmer talks to a Channel. The usb packages provide libusb and
// pure-Go Linux implementations; the simulator package provides an in-memory
// device for tests.
package bootloader
