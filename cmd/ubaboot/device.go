package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-ubaboot/bootloader"
	"github.com/moffa90/go-ubaboot/protocol"
	"github.com/moffa90/go-ubaboot/usb"
	"github.com/moffa90/go-ubaboot/usb/softusb"
)

type deviceChannel interface {
	bootloader.Channel
	io.Closer
}

// openDevice opens the configured device, waiting for it when --wait is set.
func openDevice(ctx context.Context, s settings) (deviceChannel, error) {
	switch s.Backend {
	case backendSoftUSB:
		if !s.Wait {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.Timeout)
			defer cancel()
		}
		return softusb.OpenSystem(ctx, s.VendorID, s.ProductID)

	case backendLibUSB:
		if s.Wait {
			return usb.OpenWait(ctx, s.VendorID, s.ProductID, s.Timeout, s.RetryInterval)
		}
		return usb.Open(s.VendorID, s.ProductID, s.Timeout)
	}
	return nil, fmt.Errorf("unknown backend %q", s.Backend)
}

func (s settings) programmerOptions(progress *progressDisplay) []bootloader.Option {
	opts := []bootloader.Option{
		bootloader.WithSignature(s.Signature),
		bootloader.WithFlashGeometry(s.FlashSize, s.BootloaderSize),
		bootloader.WithEEPROMSize(s.EEPROMSize),
		bootloader.WithReadBlockSize(s.ReadBlockSize),
		bootloader.WithWriteDelay(s.WriteDelay),
	}
	if logger != nil {
		opts = append(opts, bootloader.WithLogger(logger))
	}
	if progress != nil {
		opts = append(opts, bootloader.WithProgressCallback(progress.update))
	}
	return opts
}

// withProgrammer opens the device, checks its signature and runs fn. The
// programmer it hands out skips its own signature check.
func withProgrammer(cmd *cobra.Command, extra []bootloader.Option,
	fn func(ctx context.Context, prog *bootloader.Programmer, sig protocol.Signature) error) error {
	ctx := cmd.Context()

	dev, err := openDevice(ctx, cfg)
	if err != nil {
		return err
	}
	defer dev.Close()

	logger.Debug("device opened", "device", fmt.Sprint(dev))

	progress := newProgressDisplay(cmd.ErrOrStderr())
	defer progress.finish()

	opts := append(cfg.programmerOptions(progress), bootloader.WithSignatureCheck(false))
	prog := bootloader.New(dev, append(opts, extra...)...)

	sig, err := prog.Identify(ctx)
	if err != nil {
		return err
	}

	return fn(ctx, prog, sig)
}

func spaceArg(prog *bootloader.Programmer, name string) (bootloader.Space, error) {
	space, ok := prog.SpaceByName(name)
	if !ok {
		return bootloader.Space{}, fmt.Errorf("unknown memory space %q (want flash or eeprom)", name)
	}
	return space, nil
}
