package bootloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/moffa90/go-ubaboot/ihex"
	"github.com/moffa90/go-ubaboot/memory"
)

// Programmer drives ubaboot programming runs over a Channel.
//
// A Programmer is not safe for concurrent use; the device accepts one
// transfer at a time.
type Programmer struct {
	channel Channel
	config  Config

	// sleep waits out the settle delay after each block write
	sleep func(time.Duration)
}

// New creates a new Programmer with the given channel and options.
//
// Example:
//
//	dev, err := usb.Open(protocol.DefaultVendorID, protocol.DefaultProductID, 0)
//	prog := bootloader.New(dev,
//	    bootloader.WithProgressCallback(progressFunc),
//	    bootloader.WithReboot(false),
//	)
func New(channel Channel, opts ...Option) *Programmer {
	if channel == nil {
		panic("channel cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		channel: channel,
		config:  cfg,
		sleep:   time.Sleep,
	}
}

// Config returns a copy of the effective configuration.
func (p *Programmer) Config() Config {
	return p.config
}

// LoadImage parses Intel-HEX from r and lays it out for space. The image is
// rejected before any device I/O if it runs past the space or into its
// reserved tail.
func (p *Programmer) LoadImage(space Space, r io.Reader) (*memory.Image, error) {
	blocks, err := ihex.Load(r)
	if err != nil {
		return nil, err
	}
	return p.layout(space, blocks)
}

// LoadFile is LoadImage for the Intel-HEX file at path.
func (p *Programmer) LoadFile(space Space, path string) (*memory.Image, error) {
	blocks, err := ihex.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	img, err := p.layout(space, blocks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func (p *Programmer) layout(space Space, blocks []ihex.Block) (*memory.Image, error) {
	img, err := memory.Build(blocks, space.Capacity, space.Limit())
	if err != nil {
		return nil, err
	}

	p.logDebug("image loaded",
		"space", space.Name,
		"blocks", len(blocks),
		"high_water_mark", img.HighWaterMark(),
	)
	return img, nil
}

// Program writes img to flash, reads it back, verifies it and reboots the
// device (unless disabled with WithReboot).
//
// Example:
//
//	img, err := prog.LoadFile(prog.Flash(), "firmware.hex")
//	res, err := prog.Program(ctx, img)
func (p *Programmer) Program(ctx context.Context, img *memory.Image) (*Result, error) {
	return p.ProgramSpace(ctx, p.Flash(), img)
}

// ProgramSpace runs the full state machine against space:
//  1. Planning: chunk [0, high-water mark) and check the signature
//  2. Writing: send every chunk in address order, padded to the block size
//  3. ReadingBack: read [0, high-water mark) again
//  4. Verifying: compare byte by byte, stopping at the first difference
//  5. Rebooting: issue REBOOT
//
// The returned Result is never nil once the run has started. Any failure
// ends the run in PhaseFailed; a failed run cannot be resumed. The context
// is checked before Writing and handed to the channel on every transfer.
// A reboot failure leaves Result.Verified set.
func (p *Programmer) ProgramSpace(ctx context.Context, space Space, img *memory.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	r := p.newRun(space)

	plan, err := p.plan(ctx, r, img)
	if err != nil {
		return r.fail(err)
	}

	r.enter(PhaseWriting)
	if err := p.writePlan(ctx, r, plan, img.Used()); err != nil {
		return r.fail(err)
	}

	return p.finish(ctx, r, img, p.config.Reboot)
}

// Verify reads space back and compares it with img without writing.
// The run goes Planning, ReadingBack, Verifying, Done.
func (p *Programmer) Verify(ctx context.Context, space Space, img *memory.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	r := p.newRun(space)

	if _, err := p.plan(ctx, r, img); err != nil {
		return r.fail(err)
	}

	return p.finish(ctx, r, img, false)
}

func (p *Programmer) plan(ctx context.Context, r *run, img *memory.Image) (Plan, error) {
	space := r.space
	hwm := img.HighWaterMark()
	r.result.HighWaterMark = hwm

	if err := space.validate(); err != nil {
		return Plan{}, err
	}
	if hwm == 0 {
		return Plan{}, &PlanError{Kind: ErrEmptyImage, Space: space.Name, HighWaterMark: hwm, Limit: space.Limit()}
	}
	if hwm > space.Limit() {
		return Plan{}, &PlanError{Kind: ErrImageTooLarge, Space: space.Name, HighWaterMark: hwm, Limit: space.Limit()}
	}

	plan := NewPlan(hwm, space.WriteBlockSize)
	p.logDebug("transfer plan",
		"space", space.Name,
		"high_water_mark", hwm,
		"block_size", plan.BlockSize,
		"chunks", len(plan.Chunks),
	)

	if p.config.CheckSignature {
		if _, err := p.Identify(ctx); err != nil {
			return Plan{}, err
		}
	}

	if err := ctx.Err(); err != nil {
		return Plan{}, fmt.Errorf("cancelled: %w", err)
	}

	return plan, nil
}

func (p *Programmer) writePlan(ctx context.Context, r *run, plan Plan, image []byte) error {
	space := r.space
	total := plan.WireBytes()

	for _, c := range plan.Chunks {
		buf := plan.Payload(image, c)
		addr := uint16(c.Offset)

		n, err := p.channel.WriteBlock(ctx, space.WriteRequest, addr, buf)
		if err != nil {
			return &TransportError{Op: ErrWrite, Request: space.WriteRequest, Address: addr,
				Requested: len(buf), Transferred: n, Err: err}
		}
		if n != len(buf) {
			return &TransportError{Op: ErrWrite, Request: space.WriteRequest, Address: addr,
				Requested: len(buf), Transferred: n, Err: ErrShortTransfer}
		}

		p.sleep(p.config.WriteDelay)

		r.result.Chunks++
		r.result.BytesWritten += n
		r.progress(r.result.BytesWritten, total)
	}

	return nil
}

// finish runs ReadingBack, Verifying and optionally Rebooting.
func (p *Programmer) finish(ctx context.Context, r *run, img *memory.Image, reboot bool) (*Result, error) {
	hwm := img.HighWaterMark()

	r.enter(PhaseReadingBack)
	actual, err := p.readRange(ctx, r.space, 0, hwm, ErrReadBack, r.progress)
	if err != nil {
		return r.fail(err)
	}

	r.enter(PhaseVerifying)
	if err := compareImages(img.Used(), actual, hwm); err != nil {
		return r.fail(err)
	}
	r.result.Verified = true

	if !reboot {
		return r.done()
	}

	r.enter(PhaseRebooting)
	if err := p.Reboot(ctx); err != nil {
		return r.fail(err)
	}
	r.result.Rebooted = true

	return r.done()
}

// compareImages checks [0, n) of both buffers and reports the first
// difference. Bytes at or past n are ignored.
func compareImages(expected, actual []byte, n int) error {
	for i := 0; i < n; i++ {
		if expected[i] != actual[i] {
			return &VerifyMismatchError{Index: i, Expected: expected[i], Actual: actual[i]}
		}
	}
	return nil
}

// reportProgress calls the progress callback if configured.
func (p *Programmer) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}

