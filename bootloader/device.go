package bootloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/moffa90/go-ubaboot/ihex"
	"github.com/moffa90/go-ubaboot/memory"
	"github.com/moffa90/go-ubaboot/protocol"
)

// PhaseReading labels progress reports of Read and Dump. It is not part of
// the run state machine.
const PhaseReading Phase = "reading"

// DumpOptions controls Dump.
type DumpOptions struct {
	// Start is the first address to read
	Start int

	// Count is the number of bytes to read; 0 reads to the end of the space
	Count int

	// TrimErased drops trailing 0xFF bytes before encoding
	TrimErased bool
}

// Identify reads the device signature and checks it against the configured
// one. On mismatch the signature is returned with a *DeviceMismatchError.
func (p *Programmer) Identify(ctx context.Context) (protocol.Signature, error) {
	buf := make([]byte, protocol.SignatureSize)
	if err := p.readFixed(ctx, protocol.ReqGetSignature, buf); err != nil {
		return 0, err
	}

	sig, err := protocol.ParseSignature(buf)
	if err != nil {
		return 0, err
	}

	p.logDebug("device signature", "signature", sig.String())

	if sig != p.config.Signature {
		return sig, &DeviceMismatchError{
			Expected: uint32(p.config.Signature),
			Actual:   uint32(sig),
		}
	}
	return sig, nil
}

// ReadFuses reads the fuse and lock bytes.
func (p *Programmer) ReadFuses(ctx context.Context) (protocol.Fuses, error) {
	buf := make([]byte, protocol.FusesSize)
	if err := p.readFixed(ctx, protocol.ReqGetLock, buf); err != nil {
		return protocol.Fuses{}, err
	}

	fuses, err := protocol.ParseFuses(buf)
	if err != nil {
		return protocol.Fuses{}, err
	}

	p.logDebug("fuses", "fuses", fuses.String())
	return fuses, nil
}

// Reboot asks the bootloader to start the application.
func (p *Programmer) Reboot(ctx context.Context) error {
	if _, err := p.channel.SendCommand(ctx, protocol.ReqReboot); err != nil {
		return &TransportError{Op: ErrReboot, Request: protocol.ReqReboot, Err: err}
	}
	p.logInfo("reboot requested")
	return nil
}

// Read returns count bytes of space starting at start, fetched in
// space.ReadBlockSize requests. A space with unusable geometry fails with
// ErrBadGeometry before any transfer.
func (p *Programmer) Read(ctx context.Context, space Space, start, count int) ([]byte, error) {
	if err := space.validate(); err != nil {
		return nil, err
	}
	if start < 0 || count < 0 || start+count > space.Capacity {
		return nil, &memory.BoundsError{
			Kind:    memory.ErrOutOfBounds,
			Address: start,
			End:     start + count,
			Limit:   space.Capacity,
		}
	}

	begin := time.Now()
	return p.readRange(ctx, space, start, count, ErrRead, func(done, total int) {
		p.reportProgress(Progress{
			Phase:      PhaseReading,
			Space:      space.Name,
			Done:       done,
			Total:      total,
			Percentage: float64(done) / float64(total) * 100,
			Elapsed:    time.Since(begin),
		})
	})
}

// Dump reads a range of space and writes it to w as Intel-HEX: 16-byte data
// records followed by an end-of-file record. It returns the number of bytes
// encoded.
//
// Example:
//
//	n, err := prog.Dump(ctx, prog.Flash(), os.Stdout, bootloader.DumpOptions{TrimErased: true})
func (p *Programmer) Dump(ctx context.Context, space Space, w io.Writer, opts DumpOptions) (int, error) {
	count := opts.Count
	if count == 0 {
		count = space.Capacity - opts.Start
	}

	data, err := p.Read(ctx, space, opts.Start, count)
	if err != nil {
		return 0, err
	}

	n := len(data)
	if opts.TrimErased {
		n = memory.FromBytes(data).TrimmedLength()
	}

	if err := ihex.Encode(w, uint16(opts.Start), data[:n]); err != nil {
		return 0, fmt.Errorf("encode %s dump: %w", space.Name, err)
	}

	p.logInfo("dump complete",
		"space", space.Name,
		"start", opts.Start,
		"read", len(data),
		"encoded", n,
	)
	return n, nil
}

// readRange reads [start, start+count) in read-block-sized requests. Short
// reads and transport errors are reported as op.
func (p *Programmer) readRange(ctx context.Context, space Space, start, count int, op error,
	progress func(done, total int)) ([]byte, error) {
	out := make([]byte, count)
	block := space.ReadBlockSize

	for off := 0; off < count; off += block {
		n := min(block, count-off)
		addr := uint16(start + off)

		got, err := p.channel.ReadBlock(ctx, space.ReadRequest, addr, out[off:off+n])
		if err != nil {
			return nil, &TransportError{Op: op, Request: space.ReadRequest, Address: addr,
				Requested: n, Transferred: got, Err: err}
		}
		if got != n {
			return nil, &TransportError{Op: op, Request: space.ReadRequest, Address: addr,
				Requested: n, Transferred: got, Err: ErrShortTransfer}
		}

		if progress != nil {
			progress(off+n, count)
		}
	}

	return out, nil
}

// readFixed performs a single read that must fill buf.
func (p *Programmer) readFixed(ctx context.Context, request byte, buf []byte) error {
	n, err := p.channel.ReadBlock(ctx, request, 0, buf)
	if err != nil {
		return &TransportError{Op: ErrRead, Request: request, Requested: len(buf), Transferred: n, Err: err}
	}
	if n != len(buf) {
		return &TransportError{Op: ErrRead, Request: request, Requested: len(buf), Transferred: n, Err: ErrShortTransfer}
	}
	return nil
}
