package bootloader

import (
	"bytes"

	"github.com/moffa90/go-ubaboot/protocol"
)

// Chunk is one write transfer of a plan. Length counts image bytes; the
// transfer itself is always the plan's block size.
type Chunk struct {
	Offset int
	Length int
}

// Plan partitions [0, HighWaterMark) into fixed-size write chunks in
// increasing address order.
type Plan struct {
	HighWaterMark int
	BlockSize     int
	Chunks        []Chunk
}

// NewPlan builds the chunk list for highWaterMark bytes. Every chunk but
// the last covers exactly blockSize bytes.
func NewPlan(highWaterMark, blockSize int) Plan {
	plan := Plan{HighWaterMark: highWaterMark, BlockSize: blockSize}
	if blockSize <= 0 {
		return plan
	}

	for off := 0; off < highWaterMark; off += blockSize {
		n := blockSize
		if off+n > highWaterMark {
			n = highWaterMark - off
		}
		plan.Chunks = append(plan.Chunks, Chunk{Offset: off, Length: n})
	}
	return plan
}

// Payload returns the bytes sent for c: the image bytes followed by
// protocol.ErasedByte up to the block size.
func (pl Plan) Payload(image []byte, c Chunk) []byte {
	buf := bytes.Repeat([]byte{protocol.ErasedByte}, pl.BlockSize)
	copy(buf, image[c.Offset:c.Offset+c.Length])
	return buf
}

// WireBytes returns the total bytes the plan puts on the wire.
func (pl Plan) WireBytes() int {
	return len(pl.Chunks) * pl.BlockSize
}
