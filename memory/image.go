// Package memory lays Intel-HEX blocks into a flat buffer that mirrors a
// target memory space.
package memory

import (
	"bytes"
	"fmt"

	"github.com/moffa90/go-ubaboot/ihex"
)

// ErasedByte is the value unprogrammed flash reads as.
const ErasedByte = 0xFF

// Image is a bounds-checked buffer initialised to ErasedByte.
type Image struct {
	buf []byte
	hwm int
}

// New returns an erased image of the given capacity.
func New(capacity int) *Image {
	if capacity < 0 {
		capacity = 0
	}
	return &Image{buf: bytes.Repeat([]byte{ErasedByte}, capacity)}
}

// FromBytes wraps data read back from a device. The high-water mark is the
// full length of data.
func FromBytes(data []byte) *Image {
	return &Image{buf: data, hwm: len(data)}
}

// Build applies blocks in order to an erased image of flashSize bytes.
// Overlapping blocks are resolved last-write-wins.
//
// Bounds are checked once all blocks have been applied: the first block that
// runs past flashSize fails with ErrOutOfBounds; otherwise a high-water mark
// above reservedStart fails with ErrBootloaderOverlap. On error no image is
// returned.
func Build(blocks []ihex.Block, flashSize, reservedStart int) (*Image, error) {
	img := New(flashSize)

	var outOfBounds *BoundsError
	for _, b := range blocks {
		start, end := int(b.Address), b.End()
		if end > flashSize && outOfBounds == nil {
			outOfBounds = &BoundsError{Kind: ErrOutOfBounds, Address: start, End: end, Limit: flashSize}
		}

		if start < flashSize {
			copy(img.buf[start:], b.Data)
		}
		if end > img.hwm {
			img.hwm = end
		}
	}

	if outOfBounds != nil {
		return nil, outOfBounds
	}
	if img.hwm > reservedStart {
		return nil, &BoundsError{Kind: ErrBootloaderOverlap, Address: 0, End: img.hwm, Limit: reservedStart}
	}

	return img, nil
}

// HighWaterMark returns one past the highest address written.
func (m *Image) HighWaterMark() int {
	return m.hwm
}

// Bytes returns the whole buffer, including erased bytes past the
// high-water mark. The slice aliases the image.
func (m *Image) Bytes() []byte {
	return m.buf
}

// Used returns the bytes in [0, HighWaterMark).
func (m *Image) Used() []byte {
	return m.buf[:m.hwm]
}

// Write copies data to address and raises the high-water mark.
func (m *Image) Write(address int, data []byte) error {
	end := address + len(data)
	if address < 0 || end > len(m.buf) {
		return &BoundsError{Kind: ErrOutOfBounds, Address: address, End: end, Limit: len(m.buf)}
	}
	copy(m.buf[address:], data)
	if end > m.hwm {
		m.hwm = end
	}
	return nil
}

// TrimmedLength returns the high-water mark less any trailing ErasedByte run.
func (m *Image) TrimmedLength() int {
	n := m.hwm
	for n > 0 && m.buf[n-1] == ErasedByte {
		n--
	}
	return n
}

func (m *Image) String() string {
	return fmt.Sprintf("image %d/%d bytes", m.hwm, len(m.buf))
}
