package memory

import (
	"errors"
	"fmt"
)

// Bounds error kinds.
var (
	ErrOutOfBounds       = errors.New("write exceeds flash capacity")
	ErrBootloaderOverlap = errors.New("image overlaps bootloader region")
)

// BoundsError indicates that an image does not fit the target.
type BoundsError struct {
	// Kind is ErrOutOfBounds or ErrBootloaderOverlap
	Kind error

	// Address and End delimit the offending range [Address, End)
	Address int
	End     int

	// Limit is the capacity or reserved start that was crossed
	Limit int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%v: range 0x%04X-0x%04X crosses limit 0x%04X",
		e.Kind, e.Address, e.End, e.Limit)
}

func (e *BoundsError) Unwrap() error {
	return e.Kind
}
