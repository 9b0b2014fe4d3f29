//go:build !linux

package softusb

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by OpenSystem on platforms without a softusb
// host HAL.
var ErrUnsupported = errors.New("softusb backend is only available on linux")

// OpenSystem is not supported on this platform.
func OpenSystem(ctx context.Context, vid, pid uint16) (*Device, error) {
	return nil, ErrUnsupported
}
