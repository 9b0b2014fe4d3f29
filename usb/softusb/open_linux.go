//go:build linux

package softusb

import (
	"context"

	"github.com/ardnew/softusb/host/hal/linux"
)

// OpenSystem opens vid:pid through the Linux usbfs host HAL.
func OpenSystem(ctx context.Context, vid, pid uint16) (*Device, error) {
	return Open(ctx, linux.NewHostHAL(), vid, pid)
}
