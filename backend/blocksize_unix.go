//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package backend

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// blksszget is the Linux ioctl request number for the logical sector size
// of a block device (BLKSSZGET).
const blksszget = 0x1268

// LogicalSectorSize returns the device's reported logical sector size via
// an ioctl, or 0 if the storage is a plain file rather than a block device.
// The recovery engine only uses this as a sanity check; the filesystem's own
// super-block block size is always authoritative.
func LogicalSectorSize(s Storage) (int, error) {
	osFile, err := s.Sys()
	if err != nil {
		return 0, nil //nolint:nilerr // not backed by an *os.File, nothing to probe
	}
	dt, err := DetermineDeviceType(osFile)
	if err != nil || dt != DeviceTypeBlockDevice {
		return 0, nil
	}
	sz, err := unix.IoctlGetInt(int(osFile.Fd()), blksszget)
	if err != nil {
		return 0, fmt.Errorf("BLKSSZGET ioctl failed: %w", err)
	}
	return sz, nil
}
