// Package backend provides the read-only, seekable byte source that the
// rest of the recovery engine is built on top of. It is the thinnest layer
// in the module: everything above it only ever asks for bytes at an offset.
package backend

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrNotSuitable is returned when the underlying storage does not support
// an operation a caller needs, e.g. no *os.File behind it for ioctls.
var ErrNotSuitable = errors.New("backing file is not suitable")

// File is a read-only, randomly-addressable byte source. A raw device path
// and a plain disk image file both satisfy it the same way.
type File interface {
	fs.File
	io.ReaderAt
	io.Seeker
	io.Closer
}

// Storage is a File with access to the OS-specific handle behind it, for
// callers that need to issue ioctls (e.g. to size a block device).
type Storage interface {
	File
	// Sys returns the backing *os.File, or ErrNotSuitable if there is none.
	Sys() (*os.File, error)
}

// DeviceType distinguishes a disk image file from an actual block device.
type DeviceType int

const (
	DeviceTypeUnknown DeviceType = iota
	DeviceTypeFile
	DeviceTypeBlockDevice
)

// DetermineDeviceType inspects the mode of an open file to classify it.
func DetermineDeviceType(f fs.File) (DeviceType, error) {
	info, err := f.Stat()
	if err != nil {
		return DeviceTypeUnknown, fmt.Errorf("could not stat device: %w", err)
	}
	mode := info.Mode()
	switch {
	case mode.IsRegular():
		return DeviceTypeFile, nil
	case mode&os.ModeDevice != 0:
		return DeviceTypeBlockDevice, nil
	default:
		return DeviceTypeUnknown, fmt.Errorf("%s is neither a regular file nor a block device", info.Name())
	}
}
