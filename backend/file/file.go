// Package file adapts an on-disk path -- a raw block device or a disk image
// file -- into a backend.Storage.
package file

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/enoly/ext3FileRecovery/backend"
)

type rawBackend struct {
	storage fs.File
}

// New wraps an already-open fs.File as a backend.Storage.
func New(f fs.File) backend.Storage {
	return rawBackend{storage: f}
}

// OpenFromPath opens a device or image file read-only. pathName should be a
// path to a block device, e.g. /dev/sda, or to a disk image file. The tool
// never opens a device for writing: recovery is read-only end to end.
func OpenFromPath(pathName string) (backend.Storage, error) {
	if pathName == "" {
		return nil, errors.New("must pass a device or file path")
	}
	if _, err := os.Stat(pathName); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s does not exist", pathName)
	}

	f, err := os.OpenFile(pathName, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("could not open %s read-only: %w", pathName, err)
	}

	return rawBackend{storage: f}, nil
}

var _ backend.Storage = rawBackend{}

// Sys returns the OS-specific file for ioctl calls via fd.
func (f rawBackend) Sys() (*os.File, error) {
	if osFile, ok := f.storage.(*os.File); ok {
		return osFile, nil
	}
	return nil, backend.ErrNotSuitable
}

func (f rawBackend) Stat() (fs.FileInfo, error) {
	return f.storage.Stat()
}

func (f rawBackend) Read(b []byte) (int, error) {
	return f.storage.Read(b)
}

func (f rawBackend) Close() error {
	return f.storage.Close()
}

func (f rawBackend) ReadAt(p []byte, off int64) (int, error) {
	if readerAt, ok := f.storage.(io.ReaderAt); ok {
		return readerAt.ReadAt(p, off)
	}
	return -1, backend.ErrNotSuitable
}

func (f rawBackend) Seek(offset int64, whence int) (int64, error) {
	if seeker, ok := f.storage.(io.Seeker); ok {
		return seeker.Seek(offset, whence)
	}
	return -1, backend.ErrNotSuitable
}
