package ext4

import (
	"io"
	"io/fs"
	"os"

	"github.com/enoly/ext3FileRecovery/backend"
)

// memStorage is an in-memory backend.Storage over a byte buffer, used to
// exercise decode logic against hand-built images without touching disk.
type memStorage struct {
	data []byte
	pos  int64
}

var _ backend.Storage = (*memStorage)(nil)

func newMemStorage(data []byte) *memStorage {
	return &memStorage{data: data}
}

func (m *memStorage) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memStorage) Read(p []byte) (int, error) {
	n, err := m.ReadAt(p, m.pos)
	m.pos += int64(n)
	return n, err
}

func (m *memStorage) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.data)) + offset
	}
	return m.pos, nil
}

func (m *memStorage) Close() error { return nil }

func (m *memStorage) Stat() (fs.FileInfo, error) { return nil, backend.ErrNotSuitable }

func (m *memStorage) Sys() (*os.File, error) { return nil, backend.ErrNotSuitable }

// growBuffer pads or truncates buf to exactly n bytes.
func growBuffer(buf []byte, n int) []byte {
	if len(buf) >= n {
		return buf[:n]
	}
	out := make([]byte, n)
	copy(out, buf)
	return out
}

func withBytesAt(total int, at int, b []byte) []byte {
	out := make([]byte, total)
	copy(out[at:], b)
	return out
}
