package ext4

import (
	"fmt"

	"github.com/enoly/ext3FileRecovery/backend"
)

// defaultBlockSize is used to fetch the first block, before the super-block
// has been parsed and the image's real block size is known.
const defaultBlockSize = 4096

// blockReader performs random-access, fixed-size block reads against a
// backend.Storage. It has no notion of the filesystem above it; Superblock,
// GroupDescriptor, Inode and Journal all read their raw bytes through one.
type blockReader struct {
	storage   backend.Storage
	blockSize int
}

// newBlockReader builds a reader using defaultBlockSize, suitable only for
// reading the super-block itself.
func newBlockReader(s backend.Storage) *blockReader {
	return &blockReader{storage: s, blockSize: defaultBlockSize}
}

// setBlockSize switches the reader to the filesystem's real block size,
// once it has been read out of the super-block.
func (r *blockReader) setBlockSize(size int) {
	r.blockSize = size
}

// ReadBlock returns the raw bytes of block number n.
func (r *blockReader) ReadBlock(n uint64) ([]byte, error) {
	return r.ReadAt(int64(n)*int64(r.blockSize), r.blockSize)
}

// ReadAt returns length bytes starting at byte offset off.
func (r *blockReader) ReadAt(off int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	got, err := r.storage.ReadAt(buf, off)
	if err != nil {
		return nil, wrapErr(KindIO, "blockReader.ReadAt", fmt.Errorf("offset %d length %d: %w", off, length, err))
	}
	return buf[:got], nil
}

// ReadBlocks concatenates the raw bytes of a run of consecutive block
// numbers, in the order given.
func (r *blockReader) ReadBlocks(ns []uint32) ([]byte, error) {
	out := make([]byte, 0, len(ns)*r.blockSize)
	for _, n := range ns {
		b, err := r.ReadBlock(uint64(n))
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}
