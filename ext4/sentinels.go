package ext4

import "errors"

var (
	errShortBuffer  = errors.New("buffer shorter than structure requires")
	errZeroGeometry = errors.New("block size, blocks per group, inodes per group or inode size is zero")
	errInvalidInode = errors.New("inode number is zero or exceeds inode count")
	errBadGroup     = errors.New("block group index out of range")
	errBadMagic     = errors.New("bad magic number")
)
