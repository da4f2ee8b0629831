package ext4

import (
	"encoding/binary"
	"testing"

	"github.com/sirupsen/logrus"
)

// buildEngineImage builds a minimal on-disk image, block size 4096, with one
// block group (inode table at block 5), a root directory inode (2) whose
// sole data block (10) holds nothing but a whole-block terminator record,
// and journalInode deliberately set to 0 -- an inode number Locate rejects
// outright, simulating an unreadable journal inode without needing a
// second, separately broken fixture.
func buildEngineImage(t *testing.T) []byte {
	t.Helper()
	const blockSize = 4096

	sbFields := map[string]uint32{
		"inodeCount":     8,
		"blockCount":     1000,
		"firstDataBlock": 0,
		"logBlockSize":   uint32(logOf(blockSize)),
		"blocksPerGroup": 8192,
		"inodesPerGroup": 8,
		"inodeSize":      128,
		"journalInode":   0,
	}
	block0 := growBuffer(buildSuperblock(t, sbFields), blockSize)

	gd := make([]byte, blockSize)
	binary.LittleEndian.PutUint32(gd[8:12], 5) // inodeTable

	image := make([]byte, blockSize*11)
	copy(image[0:], block0)
	copy(image[blockSize:], gd)

	// Root inode (2): group 0, slot 1 (offsetInGroup = 1), at inode table
	// block 5, byte offset 1*inodeSize = 128 within that block.
	inodeTableBlock := image[5*blockSize : 6*blockSize]
	rootRecord := inodeTableBlock[128:256]
	binary.LittleEndian.PutUint32(rootRecord[40:44], 10) // directBlocks[0]

	// Directory block 10: one record spanning the whole block with an
	// empty name, parseDirectoryBlock's terminator case.
	dirBlock := image[10*blockSize : 11*blockSize]
	binary.LittleEndian.PutUint16(dirBlock[4:6], uint16(blockSize)) // recordLen

	return image
}

func TestOpenSurvivesUnreadableJournal(t *testing.T) {
	storage := newMemStorage(buildEngineImage(t))

	eng, err := Open(storage, logrus.New())
	if err != nil {
		t.Fatalf("Open() error = %v, want nil (journal failure must not abort construction)", err)
	}
	if eng.JournalErr == nil {
		t.Fatalf("Open() JournalErr = nil, want a recorded journal failure")
	}
	if !IsKind(eng.JournalErr, KindJournalDamaged) {
		t.Errorf("Open() JournalErr kind = %v, want KindJournalDamaged", eng.JournalErr)
	}

	if _, err := eng.DeletedFiles(); err != nil {
		t.Errorf("DeletedFiles() error = %v, want nil: it must work without a journal", err)
	}
	if _, err := eng.Inode(2); err != nil {
		t.Errorf("Inode(2) error = %v, want nil: it must work without a journal", err)
	}

	if _, err := eng.Recover(DeletedFile{Entry: DirectoryEntry{Inode: 2}}); err != eng.JournalErr {
		t.Errorf("Recover() error = %v, want eng.JournalErr", err)
	}
	if _, err := eng.InodeFromJournal(2, 0); err != eng.JournalErr {
		t.Errorf("InodeFromJournal() error = %v, want eng.JournalErr", err)
	}
	if _, err := eng.JournalBlock(0); err != eng.JournalErr {
		t.Errorf("JournalBlock() error = %v, want eng.JournalErr", err)
	}
}
