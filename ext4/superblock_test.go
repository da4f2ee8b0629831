package ext4

import (
	"encoding/binary"
	"testing"
)

// buildSuperblock returns a 4096-byte block-0 image with a super-block
// written at its canonical 1024-byte offset.
func buildSuperblock(t *testing.T, fields map[string]uint32) []byte {
	t.Helper()
	block := make([]byte, defaultBlockSize)
	sb := block[superblockOffset : superblockOffset+superblockRawSize]

	put32 := func(start int, v uint32) { binary.LittleEndian.PutUint32(sb[start:start+4], v) }
	put16 := func(start int, v uint16) { binary.LittleEndian.PutUint16(sb[start:start+2], v) }

	put32(0, fields["inodeCount"])
	put32(4, fields["blockCount"])
	put32(12, fields["freeBlocks"])
	put32(16, fields["freeInodes"])
	put32(20, fields["firstDataBlock"])
	put32(24, fields["logBlockSize"])
	put32(32, fields["blocksPerGroup"])
	put32(40, fields["inodesPerGroup"])
	put16(88, uint16(fields["inodeSize"]))
	put32(224, fields["journalInode"])

	return block
}

func TestParseSuperblock(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]uint32
		wantErr bool
		check   func(*Superblock)
	}{
		{
			name: "typical 4k filesystem",
			fields: map[string]uint32{
				"inodeCount":     128,
				"blockCount":     1024,
				"freeBlocks":     900,
				"freeInodes":     100,
				"firstDataBlock": 1,
				"logBlockSize":   2,
				"blocksPerGroup": 8192,
				"inodesPerGroup": 128,
				"inodeSize":      256,
				"journalInode":   8,
			},
			check: func(sb *Superblock) {
				if sb.BlockSize != 4096 {
					t.Errorf("BlockSize = %d, want 4096 (1024 << 2)", sb.BlockSize)
				}
				if sb.JournalInode != 8 {
					t.Errorf("JournalInode = %d, want 8", sb.JournalInode)
				}
				if sb.InodesPerBlock() != 16 {
					t.Errorf("InodesPerBlock() = %d, want 16", sb.InodesPerBlock())
				}
			},
		},
		{
			name: "zero block size is rejected",
			fields: map[string]uint32{
				// 1024 << 22 overflows the uint32 block size to 0.
				"logBlockSize":   22,
				"blockCount":     1024,
				"blocksPerGroup": 8192,
				"inodesPerGroup": 128,
				"inodeSize":      256,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMemStorage(buildSuperblock(t, tt.fields))
			reader := newBlockReader(storage)

			sb, err := ParseSuperblock(reader)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSuperblock() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.check != nil {
				tt.check(sb)
			}
		})
	}
}

func TestGroupCountRoundsUp(t *testing.T) {
	sb := &Superblock{BlockCount: 100, BlocksPerGroup: 30}
	if got := sb.GroupCount(); got != 4 {
		t.Errorf("GroupCount() = %d, want 4", got)
	}
}
