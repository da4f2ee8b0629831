package ext4

import (
	"encoding/binary"
	"testing"
)

const testJournalBlockSize = 128

func putJournalHeader(buf []byte, blockType journalBlockType, sequence uint32) {
	binary.BigEndian.PutUint32(buf[0:4], journalMagic)
	binary.BigEndian.PutUint32(buf[4:8], uint32(blockType))
	binary.BigEndian.PutUint32(buf[8:12], sequence)
}

func putDescriptorTag(buf []byte, offset int, block uint32, flags journalBlockType) int {
	binary.BigEndian.PutUint32(buf[offset:offset+4], block)
	binary.BigEndian.PutUint32(buf[offset+4:offset+8], uint32(flags))
	if flags&tagFlagSameUUID != 0 {
		return offset + tagShortStride
	}
	return offset + tagLongStride
}

func TestParseDescriptorTagsStopsAtLastFlag(t *testing.T) {
	buf := make([]byte, testJournalBlockSize)
	off := 12
	off = putDescriptorTag(buf, off, 100, tagFlagSameUUID)
	off = putDescriptorTag(buf, off, 200, tagFlagSameUUID)
	_ = putDescriptorTag(buf, off, 300, tagFlagSameUUID|tagFlagLast)

	blocks := parseDescriptorTags(buf)

	want := []uint32{100, 200, 300}
	if len(blocks) != len(want) {
		t.Fatalf("parseDescriptorTags() = %v, want %v", blocks, want)
	}
	for i := range want {
		if blocks[i] != want[i] {
			t.Errorf("blocks[%d] = %d, want %d", i, blocks[i], want[i])
		}
	}
}

func TestParseDescriptorTagsLongStride(t *testing.T) {
	buf := make([]byte, testJournalBlockSize)
	off := 12
	off = putDescriptorTag(buf, off, 5, 0)
	_ = putDescriptorTag(buf, off, 6, tagFlagLast)

	blocks := parseDescriptorTags(buf)
	if len(blocks) != 2 || blocks[0] != 5 || blocks[1] != 6 {
		t.Errorf("parseDescriptorTags() = %v, want [5 6]", blocks)
	}
}

// buildJournalPages lays out a journal inode's data as a sequence of pages:
// a descriptor naming two shadowed blocks, their two data pages, and a
// commit. Returns the raw page bytes in order.
func buildJournalPages(t *testing.T) [][]byte {
	t.Helper()

	descriptor := make([]byte, testJournalBlockSize)
	putJournalHeader(descriptor, journalBlockDescriptor, 7)
	off := 12
	off = putDescriptorTag(descriptor, off, 500, tagFlagSameUUID)
	_ = putDescriptorTag(descriptor, off, 600, tagFlagSameUUID|tagFlagLast)

	data1 := make([]byte, testJournalBlockSize)
	for i := range data1 {
		data1[i] = 0xAA
	}
	data2 := make([]byte, testJournalBlockSize)
	for i := range data2 {
		data2[i] = 0xBB
	}

	commit := make([]byte, testJournalBlockSize)
	putJournalHeader(commit, journalBlockCommit, 7)

	return [][]byte{descriptor, data1, data2, commit}
}

func TestScanJournalAssociatesDataPositions(t *testing.T) {
	pages := buildJournalPages(t)

	// Block 0 stays empty: a zero block number is "no block" to ScanJournal,
	// so the pages live at physical blocks 1..4.
	image := make([]byte, testJournalBlockSize, (len(pages)+1)*testJournalBlockSize)
	for _, p := range pages {
		image = append(image, p...)
	}
	storage := newMemStorage(image)
	reader := newBlockReader(storage)
	reader.setBlockSize(testJournalBlockSize)
	geometry := &Geometry{reader: reader}

	journalBlocks := []uint32{1, 2, 3, 4}
	records, err := ScanJournal(geometry, journalBlocks)
	if err != nil {
		t.Fatalf("ScanJournal() error = %v", err)
	}

	if records[0].Kind != RecordDescriptor {
		t.Fatalf("records[0].Kind = %v, want Descriptor", records[0].Kind)
	}
	wantShadowed := []uint32{500, 600}
	if len(records[0].ShadowedBlocks) != 2 || records[0].ShadowedBlocks[0] != wantShadowed[0] || records[0].ShadowedBlocks[1] != wantShadowed[1] {
		t.Errorf("ShadowedBlocks = %v, want %v", records[0].ShadowedBlocks, wantShadowed)
	}
	wantPositions := []int{1, 2}
	if len(records[0].DataPositions) != 2 || records[0].DataPositions[0] != wantPositions[0] || records[0].DataPositions[1] != wantPositions[1] {
		t.Errorf("DataPositions = %v, want %v", records[0].DataPositions, wantPositions)
	}

	if records[1].Kind != RecordData || records[2].Kind != RecordData {
		t.Errorf("records[1], records[2] kinds = %v, %v, want Data, Data", records[1].Kind, records[2].Kind)
	}
	if records[3].Kind != RecordCommit {
		t.Errorf("records[3].Kind = %v, want Commit", records[3].Kind)
	}
}
