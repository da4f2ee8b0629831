package ext4

import "github.com/google/uuid"

// journalMagic identifies a jbd2 block header; journal pages are plain file
// data and will essentially never collide with it.
const journalMagic = 0xC03B3998

// journalBlockType is the jbd2 h_blocktype tag.
type journalBlockType uint32

const (
	journalBlockDescriptor   journalBlockType = 1
	journalBlockCommit       journalBlockType = 2
	journalBlockSuperblockV1 journalBlockType = 3
	journalBlockSuperblockV2 journalBlockType = 4
	journalBlockRevoke       journalBlockType = 5
)

var journalTitleLayout = Layout{
	{Name: "magic", Type: FieldInt, Start: 0, End: 4, BigEndian: true},
	{Name: "type", Type: FieldInt, Start: 4, End: 8, BigEndian: true},
	{Name: "sequence", Type: FieldInt, Start: 8, End: 12, BigEndian: true},
}

var journalTagLayout = Layout{
	{Name: "block", Type: FieldInt, Start: 0, End: 4, BigEndian: true},
	{Name: "flags", Type: FieldInt, Start: 4, End: 8, BigEndian: true},
}

const (
	tagFlagSameUUID journalBlockType = 0x2
	tagFlagLast     journalBlockType = 0x8
)

const (
	tagShortStride = 8
	tagLongStride  = 24
)

// RecordKind classifies a scanned journal block.
type RecordKind int

const (
	RecordUnknown RecordKind = iota
	RecordDescriptor
	RecordCommit
	RecordSuperblock
	RecordRevoke
	RecordData
)

func (k RecordKind) String() string {
	switch k {
	case RecordDescriptor:
		return "Descriptor"
	case RecordCommit:
		return "Commit"
	case RecordSuperblock:
		return "Superblock"
	case RecordRevoke:
		return "Revoke"
	case RecordData:
		return "Data"
	default:
		return "Unknown"
	}
}

// Record is one entry of the journal scan: one physical page of the
// journal inode, at position Index within its resolved block list.
//
// For a descriptor, ShadowedBlocks holds the physical block number each
// following data page will overwrite on commit, in order, and DataPositions
// holds the journal Index of each of those data pages -- precomputed during
// the scan so matching a physical block to its journaled snapshot never
// needs a runtime queue.
type Record struct {
	Index          int
	Kind           RecordKind
	Sequence       uint32
	PhysicalBlock  uint64
	ShadowedBlocks []uint32
	DataPositions  []int
	Raw            []byte
}

// parseDescriptorTags reads the tag list following a descriptor block's
// 12-byte header, returning the shadowed physical block number for each
// tag in order.
func parseDescriptorTags(raw []byte) []uint32 {
	var blocks []uint32
	start := 12
	for start+8 <= len(raw) {
		fields := Decode(raw[start:start+8], journalTagLayout)
		flags := journalBlockType(fields["flags"].Int)
		blocks = append(blocks, uint32(fields["block"].Int))

		if flags&tagFlagSameUUID != 0 {
			start += tagShortStride
		} else {
			start += tagLongStride
		}
		if flags&tagFlagLast != 0 {
			break
		}
	}
	return blocks
}

// ScanJournal walks the journal inode's resolved block list and classifies
// every page. Descriptor records precompute which of the pages following
// them are its shadowed data, in shadow order: each following page without
// a valid jbd2 block header (RecordData) is taken in turn, zero block
// positions are passed over, and the next typed record ends the run.
func ScanJournal(g *Geometry, journalBlocks []uint32) ([]Record, error) {
	records := make([]Record, 0, len(journalBlocks))
	kinds := make([]RecordKind, len(journalBlocks))
	raws := make([][]byte, len(journalBlocks))

	for i, block := range journalBlocks {
		if block == 0 {
			kinds[i] = RecordUnknown
			continue
		}
		raw, err := g.reader.ReadBlock(uint64(block))
		if err != nil {
			return nil, wrapErr(KindJournalDamaged, "ScanJournal", err)
		}
		raws[i] = raw

		fields := Decode(raw, journalTitleLayout)
		if fields["magic"].Int != journalMagic {
			kinds[i] = RecordData
			continue
		}
		switch journalBlockType(fields["type"].Int) {
		case journalBlockDescriptor:
			kinds[i] = RecordDescriptor
		case journalBlockCommit:
			kinds[i] = RecordCommit
		case journalBlockSuperblockV1, journalBlockSuperblockV2:
			kinds[i] = RecordSuperblock
		case journalBlockRevoke:
			kinds[i] = RecordRevoke
		default:
			kinds[i] = RecordData
		}
	}

	for i, block := range journalBlocks {
		rec := Record{Index: i, Kind: kinds[i], PhysicalBlock: uint64(block)}
		if kinds[i] != RecordUnknown {
			rec.Raw = raws[i]
		}
		if kinds[i] == RecordDescriptor {
			fields := Decode(raws[i], journalTitleLayout)
			rec.Sequence = uint32(fields["sequence"].Int)
			rec.ShadowedBlocks = parseDescriptorTags(raws[i])

			positions := make([]int, 0, len(rec.ShadowedBlocks))
			j := i + 1
			for len(positions) < len(rec.ShadowedBlocks) && j < len(journalBlocks) {
				if kinds[j] == RecordData {
					positions = append(positions, j)
				} else if kinds[j] != RecordUnknown {
					break
				}
				j++
			}
			rec.DataPositions = positions
		}
		records = append(records, rec)
	}
	return records, nil
}

// journalSuperblockLayout covers the fields a diagnostic dump needs from the
// journal's own superblock page (the page at journal block index 0, type 3
// or 4): geometry of the journal itself, plus its UUID for cross-checking
// against a filesystem-level journal device.
var journalSuperblockLayout = Layout{
	{Name: "blockSize", Type: FieldInt, Start: 12, End: 16, BigEndian: true},
	{Name: "maxLen", Type: FieldInt, Start: 16, End: 20, BigEndian: true},
	{Name: "first", Type: FieldInt, Start: 20, End: 24, BigEndian: true},
	{Name: "sequence", Type: FieldInt, Start: 24, End: 28, BigEndian: true},
	{Name: "start", Type: FieldInt, Start: 28, End: 32, BigEndian: true},
	{Name: "uuid", Type: FieldHex, Start: 48, End: 64},
}

// JournalSuperblock is the journal's own superblock record, distinct from
// the filesystem super-block: it describes the journal's own geometry.
type JournalSuperblock struct {
	BlockSize uint32
	MaxLen    uint32
	First     uint32
	Sequence  uint32
	Start     uint32
	UUID      uuid.UUID
}

// ParseJournalSuperblock decodes the journal superblock page, which lives
// at journal block index 0.
func ParseJournalSuperblock(raw []byte) (*JournalSuperblock, error) {
	fields := Decode(raw, journalTitleLayout)
	t := journalBlockType(fields["type"].Int)
	if fields["magic"].Int != journalMagic || (t != journalBlockSuperblockV1 && t != journalBlockSuperblockV2) {
		return nil, wrapErr(KindJournalDamaged, "ParseJournalSuperblock", errBadMagic)
	}

	f := Decode(raw, journalSuperblockLayout)
	id, err := uuid.FromBytes(f["uuid"].Bytes)
	if err != nil {
		id = uuid.Nil
	}

	return &JournalSuperblock{
		BlockSize: uint32(f["blockSize"].Int),
		MaxLen:    uint32(f["maxLen"].Int),
		First:     uint32(f["first"].Int),
		Sequence:  uint32(f["sequence"].Int),
		Start:     uint32(f["start"].Int),
		UUID:      id,
	}, nil
}
