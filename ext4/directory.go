package ext4

var directoryRecordLayout = Layout{
	{Name: "inode", Type: FieldInt, Start: 0, End: 4},
	{Name: "recordLen", Type: FieldInt, Start: 4, End: 6},
	{Name: "nameLen", Type: FieldInt, Start: 6, End: 7},
	{Name: "fileType", Type: FieldInt, Start: 7, End: 8},
}

const directoryRecordHeaderSize = 8

// FileType mirrors the ext2/3/4 directory entry file-type byte.
type FileType uint8

const (
	FileTypeUnknown FileType = iota
	FileTypeRegular
	FileTypeDirectory
	FileTypeCharDevice
	FileTypeBlockDevice
	FileTypeFIFO
	FileTypeSocket
	FileTypeSymlink
)

// DirectoryEntry is one directory record, live or tombstoned.
type DirectoryEntry struct {
	Inode    uint32
	Name     string
	FileType FileType
	// Deleted is true when this record's byte range was unreachable under
	// the record-length chain preceding it: a slot some still-live record
	// extended its recordLen over, a classic lazy-deletion tombstone.
	Deleted bool
}

// roundUp4 rounds n up to the next multiple of 4, matching the footprint a
// directory record's name actually occupies on disk regardless of its
// declared recordLen.
func roundUp4(n uint32) uint32 {
	for n%4 != 0 {
		n++
	}
	return n
}

// parseDirectoryBlock walks one directory block's records, including those
// hidden under an extended recordLen. The cursor always advances by a
// record's real footprint (header + rounded-up name), never by its stored
// recordLen; whenever the stored recordLen claims more than that footprint,
// everything up to the far end of that recordLen is a tombstoned span,
// parsed the same way until the span's end is reached.
func parseDirectoryBlock(raw []byte) []DirectoryEntry {
	var out []DirectoryEntry
	blockSize := uint32(len(raw))
	start, deletedUntil := uint32(0), uint32(0)

	for start < blockSize {
		if start+directoryRecordHeaderSize > blockSize {
			break
		}
		fields := Decode(raw[start:start+directoryRecordHeaderSize], directoryRecordLayout)
		recordLen := uint32(fields["recordLen"].Int)
		nameLen := uint32(fields["nameLen"].Int)

		nameEnd := start + directoryRecordHeaderSize + nameLen
		if nameEnd > blockSize {
			nameEnd = blockSize
		}
		name := toUTF8(raw[start+directoryRecordHeaderSize : nameEnd])

		entry := DirectoryEntry{
			Inode:    uint32(fields["inode"].Int),
			Name:     name,
			FileType: FileType(fields["fileType"].Int),
			Deleted:  deletedUntil != 0,
		}

		footprint := directoryRecordHeaderSize + roundUp4(nameLen)

		if start+footprint == deletedUntil {
			deletedUntil = 0
		}
		if footprint != recordLen {
			deletedUntil = start + recordLen
		}

		next := start + footprint

		if recordLen == 0 {
			break
		}
		if recordLen == blockSize && name == "" {
			start = next
			continue
		}
		out = append(out, entry)
		start = next
	}
	return out
}

// ListDirectory returns every entry, live and tombstoned, found across a
// directory inode's data blocks, in on-disk order.
func ListDirectory(g *Geometry, dirInode *Inode) ([]DirectoryEntry, error) {
	var out []DirectoryEntry
	for _, block := range dirInode.Blocks {
		if block == 0 {
			continue
		}
		raw, err := g.reader.ReadBlock(uint64(block))
		if err != nil {
			return nil, wrapErr(KindIO, "ListDirectory", err)
		}
		out = append(out, parseDirectoryBlock(raw)...)
	}
	return out, nil
}
