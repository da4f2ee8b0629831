package ext4

import "path"

// RootInode is the conventional root directory inode number on ext3/ext4.
const RootInode = 2

// DeletedFile is a tombstoned directory entry discovered during a directory
// tree walk, together with the path it was found at.
type DeletedFile struct {
	Path  string
	Entry DirectoryEntry
}

// EnumerateDeleted walks the directory tree rooted at rootInode, depth
// first, skipping "." and "..", recursing only into directories that are
// still live (a deleted directory's own children are not traversed: its
// inode may already be reused), and collecting every tombstoned regular
// file entry it finds.
func EnumerateDeleted(g *Geometry, rootInode uint32) ([]DeletedFile, error) {
	var out []DeletedFile
	if err := walkDeleted(g, rootInode, "/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walkDeleted(g *Geometry, dirInode uint32, dirPath string, out *[]DeletedFile) error {
	in, err := FetchInode(g, dirInode)
	if err != nil {
		return err
	}
	entries, err := ListDirectory(g, in)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		if e.Deleted {
			if e.FileType == FileTypeRegular {
				*out = append(*out, DeletedFile{Path: path.Join(dirPath, e.Name), Entry: e})
			}
			continue
		}
		if e.FileType == FileTypeDirectory {
			if err := walkDeleted(g, e.Inode, path.Join(dirPath, e.Name), out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Recovered is the outcome of attempting to recover one deleted file.
type Recovered struct {
	File DeletedFile
	// Data is the reconstituted file content, valid only when Recovered.
	Data []byte
	// Recovered is false when no journal snapshot yielded a usable inode;
	// LiveInode then carries whatever the live, likely-reused inode slot
	// currently holds, for diagnostics only.
	Recovered bool
	LiveInode *Inode
}

// RecoverOne attempts to reconstitute a deleted file's bytes by scanning
// the journal newest-transaction-first and using the first descriptor
// record whose shadowed blocks include the physical block that, on the
// live filesystem, holds this inode's table slot. The matched journal page
// is decoded as the inode as of that transaction, and -- provided it
// resolves to at least one data block -- its blocks (themselves read from
// the live device, since only the inode record itself is recovered from
// the journal) are concatenated into the result.
func RecoverOne(g *Geometry, records []Record, file DeletedFile) (*Recovered, error) {
	inodeBlock, _, err := g.Locate(file.Entry.Inode)
	if err != nil {
		return nil, err
	}

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.Kind != RecordDescriptor {
			continue
		}
		for shadowIdx, shadowed := range rec.ShadowedBlocks {
			if uint64(shadowed) != inodeBlock {
				continue
			}
			if shadowIdx >= len(rec.DataPositions) {
				continue
			}
			dataIdx := rec.DataPositions[shadowIdx]
			if dataIdx < 0 || dataIdx >= len(records) {
				continue
			}
			page := records[dataIdx].Raw
			if page == nil {
				continue
			}

			in, err := FetchFromJournalPage(g, file.Entry.Inode, page)
			if err != nil || len(in.Blocks) == 0 {
				continue
			}
			data, err := readInodeData(g, in)
			if err != nil {
				return nil, err
			}
			return &Recovered{File: file, Data: data, Recovered: true}, nil
		}
	}

	live, err := FetchInode(g, file.Entry.Inode)
	if err != nil {
		return nil, wrapErr(KindNotRecoverable, "RecoverOne", err)
	}
	return &Recovered{File: file, Recovered: false, LiveInode: live}, nil
}

// readInodeData reads and concatenates an inode's data blocks from the live
// device. The result is the raw block concatenation, not truncated to the
// inode's recorded size: whether to truncate is a driver-level choice.
func readInodeData(g *Geometry, in *Inode) ([]byte, error) {
	raw, err := g.reader.ReadBlocks(in.Blocks)
	if err != nil {
		return nil, wrapErr(KindIO, "readInodeData", err)
	}
	return raw, nil
}
