package ext4

import (
	"github.com/enoly/ext3FileRecovery/backend"
	"github.com/sirupsen/logrus"
)

// Engine is the read-only entry point into a mounted-or-not ext3/ext4
// image: it owns the parsed geometry and, when the journal itself is
// readable, a completed journal scan. It exposes the operations a driver
// needs without taking on any argument parsing or output formatting
// itself.
type Engine struct {
	Storage   backend.Storage
	Geometry  *Geometry
	Journal   []Record
	JournalSB *JournalSuperblock
	Log       *logrus.Entry

	// JournalErr is set when the journal could not be fetched or scanned.
	// Geometry-only operations (Inode, fs/inode CLI subcommands,
	// DeletedFiles) remain usable; anything that needs the journal
	// (Recover, InodeFromJournal, JournalBlock) fails with this error.
	JournalErr error
}

// Open parses the super-block and group descriptor table out of storage;
// either failing is fatal and aborts construction, since nothing else can
// work without them. The journal is then fetched and scanned on a
// best-effort basis: a damaged or missing journal does not abort Open, it
// is recorded on Engine.JournalErr (as a *Error of KindJournalDamaged) so a
// driver can still list deleted files and inspect inodes, and report the
// journal failure only when something actually needed the journal.
func Open(storage backend.Storage, log *logrus.Logger) (*Engine, error) {
	if log == nil {
		log = logrus.New()
	}
	entry := log.WithField("component", "ext4")

	reader := newBlockReader(storage)
	geometry, err := OpenGeometry(reader)
	if err != nil {
		return nil, err
	}

	if sectorSize, sErr := backend.LogicalSectorSize(storage); sErr == nil && sectorSize > 0 {
		entry = entry.WithField("logicalSectorSize", sectorSize)
	}
	entry.WithFields(logrus.Fields{
		"blockSize":  geometry.SB.BlockSize,
		"groupCount": geometry.SB.GroupCount(),
	}).Debug("parsed geometry")

	eng := &Engine{Storage: storage, Geometry: geometry, Log: entry}

	journalInode, err := FetchInode(geometry, geometry.SB.JournalInode)
	if err != nil {
		eng.JournalErr = wrapErr(KindJournalDamaged, "Open", err)
		entry.WithError(eng.JournalErr).Warn("journal inode unreadable; journal-dependent operations disabled")
		return eng, nil
	}
	records, err := ScanJournal(geometry, journalInode.Blocks)
	if err != nil {
		eng.JournalErr = err
		entry.WithError(err).Warn("journal scan failed; journal-dependent operations disabled")
		return eng, nil
	}
	entry.WithField("records", len(records)).Debug("scanned journal")
	eng.Journal = records

	if len(records) > 0 && records[0].Kind == RecordSuperblock {
		if sb, sbErr := ParseJournalSuperblock(records[0].Raw); sbErr == nil {
			eng.JournalSB = sb
		}
	}

	return eng, nil
}

// Inode fetches and fully resolves a single inode from the live filesystem.
func (e *Engine) Inode(num uint32) (*Inode, error) {
	return FetchInode(e.Geometry, num)
}

// InodeFromJournal reconstitutes an inode as it appeared at journal
// position idx. It fails with JournalErr if Open could not scan the
// journal at all.
func (e *Engine) InodeFromJournal(num uint32, idx int) (*Inode, error) {
	if e.JournalErr != nil {
		return nil, e.JournalErr
	}
	if idx < 0 || idx >= len(e.Journal) || e.Journal[idx].Raw == nil {
		return nil, wrapErr(KindFormat, "InodeFromJournal", errBadGroup)
	}
	return FetchFromJournalPage(e.Geometry, num, e.Journal[idx].Raw)
}

// JournalBlock returns the raw bytes of the journal page at position idx.
// It fails with JournalErr if Open could not scan the journal at all.
func (e *Engine) JournalBlock(idx int) ([]byte, error) {
	if e.JournalErr != nil {
		return nil, e.JournalErr
	}
	if idx < 0 || idx >= len(e.Journal) {
		return nil, wrapErr(KindFormat, "JournalBlock", errBadGroup)
	}
	return e.Journal[idx].Raw, nil
}

// DeletedFiles enumerates every tombstoned regular file reachable from the
// root directory. This only walks live directory blocks and never touches
// the journal, so it remains usable even when JournalErr is set.
func (e *Engine) DeletedFiles() ([]DeletedFile, error) {
	return EnumerateDeleted(e.Geometry, RootInode)
}

// Recover attempts to reconstitute one deleted file's bytes. It fails with
// JournalErr, without attempting a live-inode fallback, if Open could not
// scan the journal at all -- RecoverOne's own "no match" fallback is for
// a readable-but-non-matching journal, a different case.
func (e *Engine) Recover(file DeletedFile) (*Recovered, error) {
	if e.JournalErr != nil {
		return nil, e.JournalErr
	}
	return RecoverOne(e.Geometry, e.Journal, file)
}
