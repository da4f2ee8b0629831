//go:build windows

package backend

// LogicalSectorSize is unsupported on this platform; the super-block's own
// block size remains authoritative regardless.
func LogicalSectorSize(s Storage) (int, error) {
	return 0, nil
}
