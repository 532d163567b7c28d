//go:build !unix

package vfs

// FreeSpace is unreported on platforms without a statfs binding; zero means
// unknown, not full.
func (h *HostBackend) FreeSpace() (uint64, *Error) {
	return 0, nil
}
