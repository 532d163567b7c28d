//go:build unix

package vfs

import "golang.org/x/sys/unix"

// FreeSpace reports the bytes available to unprivileged callers on the
// volume holding the backend root.
func (h *HostBackend) FreeSpace() (uint64, *Error) {
	var st unix.Statfs_t
	if err := unix.Statfs(h.root, &st); err != nil {
		return 0, WrapError(err, h.root)
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
