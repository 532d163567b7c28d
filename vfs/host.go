package vfs

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// hostReadChunk bounds a single read call. Files larger than this are pulled
// in successive slices so one transfer never exceeds the limit.
const hostReadChunk = 1 << 30

// HostBackend serves a subtree of the real file system, rooted at an
// absolute directory. Relative paths that normalize outside the root are
// refused. A HostBackend instance is not safe for concurrent use; callers
// serialize access.
type HostBackend struct {
	root string
}

var (
	_ Readable = (*HostBackend)(nil)
	_ Writable = (*HostBackend)(nil)
)

// NewHostBackend roots a backend at dir. The directory is not required to
// exist yet; reads against a missing root simply report not found.
func NewHostBackend(dir string) (*HostBackend, *Error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, NewError(CodeInvalidPath, dir)
	}
	return &HostBackend{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute root directory.
func (h *HostBackend) Root() string { return h.root }

// resolve maps a relative logical path to an absolute host path, refusing
// anything that escapes the root. Backslash input is accepted and converted.
func (h *HostBackend) resolve(rel string) (string, *Error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	full := filepath.Clean(filepath.Join(h.root, filepath.FromSlash(rel)))
	if full != h.root && !strings.HasPrefix(full, h.root+string(filepath.Separator)) {
		return "", NewError(CodeInvalidPath, rel)
	}
	return full, nil
}

func (h *HostBackend) Exists(rel string) bool {
	full, err := h.resolve(rel)
	if err != nil {
		return false
	}
	_, serr := os.Stat(full)
	return serr == nil
}

func (h *HostBackend) IsFile(rel string) bool {
	full, err := h.resolve(rel)
	if err != nil {
		return false
	}
	fi, serr := os.Stat(full)
	return serr == nil && fi.Mode().IsRegular()
}

func (h *HostBackend) IsDirectory(rel string) bool {
	full, err := h.resolve(rel)
	if err != nil {
		return false
	}
	fi, serr := os.Stat(full)
	return serr == nil && fi.IsDir()
}

func (h *HostBackend) FileSize(rel string) (int64, *Error) {
	full, err := h.resolve(rel)
	if err != nil {
		return 0, err
	}
	fi, serr := os.Stat(full)
	if serr != nil {
		return 0, WrapError(serr, rel)
	}
	return fi.Size(), nil
}

func (h *HostBackend) LastWriteTime(rel string) (time.Time, *Error) {
	full, err := h.resolve(rel)
	if err != nil {
		return time.Time{}, err
	}
	fi, serr := os.Stat(full)
	if serr != nil {
		return time.Time{}, WrapError(serr, rel)
	}
	return fi.ModTime(), nil
}

func (h *HostBackend) Open(rel string) (File, *Error) {
	full, err := h.resolve(rel)
	if err != nil {
		return nil, err
	}
	f, oerr := os.Open(full)
	if oerr != nil {
		return nil, WrapError(oerr, rel)
	}
	fi, serr := f.Stat()
	if serr != nil {
		f.Close()
		return nil, WrapError(serr, rel)
	}
	return &hostFile{f: f, size: fi.Size()}, nil
}

// Read loads the whole file, in hostReadChunk slices so a single transfer
// never exceeds the per-call limit.
func (h *HostBackend) Read(rel string) ReadResult {
	f, err := h.Open(rel)
	if err != nil {
		return ReadResult{Err: err}
	}
	defer f.Close()

	size := f.Size()
	buf := make([]byte, size)
	var off int64
	for off < size {
		n := size - off
		if n > hostReadChunk {
			n = hostReadChunk
		}
		read, rerr := f.ReadAt(buf[off:off+n], off)
		off += int64(read)
		if rerr != nil && off < size {
			return ReadResult{Err: WrapError(rerr, rel)}
		}
	}
	return ReadResult{Bytes: buf}
}

func (h *HostBackend) ListDirectory(rel string) ([]string, *Error) {
	full, err := h.resolve(rel)
	if err != nil {
		return nil, err
	}
	ents, derr := os.ReadDir(full)
	if derr != nil {
		return nil, WrapError(derr, rel)
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		names = append(names, e.Name())
	}
	return names, nil
}

func (h *HostBackend) CreateFile(rel string) *Error {
	full, err := h.resolve(rel)
	if err != nil {
		return err
	}
	f, cerr := os.Create(full)
	if cerr != nil {
		return WrapError(cerr, rel)
	}
	return WrapError(f.Close(), rel)
}

func (h *HostBackend) DeleteFile(rel string) *Error {
	full, err := h.resolve(rel)
	if err != nil {
		return err
	}
	return WrapError(os.Remove(full), rel)
}

func (h *HostBackend) Rename(oldRel, newRel string) *Error {
	oldFull, err := h.resolve(oldRel)
	if err != nil {
		return err
	}
	newFull, err := h.resolve(newRel)
	if err != nil {
		return err
	}
	return WrapError(os.Rename(oldFull, newFull), oldRel)
}

func (h *HostBackend) Write(rel string, data []byte) *Error {
	full, err := h.resolve(rel)
	if err != nil {
		return err
	}
	return WrapError(os.WriteFile(full, data, 0o644), rel)
}

func (h *HostBackend) CreateDirectory(rel string) *Error {
	full, err := h.resolve(rel)
	if err != nil {
		return err
	}
	return WrapError(os.MkdirAll(full, 0o755), rel)
}

func (h *HostBackend) RemoveDirectory(rel string) *Error {
	full, err := h.resolve(rel)
	if err != nil {
		return err
	}
	return WrapError(os.Remove(full), rel)
}

type hostFile struct {
	f    *os.File
	size int64
}

func (f *hostFile) ReadAt(p []byte, off int64) (int, error) { return f.f.ReadAt(p, off) }
func (f *hostFile) Close() error                            { return f.f.Close() }
func (f *hostFile) Size() int64                             { return f.size }
