package vfs

import "strings"

// MountTable maps mount names to storage backends and resolves logical
// paths. It is an explicit registry: construct one at startup, pass it by
// reference, tear it down with UnmountAll. Calls are expected from one
// logical thread; the table is not internally locked.
type MountTable struct {
	mounts map[string]Backend
}

// ResolvedPath pairs a borrowed backend with the normalized relative path
// inside it. Produced per Resolve call, never stored.
type ResolvedPath struct {
	Backend Backend
	Rel     string
}

// NewMountTable returns an empty table.
func NewMountTable() *MountTable {
	return &MountTable{mounts: make(map[string]Backend)}
}

// Mount binds name to backend. It fails (returns false) when the name is
// empty, exceeds MaxMountNameLen, or is already mounted; mount names are
// unique at all times. The table owns the backend from here on.
func (t *MountTable) Mount(name string, backend Backend) bool {
	if name == "" || len(name) > MaxMountNameLen || backend == nil {
		return false
	}
	if strings.ContainsAny(name, ":/\\") {
		return false
	}
	if _, exists := t.mounts[name]; exists {
		return false
	}
	t.mounts[name] = backend
	return true
}

// Unmount removes a binding. Unknown names are a no-op.
func (t *MountTable) Unmount(name string) {
	delete(t.mounts, name)
}

// UnmountAll empties the table. This is the explicit teardown path.
func (t *MountTable) UnmountAll() {
	t.mounts = make(map[string]Backend)
}

// IsMounted reports whether name is bound.
func (t *MountTable) IsMounted(name string) bool {
	_, ok := t.mounts[name]
	return ok
}

// Resolve parses and normalizes a logical path and returns the backend it
// lands on. Normalization happens here, before backend dispatch, so the
// no-escape guarantee holds uniformly for every backend type.
func (t *MountTable) Resolve(path string) (ResolvedPath, *Error) {
	mount, rel, err := Parse(path)
	if err != nil {
		return ResolvedPath{}, err
	}
	b, ok := t.mounts[mount]
	if !ok {
		return ResolvedPath{}, NewError(CodeInvalidMount, mount)
	}
	return ResolvedPath{Backend: b, Rel: rel}, nil
}

// resolveReadable is Resolve narrowed to backends that can serve contents.
func (t *MountTable) resolveReadable(path string) (Readable, string, *Error) {
	rp, err := t.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	r, ok := rp.Backend.(Readable)
	if !ok {
		return nil, "", NewError(CodeAccessDenied, path)
	}
	return r, rp.Rel, nil
}

// ReadFile reads a whole file by logical path.
func (t *MountTable) ReadFile(path string) ReadResult {
	r, rel, err := t.resolveReadable(path)
	if err != nil {
		return ReadResult{Err: err}
	}
	return r.Read(rel)
}

// ReadFileAsText reads a whole file and returns it as a string ("" on any
// failure; use ReadFile when the error matters).
func (t *MountTable) ReadFileAsText(path string) string {
	return t.ReadFile(path).Text()
}

// Exists reports whether the logical path names an existing file or
// directory on a mounted backend.
func (t *MountTable) Exists(path string) bool {
	rp, err := t.Resolve(path)
	if err != nil {
		return false
	}
	return rp.Backend.Exists(rp.Rel)
}

// FileSize returns the size of the file at the logical path.
func (t *MountTable) FileSize(path string) (int64, *Error) {
	rp, err := t.Resolve(path)
	if err != nil {
		return 0, err
	}
	return rp.Backend.FileSize(rp.Rel)
}

// ReadFileAsync resolves the path and schedules an asynchronous read.
// Resolution failures surface through the returned handle.
func (t *MountTable) ReadFileAsync(path string) *AsyncHandle {
	r, rel, err := t.resolveReadable(path)
	if err != nil {
		return failedHandle(err)
	}
	return ReadAsync(r, rel)
}
