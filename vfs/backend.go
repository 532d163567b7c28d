// Package vfs implements a mount-based virtual file system: logical paths of
// the form "mount:/relative/path" are resolved through a MountTable to a
// storage backend (a host directory or an in-memory byte store).
//
// Backends implement capability interfaces selectively. Callers depend on the
// narrowest capability they need:
//
//	Backend  - metadata queries (exists, size, timestamps, free space)
//	Readable - Backend plus open/read/list
//	Writable - Backend plus file and directory mutation
//
// Failures are values (*Error), never panics. Apart from MemoryBackend and
// async read handles, nothing in this package is safe for concurrent use;
// the surrounding engine is single-threaded at these call sites.
package vfs

import (
	"io"
	"time"
)

// ReadResult carries the outcome of a whole-file read. Exactly one of Bytes
// and Err is meaningful.
type ReadResult struct {
	Bytes []byte
	Err   *Error
}

// Ok reports whether the read succeeded.
func (r ReadResult) Ok() bool { return r.Err == nil }

// Text returns the payload as a string ("" on failure).
func (r ReadResult) Text() string {
	if r.Err != nil {
		return ""
	}
	return string(r.Bytes)
}

// File is an open read handle. Handles obtained from a MemoryBackend keep
// reading the byte snapshot they were opened against even if the backing
// entry is cleared or overwritten afterwards.
type File interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// Backend is the metadata capability every storage variant provides.
// Relative paths use forward slashes and never contain ".." after
// MountTable resolution.
type Backend interface {
	Exists(rel string) bool
	IsFile(rel string) bool
	IsDirectory(rel string) bool
	FileSize(rel string) (int64, *Error)
	LastWriteTime(rel string) (time.Time, *Error)
	FreeSpace() (uint64, *Error)
}

// Readable is a backend that can serve file contents.
type Readable interface {
	Backend
	Open(rel string) (File, *Error)
	Read(rel string) ReadResult
	ListDirectory(rel string) ([]string, *Error)
}

// Writable is a backend that supports mutation. Every operation returns nil
// on success or a classified *Error.
type Writable interface {
	Backend
	CreateFile(rel string) *Error
	DeleteFile(rel string) *Error
	Rename(oldRel, newRel string) *Error
	Write(rel string, data []byte) *Error
	CreateDirectory(rel string) *Error
	RemoveDirectory(rel string) *Error
}

// AsyncReadable is an optional capability: a backend with a native
// asynchronous read path. Backends without it are wrapped by ReadAsync,
// which runs the synchronous Read on a goroutine.
type AsyncReadable interface {
	NativeReadAsync(rel string) *AsyncHandle
}
