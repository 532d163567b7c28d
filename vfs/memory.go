package vfs

import (
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/driftworks/rescache/codec"
)

// MemoryBackend is a read-only, in-process byte store. It is the one backend
// that is safe for concurrent use: the name map is guarded by a
// reader-writer lock (many readers, exclusive AddFile/Clear).
//
// Open handles hold their own reference to the byte buffer, decoupled from
// the map entry, so a Clear or overwrite racing an in-flight read never
// corrupts it: the handle keeps reading the snapshot it was given.
type MemoryBackend struct {
	mu    sync.RWMutex
	files map[string]memEntry
}

type memEntry struct {
	data  []byte
	mtime time.Time
}

var _ Readable = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{files: make(map[string]memEntry)}
}

// AddFile stores a copy of data under rel, overwriting any previous entry.
// Handles already open against the previous entry are unaffected.
func (m *MemoryBackend) AddFile(rel string, data []byte) {
	rel = memKey(rel)
	buf := make([]byte, len(data))
	copy(buf, data)
	m.mu.Lock()
	m.files[rel] = memEntry{data: buf, mtime: time.Now()}
	m.mu.Unlock()
}

// Clear drops every entry. Open handles keep their snapshots.
func (m *MemoryBackend) Clear() {
	m.mu.Lock()
	m.files = make(map[string]memEntry)
	m.mu.Unlock()
}

// Count returns the number of stored files.
func (m *MemoryBackend) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// LoadBundle decodes a serialized asset bundle and stores every member
// file. Existing entries with the same names are overwritten.
func (m *MemoryBackend) LoadBundle(data []byte, c codec.Codec[Bundle]) *Error {
	b, err := c.Decode(data)
	if err != nil {
		return &Error{Code: CodeDecode, Context: "bundle", cause: err}
	}
	for name, content := range b.Files {
		m.AddFile(name, content)
	}
	return nil
}

// Bundle is the serialized form of a packed set of files, typically encoded
// with codec.CBOR or codec.Msgpack and optionally wrapped in codec.Zstd.
type Bundle struct {
	Files map[string][]byte `cbor:"files" msgpack:"files" json:"files"`
}

func memKey(rel string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	return strings.Trim(rel, "/")
}

func (m *MemoryBackend) lookup(rel string) (memEntry, bool) {
	m.mu.RLock()
	e, ok := m.files[memKey(rel)]
	m.mu.RUnlock()
	return e, ok
}

func (m *MemoryBackend) Exists(rel string) bool {
	_, ok := m.lookup(rel)
	return ok || m.IsDirectory(rel)
}

func (m *MemoryBackend) IsFile(rel string) bool {
	_, ok := m.lookup(rel)
	return ok
}

// IsDirectory reports whether rel is a prefix of any stored name. The store
// has no explicit directories; they exist implicitly through file names.
func (m *MemoryBackend) IsDirectory(rel string) bool {
	prefix := memKey(rel)
	if prefix != "" {
		prefix += "/"
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (m *MemoryBackend) FileSize(rel string) (int64, *Error) {
	e, ok := m.lookup(rel)
	if !ok {
		return 0, NewError(CodeNotFound, rel)
	}
	return int64(len(e.data)), nil
}

func (m *MemoryBackend) LastWriteTime(rel string) (time.Time, *Error) {
	e, ok := m.lookup(rel)
	if !ok {
		return time.Time{}, NewError(CodeNotFound, rel)
	}
	return e.mtime, nil
}

func (m *MemoryBackend) FreeSpace() (uint64, *Error) { return 0, nil }

func (m *MemoryBackend) Open(rel string) (File, *Error) {
	e, ok := m.lookup(rel)
	if !ok {
		return nil, NewError(CodeNotFound, rel)
	}
	// The handle owns e.data from here on; map mutations cannot touch it.
	return &memFile{data: e.data}, nil
}

func (m *MemoryBackend) Read(rel string) ReadResult {
	e, ok := m.lookup(rel)
	if !ok {
		return ReadResult{Err: NewError(CodeNotFound, rel)}
	}
	buf := make([]byte, len(e.data))
	copy(buf, e.data)
	return ReadResult{Bytes: buf}
}

func (m *MemoryBackend) ListDirectory(rel string) ([]string, *Error) {
	prefix := memKey(rel)
	if prefix != "" {
		prefix += "/"
	}
	seen := make(map[string]struct{})
	m.mu.RLock()
	for name := range m.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := name[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		seen[rest] = struct{}{}
	}
	m.mu.RUnlock()
	if len(seen) == 0 && prefix != "" {
		return nil, NewError(CodeNotFound, rel)
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

type memFile struct {
	data []byte
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memFile) Close() error { return nil }
func (f *memFile) Size() int64  { return int64(len(f.data)) }
