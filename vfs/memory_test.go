package vfs

import (
	"bytes"
	"sync"
	"testing"

	"github.com/driftworks/rescache/codec"
)

// TestMemorySnapshotSurvivesClear: a handle opened before a concurrent
// Clear keeps reading the snapshot it was given; mutation of the map never
// corrupts an in-flight read.
func TestMemorySnapshotSurvivesClear(t *testing.T) {
	m := NewMemoryBackend()
	payload := []byte("the original bytes")
	m.AddFile("a.txt", payload)

	f, err := m.Open("a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	m.Clear()
	m.AddFile("a.txt", []byte("replacement"))

	got := make([]byte, f.Size())
	if _, rerr := f.ReadAt(got, 0); rerr != nil {
		t.Fatalf("ReadAt after Clear: %v", rerr)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("handle read %q, want the original snapshot %q", got, payload)
	}
}

// TestMemoryOverwriteKeepsOldSnapshot: same guarantee for overwrites.
func TestMemoryOverwriteKeepsOldSnapshot(t *testing.T) {
	m := NewMemoryBackend()
	m.AddFile("a.txt", []byte("v1"))
	f, err := m.Open("a.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	m.AddFile("a.txt", []byte("v2-longer"))

	got := make([]byte, f.Size())
	if _, rerr := f.ReadAt(got, 0); rerr != nil {
		t.Fatalf("ReadAt: %v", rerr)
	}
	if string(got) != "v1" {
		t.Fatalf("handle read %q, want v1", got)
	}
	if rr := m.Read("a.txt"); rr.Text() != "v2-longer" {
		t.Fatalf("fresh read should see the overwrite, got %q", rr.Text())
	}
}

// TestMemoryConcurrentReaders hammers the reader-writer lock: many
// concurrent readers against a writer repeatedly clearing and re-adding.
func TestMemoryConcurrentReaders(t *testing.T) {
	m := NewMemoryBackend()
	m.AddFile("x", []byte("payload"))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if rr := m.Read("x"); rr.Ok() && rr.Text() != "payload" {
					t.Errorf("read observed torn data %q", rr.Text())
					return
				}
			}
		}()
	}
	for i := 0; i < 200; i++ {
		m.Clear()
		m.AddFile("x", []byte("payload"))
	}
	close(stop)
	wg.Wait()
}

func TestMemoryMetadata(t *testing.T) {
	m := NewMemoryBackend()
	m.AddFile("dir/a.txt", []byte("aaaa"))
	m.AddFile("dir/sub/b.txt", []byte("b"))

	if !m.IsFile("dir/a.txt") || m.IsFile("dir") {
		t.Fatalf("IsFile misbehaves")
	}
	if !m.IsDirectory("dir") || !m.IsDirectory("dir/sub") || m.IsDirectory("dir/a.txt") {
		t.Fatalf("IsDirectory misbehaves")
	}
	if !m.Exists("dir") || !m.Exists("dir/a.txt") || m.Exists("nope") {
		t.Fatalf("Exists misbehaves")
	}
	if n, err := m.FileSize("dir/a.txt"); err != nil || n != 4 {
		t.Fatalf("FileSize = %d, %v", n, err)
	}
	if _, err := m.FileSize("nope"); err == nil || err.Code != CodeNotFound {
		t.Fatalf("FileSize missing: %v", err)
	}
	if _, err := m.LastWriteTime("nope"); err == nil {
		t.Fatalf("LastWriteTime missing must fail")
	}

	names, err := m.ListDirectory("dir")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "sub" {
		t.Fatalf("ListDirectory = %v", names)
	}
	if _, err := m.ListDirectory("nope"); err == nil {
		t.Fatalf("ListDirectory on missing dir must fail")
	}
}

// TestMemoryLoadBundle: bundles round-trip through CBOR and through
// Zstd-wrapped Msgpack into a populated backend.
func TestMemoryLoadBundle(t *testing.T) {
	bundle := Bundle{Files: map[string][]byte{
		"tex/a.png": {1, 2, 3},
		"tex/b.png": {4, 5},
	}}

	cb := codec.MustCBOR[Bundle]()
	raw, err := cb.Encode(bundle)
	if err != nil {
		t.Fatalf("cbor encode: %v", err)
	}
	m := NewMemoryBackend()
	if ferr := m.LoadBundle(raw, cb); ferr != nil {
		t.Fatalf("LoadBundle cbor: %v", ferr)
	}
	if rr := m.Read("tex/a.png"); !rr.Ok() || !bytes.Equal(rr.Bytes, []byte{1, 2, 3}) {
		t.Fatalf("bundle member mismatch: %+v", rr)
	}

	zc, err := codec.NewZstd[Bundle](codec.Msgpack[Bundle]{})
	if err != nil {
		t.Fatalf("NewZstd: %v", err)
	}
	packed, err := zc.Encode(bundle)
	if err != nil {
		t.Fatalf("zstd encode: %v", err)
	}
	m2 := NewMemoryBackend()
	if ferr := m2.LoadBundle(packed, zc); ferr != nil {
		t.Fatalf("LoadBundle zstd: %v", ferr)
	}
	if m2.Count() != 2 {
		t.Fatalf("Count = %d, want 2", m2.Count())
	}

	if ferr := m.LoadBundle([]byte("not a bundle"), cb); ferr == nil || ferr.Code != CodeDecode {
		t.Fatalf("corrupt bundle: want DecodeError, got %v", ferr)
	}
}
