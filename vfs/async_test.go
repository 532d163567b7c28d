package vfs

import (
	"testing"
	"time"
)

// gateBackend blocks Read until released, to make timing deterministic.
type gateBackend struct {
	*MemoryBackend
	gate chan struct{}
}

func (g *gateBackend) Read(rel string) ReadResult {
	<-g.gate
	return g.MemoryBackend.Read(rel)
}

func newGateBackend() *gateBackend {
	m := NewMemoryBackend()
	m.AddFile("a.txt", []byte("async payload"))
	return &gateBackend{MemoryBackend: m, gate: make(chan struct{})}
}

func TestAsyncCompletes(t *testing.T) {
	m := NewMemoryBackend()
	m.AddFile("a.txt", []byte("hello"))

	h := ReadAsync(m, "a.txt")
	res, state := h.Get()
	if state != StateCompleted || res.Text() != "hello" {
		t.Fatalf("Get = %q state %v", res.Text(), state)
	}
	// memoized: repeat calls are idempotent
	res2, state2 := h.Get()
	if state2 != StateCompleted || res2.Text() != "hello" {
		t.Fatalf("repeat Get = %q state %v", res2.Text(), state2)
	}
}

func TestAsyncFailed(t *testing.T) {
	m := NewMemoryBackend()
	h := ReadAsync(m, "missing.txt")
	res, state := h.Get()
	if state != StateFailed {
		t.Fatalf("state = %v, want Failed", state)
	}
	if res.Err == nil || res.Err.Code != CodeNotFound {
		t.Fatalf("err = %v", res.Err)
	}
}

// TestAsyncCancelBeforeStart: cancellation observed at the first checkpoint
// skips the I/O entirely.
func TestAsyncCancelBeforeStart(t *testing.T) {
	reads := 0
	h := NewAsyncHandle()
	h.RequestCancellation()
	h.Run(func() ReadResult {
		reads++
		return ReadResult{Bytes: []byte("x")}
	})
	if reads != 0 {
		t.Fatalf("read ran despite early cancellation")
	}
	if _, state := h.Get(); state != StateCancelled {
		t.Fatalf("state = %v, want Cancelled", state)
	}
}

// TestAsyncCancelAfterCompletion: a request made after the I/O finished but
// before Get still supersedes Completed. The result is delivered anyway;
// cancellation is a reporting matter, not an abort.
func TestAsyncCancelAfterCompletion(t *testing.T) {
	m := NewMemoryBackend()
	m.AddFile("a.txt", []byte("done"))
	h := ReadAsync(m, "a.txt")

	for !h.IsReady() {
		time.Sleep(time.Millisecond)
	}
	h.RequestCancellation()

	res, state := h.Get()
	if state != StateCancelled {
		t.Fatalf("state = %v, want Cancelled", state)
	}
	if res.Text() != "done" {
		t.Fatalf("completed I/O must still deliver its result, got %q", res.Text())
	}
}

// TestAsyncGetForTimeout: a deadline that elapses before readiness returns
// ok=false with no side effects; a later Get still works.
func TestAsyncGetForTimeout(t *testing.T) {
	g := newGateBackend()
	h := ReadAsync(g, "a.txt")

	if _, _, ok := h.GetFor(5 * time.Millisecond); ok {
		t.Fatalf("GetFor should time out while the read is gated")
	}
	close(g.gate)
	res, state, ok := h.GetFor(time.Second)
	if !ok || state != StateCompleted || res.Text() != "async payload" {
		t.Fatalf("GetFor after release = ok=%v state=%v %q", ok, state, res.Text())
	}
}

func TestAsyncIsReadyNonBlocking(t *testing.T) {
	g := newGateBackend()
	h := ReadAsync(g, "a.txt")
	if h.IsReady() {
		t.Fatalf("IsReady must be false while gated")
	}
	close(g.gate)
	if res, state := h.Get(); state != StateCompleted || !res.Ok() {
		t.Fatalf("Get after release: %v", state)
	}
	if !h.IsReady() {
		t.Fatalf("IsReady must be true after completion")
	}
}

// TestAsyncThroughMountTable: resolution failures surface through a settled
// handle rather than a panic or a nil.
func TestAsyncThroughMountTable(t *testing.T) {
	mt, _ := newTestTable(t)

	h := mt.ReadFileAsync("assets:/a.txt")
	if res, state := h.Get(); state != StateCompleted || res.Text() != "alpha" {
		t.Fatalf("async read via table: %v %q", state, res.Text())
	}

	h = mt.ReadFileAsync("nomount:/a.txt")
	res, state := h.Get()
	if state != StateFailed || res.Err == nil || res.Err.Code != CodeInvalidMount {
		t.Fatalf("unresolved async read: %v %v", state, res.Err)
	}
}
