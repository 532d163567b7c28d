package vfs

import (
	"sync/atomic"
	"time"
)

// ReadState is the lifecycle of an asynchronous read.
type ReadState int32

const (
	StatePending ReadState = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s ReadState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// AsyncHandle tracks one in-flight read. Cancellation is cooperative: an
// atomic flag the worker observes at its checkpoints. A request never aborts
// backend I/O that has already started; it only changes how the outcome is
// reported to the caller that asked to cancel. Cancelled is not a failure.
//
// The result is written exactly once before the handle completes; Get
// memoizes it, so repeat calls are idempotent. Handles are safe for
// concurrent use.
type AsyncHandle struct {
	state  atomic.Int32
	cancel atomic.Bool
	done   chan struct{}
	res    ReadResult
}

// ReadAsync issues a non-blocking read of rel against r. Backends that
// implement AsyncReadable supply their own handle; everything else gets the
// default wrapping of the synchronous Read on a worker goroutine.
func ReadAsync(r Readable, rel string) *AsyncHandle {
	if nr, ok := r.(AsyncReadable); ok {
		return nr.NativeReadAsync(rel)
	}
	h := NewAsyncHandle()
	go h.Run(func() ReadResult { return r.Read(rel) })
	return h
}

// NewAsyncHandle returns a pending handle. Pair it with Run, or use
// Complete directly for natively asynchronous backends.
func NewAsyncHandle() *AsyncHandle {
	return &AsyncHandle{done: make(chan struct{})}
}

// Run executes read on the calling goroutine with cancellation checkpoints
// before and after the I/O.
func (h *AsyncHandle) Run(read func() ReadResult) {
	if h.cancel.Load() {
		// checkpoint: cancelled before the read began
		h.finish(ReadResult{}, StateCancelled)
		return
	}
	h.state.Store(int32(StateRunning))
	res := read()
	switch {
	case h.cancel.Load():
		h.finish(res, StateCancelled)
	case res.Err != nil:
		h.finish(res, StateFailed)
	default:
		h.finish(res, StateCompleted)
	}
}

// Complete delivers a result produced elsewhere (native async backends).
func (h *AsyncHandle) Complete(res ReadResult) {
	switch {
	case h.cancel.Load():
		h.finish(res, StateCancelled)
	case res.Err != nil:
		h.finish(res, StateFailed)
	default:
		h.finish(res, StateCompleted)
	}
}

func (h *AsyncHandle) finish(res ReadResult, s ReadState) {
	h.res = res
	h.state.Store(int32(s))
	close(h.done)
}

// RequestCancellation sets the cooperative flag. Safe from any goroutine,
// any number of times.
func (h *AsyncHandle) RequestCancellation() { h.cancel.Store(true) }

// State is a non-blocking snapshot of the lifecycle.
func (h *AsyncHandle) State() ReadState { return ReadState(h.state.Load()) }

// IsReady reports, without blocking, whether Get would return immediately.
func (h *AsyncHandle) IsReady() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Get blocks until the read settles and returns the memoized result with
// its final state. A cancellation requested at any point before this call
// supersedes Completed: the result is still delivered, the state says
// Cancelled.
func (h *AsyncHandle) Get() (ReadResult, ReadState) {
	<-h.done
	s := ReadState(h.state.Load())
	if h.cancel.Load() && s == StateCompleted {
		s = StateCancelled
		h.state.Store(int32(s))
	}
	return h.res, s
}

// GetFor is Get with a deadline. When the read does not settle in time it
// returns ok=false with no side effects; the read keeps running and a later
// Get still works.
func (h *AsyncHandle) GetFor(timeout time.Duration) (ReadResult, ReadState, bool) {
	select {
	case <-h.done:
		res, s := h.Get()
		return res, s, true
	case <-time.After(timeout):
		return ReadResult{}, ReadState(h.state.Load()), false
	}
}

// failedHandle returns an already-settled handle carrying err. Used when
// path resolution fails before any read can be scheduled.
func failedHandle(err *Error) *AsyncHandle {
	h := NewAsyncHandle()
	h.finish(ReadResult{Err: err}, StateFailed)
	return h
}
