package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorCode classifies every failure the VFS and the resource layer above it
// can report. Ordinary failures are carried as values; nothing in this
// package panics for a missing file or a bad path.
type ErrorCode int

const (
	CodeNone ErrorCode = iota
	CodeNotFound
	CodeAccessDenied
	CodeInvalidPath
	CodeInvalidMount
	// CodeTimeout is for callers layering a deadline over a blocking wait.
	// AsyncHandle.GetFor reports expiry through its ok result instead of an
	// error, so the VFS itself never produces this code.
	CodeTimeout
	CodeDecode
	CodeCompile
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeNotFound:
		return "not found"
	case CodeAccessDenied:
		return "access denied"
	case CodeInvalidPath:
		return "invalid path"
	case CodeInvalidMount:
		return "invalid mount"
	case CodeTimeout:
		return "timeout"
	case CodeDecode:
		return "decode error"
	case CodeCompile:
		return "compile error"
	}
	return "unknown"
}

// Error is the immutable failure value used throughout the VFS. Native holds
// the underlying OS error number when one exists, Context names the path or
// operation that failed.
type Error struct {
	Code    ErrorCode
	Native  int
	Context string
	cause   error
}

func (e *Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("vfs: %s", e.Code)
	}
	return fmt.Sprintf("vfs: %s: %s", e.Code, e.Context)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets callers match on a bare code: errors.Is(err, &Error{Code: CodeNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError builds an Error with no underlying cause.
func NewError(code ErrorCode, context string) *Error {
	return &Error{Code: code, Context: context}
}

// WrapAs builds an Error with a fixed code and an underlying cause. Used at
// the decode/compile boundary, where the collaborator's error carries the
// detail but the code is known from context.
func WrapAs(code ErrorCode, err error, context string) *Error {
	return &Error{Code: code, Context: context, cause: err}
}

// WrapError classifies err into the VFS taxonomy, extracting the OS error
// number when the cause is a syscall error. A nil err yields nil.
func WrapError(err error, context string) *Error {
	if err == nil {
		return nil
	}
	code := CodeNotFound
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code = CodeNotFound
	case errors.Is(err, fs.ErrPermission):
		code = CodeAccessDenied
	case errors.Is(err, fs.ErrInvalid):
		code = CodeInvalidPath
	}
	e := &Error{Code: code, Context: context, cause: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Native = int(errno)
	}
	return e
}
