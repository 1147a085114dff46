// Package errors provides structured error reporting for mediaview.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindFetch indicates a transport failure while fetching media bytes.
	KindFetch
	// KindContentType indicates a payload whose content type does not match the requested media kind.
	KindContentType
	// KindDecode indicates image or GIF bytes that could not be decoded.
	KindDecode
	// KindDiskWrite indicates a failure persisting media to the cache directory.
	KindDiskWrite
	// KindPlayback indicates a player that failed to open or play.
	KindPlayback
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid configuration file or value.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindContentType:
		return "content-type"
	case KindDecode:
		return "decode"
	case KindDiskWrite:
		return "disk-write"
	case KindPlayback:
		return "playback"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// MediaError is a structured error raised while loading, caching or playing media.
type MediaError struct {
	// Op is the operation that failed (e.g., "cache.Fetch").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Key is the cache key or media location involved, if any.
	Key string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *MediaError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s [%s] key=%s: %v", e.Op, e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// New returns a MediaError for op and kind wrapping err.
func New(op string, kind ErrorKind, key string, err error) *MediaError {
	return &MediaError{Op: op, Kind: kind, Key: key, Err: err}
}

// KindOf reports the kind of the first MediaError in err's chain.
func KindOf(err error) ErrorKind {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "cache.fetch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ContentTypeError reports a payload rejected by the content-type gate.
type ContentTypeError struct {
	// Want describes the accepted family (e.g., "video/*").
	Want string
	// Got is the content type the payload carried.
	Got string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("unexpected content type %q, want %s", e.Got, e.Want)
}

// ErrorHandler receives errors reported by mediaview components.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *MediaError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is, As and Join mirror the standard library so callers need one import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)
