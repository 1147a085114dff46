package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type handlerBox struct{ h ErrorHandler }

var handler atomic.Pointer[handlerBox]

func init() {
	handler.Store(&handlerBox{h: &LogHandler{}})
}

// SetHandler installs the process-wide handler and returns the previous
// one. Nil installs a LogHandler without a logger, which drops everything.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return handler.Swap(&handlerBox{h: h}).h
}

// Handler returns the installed handler.
func Handler() ErrorHandler { return handler.Load().h }

// Report stamps err and hands it to the installed handler.
func Report(err *MediaError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic hands a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// RecoverWithCallback recovers a panic in the calling function, reports it
// under op and then passes the panic value to onPanic. It must be deferred
// directly:
//
//	defer errors.RecoverWithCallback("cache.load", func(any) { value = nil })
func RecoverWithCallback(op string, onPanic func(r any)) {
	r := recover()
	if r == nil {
		return
	}
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	if onPanic != nil {
		onPanic(r)
	}
}

// CaptureStack formats the caller's stack, one "function\n\tfile:line"
// entry per frame.
func CaptureStack() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for n > 0 {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
