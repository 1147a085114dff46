package errors

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestMediaErrorString(t *testing.T) {
	err := &MediaError{
		Op:   "cache.Fetch",
		Kind: KindFetch,
		Err:  fmt.Errorf("connection reset"),
	}
	want := "cache.Fetch [fetch]: connection reset"
	if got := err.Error(); got != want {
		t.Errorf("MediaError.Error() = %q, want %q", got, want)
	}
}

func TestMediaErrorWithKey(t *testing.T) {
	err := New("cache.Fetch", KindContentType, "https://cdn/a.mp4",
		&ContentTypeError{Want: "video/*", Got: "text/html"})
	got := err.Error()
	if !strings.Contains(got, "key=https://cdn/a.mp4") {
		t.Errorf("error string %q should contain the key", got)
	}
	if !strings.Contains(got, `"text/html"`) {
		t.Errorf("error string %q should contain the rejected type", got)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindFetch, "fetch"},
		{KindContentType, "content-type"},
		{KindDecode, "decode"},
		{KindDiskWrite, "disk-write"},
		{KindPlayback, "playback"},
		{KindPanic, "panic"},
		{KindConfig, "config"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestKindOfUnwrapsChains(t *testing.T) {
	inner := New("cache.persist", KindDiskWrite, "", fmt.Errorf("disk full"))
	wrapped := fmt.Errorf("fetch video: %w", inner)
	if got := KindOf(wrapped); got != KindDiskWrite {
		t.Errorf("KindOf() = %v, want %v", got, KindDiskWrite)
	}
	if got := KindOf(fmt.Errorf("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindUnknown)
	}
}

func TestPanicErrorStringWithOp(t *testing.T) {
	err := &PanicError{
		Op:        "cache.fetch",
		Value:     "boom",
		Timestamp: time.Now(),
	}
	want := "panic in cache.fetch: boom"
	if got := err.Error(); got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

type recordingHandler struct {
	errs   []*MediaError
	panics []*PanicError
}

func (h *recordingHandler) HandleError(err *MediaError) { h.errs = append(h.errs, err) }
func (h *recordingHandler) HandlePanic(err *PanicError) { h.panics = append(h.panics, err) }

func TestReportSetsTimestamp(t *testing.T) {
	h := &recordingHandler{}
	prev := SetHandler(h)
	defer SetHandler(prev)

	Report(&MediaError{Op: "test", Kind: KindDecode, Err: fmt.Errorf("bad gif")})
	Report(nil)

	if len(h.errs) != 1 {
		t.Fatalf("reported %d errors, want 1", len(h.errs))
	}
	if h.errs[0].Timestamp.IsZero() {
		t.Error("Report should stamp the error")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	h := &recordingHandler{}
	prev := SetHandler(h)
	defer SetHandler(prev)

	var got any
	func() {
		defer RecoverWithCallback("test.op", func(r any) { got = r })
		panic("fetch exploded")
	}()

	if got != "fetch exploded" {
		t.Errorf("callback value = %v, want %q", got, "fetch exploded")
	}
	if len(h.panics) != 1 || h.panics[0].Op != "test.op" {
		t.Fatalf("panics = %+v, want one for test.op", h.panics)
	}
	if h.panics[0].StackTrace == "" {
		t.Error("expected a captured stack")
	}
}

func TestLogHandlerToleratesNilLogger(t *testing.T) {
	h := &LogHandler{Verbose: true}
	h.HandleError(&MediaError{Op: "x", Err: fmt.Errorf("y"), StackTrace: "z"})
	h.HandlePanic(&PanicError{Op: "x", Value: 1})
	h.HandleError(nil)
	h.HandlePanic(nil)
}
