package errors

import "github.com/go-drift/mediaview/pkg/logging"

// LogHandler is an ErrorHandler that writes errors to a structured logger.
type LogHandler struct {
	// Logger receives the records. Nil discards them.
	Logger logging.Logger
	// Verbose adds stack traces to the records.
	Verbose bool
}

// NewLogHandler returns a LogHandler writing to logger.
func NewLogHandler(logger logging.Logger, verbose bool) *LogHandler {
	return &LogHandler{Logger: logger, Verbose: verbose}
}

// HandleError logs a MediaError at error level.
func (h *LogHandler) HandleError(err *MediaError) {
	if err == nil {
		return
	}
	args := []any{"op", err.Op, "kind", err.Kind.String()}
	if err.Key != "" {
		args = append(args, "key", err.Key)
	}
	args = append(args, "err", err.Err)
	if h.Verbose && err.StackTrace != "" {
		args = append(args, "stack", err.StackTrace)
	}
	logging.OrNoOp(h.Logger).Error("media error", args...)
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	args := []any{"op", err.Op, "value", err.Value}
	if h.Verbose && err.StackTrace != "" {
		args = append(args, "stack", err.StackTrace)
	}
	logging.OrNoOp(h.Logger).Error("media panic", args...)
}
