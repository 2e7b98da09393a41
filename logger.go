package glstage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the package logger used by every Debugger that was not
// given its own through WithLogger. By default glstage produces no log output.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by glstage:
//   - [slog.LevelDebug]: captured program, stage and attribute layouts
//   - [slog.LevelInfo]: lifecycle events (debugger created, adapter)
//   - [slog.LevelWarn]: degraded situations (skipped uniforms, application framebuffer bound)
//   - [slog.LevelError]: precondition violations and compile/link failures
//
// An intercepted draw runs every frame, so wrap the handler with
// NewOnceHandler to see each warning and error once:
//
//	glstage.SetLogger(slog.New(glstage.NewOnceHandler(
//	    slog.NewTextHandler(os.Stderr, nil))))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// maxOnceMessages bounds the set of remembered messages.
const maxOnceMessages = 1000

type onceState struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	exhausted bool
}

// onceHandler forwards a warning or error only the first time its message and
// attributes are seen. Debug and info records always pass.
type onceHandler struct {
	next  slog.Handler
	state *onceState
	// bound holds the groups and attributes added with WithGroup and
	// WithAttrs; it is part of the key.
	bound string
}

// NewOnceHandler wraps h so that repeated identical warnings and errors are
// dropped. After maxOnceMessages distinct messages it reports once that it
// stopped and drops every further warning and error.
func NewOnceHandler(h slog.Handler) slog.Handler {
	return &onceHandler{next: h, state: &onceState{seen: make(map[string]struct{})}}
}

func (h *onceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *onceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelWarn {
		return h.next.Handle(ctx, r)
	}

	key := h.bound + "\x01" + r.Level.String() + "\x00" + r.Message
	r.Attrs(func(a slog.Attr) bool {
		key += "\x00" + a.String()
		return true
	})

	s := h.state
	s.mu.Lock()
	if _, dup := s.seen[key]; dup {
		s.mu.Unlock()
		return nil
	}
	if len(s.seen) >= maxOnceMessages {
		first := !s.exhausted
		s.exhausted = true
		s.mu.Unlock()
		if !first {
			return nil
		}
		stop := slog.NewRecord(r.Time, slog.LevelWarn, "glstage: too many distinct messages, suppressing further warnings and errors", r.PC)
		return h.next.Handle(ctx, stop)
	}
	s.seen[key] = struct{}{}
	s.mu.Unlock()
	return h.next.Handle(ctx, r)
}

func (h *onceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := h.bound
	for _, a := range attrs {
		bound += "\x00" + a.String()
	}
	return &onceHandler{next: h.next.WithAttrs(attrs), state: h.state, bound: bound}
}

func (h *onceHandler) WithGroup(name string) slog.Handler {
	return &onceHandler{next: h.next.WithGroup(name), state: h.state, bound: h.bound + "\x00[" + name + "]"}
}
