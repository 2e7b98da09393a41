package glstage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestNopHandler_Enabled(t *testing.T) {
	h := nopHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if h.Enabled(context.Background(), level) {
			t.Errorf("nopHandler.Enabled(%v) = true, want false", level)
		}
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	SetLogger(custom)

	if Logger() != custom {
		t.Error("Logger() did not return the custom logger set via SetLogger")
	}
	Logger().Info("test message", "key", "value")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected log output to contain 'test message', got: %s", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestSetLoggerConcurrent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(slog.Default())
		}()
		go func() {
			defer wg.Done()
			_ = Logger()
		}()
	}
	wg.Wait()
}

func TestOnceHandlerDeduplicates(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewOnceHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	for i := 0; i < 3; i++ {
		l.Error("link failed", "program", 7)
		l.Debug("snapshot")
	}
	l.Error("link failed", "program", 8)

	out := buf.String()
	if got := strings.Count(out, "program=7"); got != 1 {
		t.Errorf("program=7 logged %d times, want 1", got)
	}
	if got := strings.Count(out, "program=8"); got != 1 {
		t.Errorf("program=8 logged %d times, want 1", got)
	}
	if got := strings.Count(out, "snapshot"); got != 3 {
		t.Errorf("debug record logged %d times, want 3", got)
	}
}

func TestOnceHandlerSharedAcrossWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewOnceHandler(slog.NewTextHandler(&buf, nil)))
	child := l.With("component", "cache")

	child.Warn("retry")
	child.Warn("retry")
	if got := strings.Count(buf.String(), "retry"); got != 1 {
		t.Errorf("warning logged %d times, want 1", got)
	}
}

func TestOnceHandlerKeysOnBoundAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewOnceHandler(slog.NewTextHandler(&buf, nil)))

	l.With("region", "vertex").Error("cannot draw region")
	l.With("region", "culling").Error("cannot draw region")
	l.With("region", "vertex").Error("cannot draw region")
	l.WithGroup("mosaic").With("region", "vertex").Error("cannot draw region")

	out := buf.String()
	if got := strings.Count(out, "cannot draw region"); got != 3 {
		t.Errorf("error logged %d times, want 3:\n%s", got, out)
	}
	for _, want := range []string{"region=vertex", "region=culling", "mosaic.region=vertex"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}

func TestOnceHandlerStopsIndexing(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewOnceHandler(slog.NewTextHandler(&buf, nil)))

	for i := 0; i < maxOnceMessages+5; i++ {
		l.Warn(fmt.Sprintf("message %d", i))
	}
	out := buf.String()
	if got := strings.Count(out, "too many distinct messages"); got != 1 {
		t.Errorf("stop notice logged %d times, want 1", got)
	}
	if strings.Contains(out, fmt.Sprintf("message %d", maxOnceMessages+1)) {
		t.Error("message past the limit was logged")
	}
}
