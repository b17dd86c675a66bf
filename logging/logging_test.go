package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"timebeacon/hal/haltest"
)

func TestNewWritesLinesToSink(t *testing.T) {
	sink := &haltest.Logger{}
	log, err := New(sink, Options{Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Debug("hidden")
	log.Info("resync done", zap.String("server", "ntp.nict.jp"))

	lines := sink.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines = %q, want 1 line", lines)
	}
	if !strings.Contains(lines[0], "resync done") || !strings.Contains(lines[0], "ntp.nict.jp") {
		t.Fatalf("line = %q, want message and field", lines[0])
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&haltest.Logger{}, Options{Level: "loud"}); err == nil {
		t.Fatalf("New(level=loud) err = nil, want error")
	}
}

func TestLineSyncerSplitsMultiline(t *testing.T) {
	sink := &haltest.Logger{}
	w := NewLineSyncer(sink)
	if _, err := w.Write([]byte("a\nb\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := sink.Lines(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("lines = %q, want [a b]", got)
	}
}
