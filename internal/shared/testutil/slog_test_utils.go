package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is one captured log line with its attributes flattened
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type logSink struct {
	mu      sync.Mutex
	records []LogRecord
	t       *testing.T
}

// BufferedSlogHandler records every log line so tests can assert on them.
// Handlers derived with WithAttrs share the same sink. Groups are flattened.
type BufferedSlogHandler struct {
	sink  *logSink
	attrs []slog.Attr
}

// NewTestLogger returns a logger writing into a fresh BufferedSlogHandler.
// Records are echoed to t.Log.
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := &BufferedSlogHandler{sink: &logSink{t: t}}
	return slog.New(h), h
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{Time: r.Time, Level: r.Level, Message: r.Message, Attrs: map[string]any{}}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.sink.mu.Lock()
	h.sink.records = append(h.sink.records, rec)
	h.sink.mu.Unlock()

	if h.sink.t != nil {
		h.sink.t.Logf("[%s] %s %v", r.Level, r.Message, rec.Attrs)
	}
	return nil
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &BufferedSlogHandler{sink: h.sink, attrs: merged}
}

func (h *BufferedSlogHandler) WithGroup(string) slog.Handler { return h }

// GetRecords returns a copy of the captured records
func (h *BufferedSlogHandler) GetRecords() []LogRecord {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return append([]LogRecord(nil), h.sink.records...)
}

// ContainsMessage reports whether any record's message contains substr
func (h *BufferedSlogHandler) ContainsMessage(substr string) bool {
	for _, r := range h.GetRecords() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any record has key set to value
func (h *BufferedSlogHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.GetRecords() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}
