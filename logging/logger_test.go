package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestLoggerFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Config{Service: "geodesicd", Module: "api", Level: "warn"}, &buf)

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %s", buf.String())
	}

	l.SetLevel("debug")
	if l.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", l.Level())
	}
	l.Debug("visible", "points", 17)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log: %v (%s)", err, buf.String())
	}
	if entry["service"] != "geodesicd" || entry["module"] != "api" {
		t.Errorf("missing service/module fields: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Errorf("expected timestamp key: %v", entry)
	}
	if entry["points"] != float64(17) {
		t.Errorf("expected points attr: %v", entry)
	}
}

func TestTraceHandlerInjectsIDs(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Config{Service: "s", Module: "m"}, &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	l.With("request_id", "r1").InfoContext(ctx, "traced")
	out := buf.String()
	if !strings.Contains(out, traceID.String()) || !strings.Contains(out, spanID.String()) {
		t.Errorf("expected trace ids in %s", out)
	}
	if !strings.Contains(out, `"request_id":"r1"`) {
		t.Errorf("expected request_id in %s", out)
	}
}

func TestFileOutput(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "geodesic.log")
	l := newLogger(Config{Service: "s", Module: "m", File: file, Console: true, MaxSize: 1}, &buf)
	l.Info("both")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !strings.Contains(buf.String(), "both") {
		t.Error("expected console output")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
