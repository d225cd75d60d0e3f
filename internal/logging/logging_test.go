package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"info":    slog.LevelInfo,
		"":        slog.LevelDebug,
		"verbose": slog.LevelDebug,
	}
	for in, want := range cases {
		if got := levelFromString(in); got != want {
			t.Fatalf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info", "json")
	log.Debug("hidden")
	log.Info("visible", "session", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["msg"] != "visible" || record["session"] != "abc" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewWithWriterText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewWithWriter(&buf, "debug", "").Debug("hello", "component", "test")

	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "component=test") {
		t.Fatalf("unexpected text output: %q", buf.String())
	}
}
