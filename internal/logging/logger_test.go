package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewWithWriter_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "production", "INFO")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug().Msg("hidden")
	logger.Info().Str("text", "hello").Msg("notification shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above debug level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["service"] != "dynamictranslator" {
		t.Fatalf("unexpected service: %v", entry["service"])
	}
	if entry["text"] != "hello" || entry["message"] != "notification shown" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewWithWriter_LocalConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, "local", "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug().Msg("watching for changes")

	out := buf.String()
	if !strings.Contains(out, "watching for changes") {
		t.Fatalf("expected console output, got %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console format, got JSON: %q", out)
	}
}

func TestNewWithWriter_InvalidLevel(t *testing.T) {
	t.Parallel()

	if _, err := NewWithWriter(&bytes.Buffer{}, "local", "loud"); err == nil {
		t.Fatalf("expected invalid level to fail")
	}
}
