package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger = NewComponentLogger(logger, "search")
	logger.Info("work verified",
		Int64(FieldWorkID, 42),
		String("title", "Пикник на обочине"))

	out := buf.String()
	if !strings.Contains(out, "INFO") {
		t.Errorf("missing level label: %q", out)
	}
	if !strings.Contains(out, "search: work verified") {
		t.Errorf("missing component prefix: %q", out)
	}
	if !strings.Contains(out, "work_id=42") {
		t.Errorf("missing work_id attr: %q", out)
	}
	if !strings.Contains(out, `title="Пикник на обочине"`) {
		t.Errorf("values with spaces should be quoted: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("non-terminal writer must not be colorized: %q", out)
	}
}

func TestConsoleHandlerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Debug("quiet")
	logger.Info("still quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("records below warn should be dropped: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn record should pass: %q", out)
	}
}

func TestJSONFormatWritesStandardKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hello", String(FieldSource, "fantlab"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("parse log line %q: %v", data, err)
	}
	for _, key := range []string{"ts", "level", "msg", FieldSource} {
		if _, ok := record[key]; !ok {
			t.Errorf("missing key %q in %v", key, record)
		}
	}
	if record["level"] != "info" {
		t.Errorf("level = %v, want info", record["level"])
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", record["msg"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := NewComponentLogger(nil, "breaker")
	// Must not panic and must swallow output.
	logger.Error("ignored", Error(nil))
}
