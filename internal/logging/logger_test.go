package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLogEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entries []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	t.Run("creates log file in directory", func(t *testing.T) {
		dir := t.TempDir()

		logger, err := NewLogger(dir, LevelDebug, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		logPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(logPath); os.IsNotExist(err) {
			t.Errorf("log file was not created at %s", logPath)
		}
	})

	t.Run("creates missing directories", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "a", "b")

		logger, err := NewLogger(dir, LevelInfo, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("log file missing: %v", err)
		}
	})

	t.Run("writes to stderr when dir is empty", func(t *testing.T) {
		logger, err := NewLogger("", LevelInfo, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLogger failed: %v", err)
		}
		defer logger.Close()

		if logger.closer != nil {
			t.Error("expected no closer when dir is empty")
		}
	})
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level     string
		wantCount int
	}{
		{LevelDebug, 4},
		{LevelInfo, 3},
		{LevelWarn, 2},
		{LevelError, 1},
		{"bogus", 3},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			dir := t.TempDir()
			logger, err := NewLogger(dir, tt.level, DefaultRotationConfig())
			if err != nil {
				t.Fatalf("NewLogger failed: %v", err)
			}

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")
			logger.Error("error message")
			if err := logger.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			entries := readLogEntries(t, filepath.Join(dir, FileName))
			if len(entries) != tt.wantCount {
				t.Errorf("got %d entries, want %d", len(entries), tt.wantCount)
			}
		})
	}
}

func TestLoggerAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, nil, LevelDebug)

	child := logger.WithComponent("lookup").With("code", "SP")
	child.Info("lookup settled", "status", 200)
	logger.Info("parent message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["component"] != "lookup" {
		t.Errorf("component = %v, want lookup", entry["component"])
	}
	if entry["code"] != "SP" {
		t.Errorf("code = %v, want SP", entry["code"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}

	var parent map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &parent); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, ok := parent["component"]; ok {
		t.Error("child attributes leaked into parent logger")
	}
}

func TestWithIgnoresNonStringKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, nil, LevelInfo).With(42, "dropped", "kept", true)

	logger.Info("msg")

	if strings.Contains(buf.String(), "dropped") {
		t.Errorf("non-string key should be skipped: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"kept":true`) {
		t.Errorf("expected kept attribute: %s", buf.String())
	}
}

func TestCloseIdempotent(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), LevelInfo, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Error("ignored")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}

	var nilLogger *Logger
	nilLogger.Info("no panic")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if len(ValidLevels()) != 4 {
		t.Errorf("ValidLevels() = %v, want 4 levels", ValidLevels())
	}
}
