package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LevelInfo)

	if logger == nil {
		t.Fatal("Expected non-nil logger")
	}

	if logger.minLevel != LevelInfo {
		t.Errorf("Expected minLevel to be %s, got %s", LevelInfo, logger.minLevel)
	}
}

func TestLogger_ShouldLog(t *testing.T) {
	tests := []struct {
		name     string
		minLevel Level
		logLevel Level
		want     bool
	}{
		{"debug logs when min is debug", LevelDebug, LevelDebug, true},
		{"info logs when min is debug", LevelDebug, LevelInfo, true},
		{"error logs when min is debug", LevelDebug, LevelError, true},
		{"debug does not log when min is info", LevelInfo, LevelDebug, false},
		{"info logs when min is info", LevelInfo, LevelInfo, true},
		{"warn logs when min is info", LevelInfo, LevelWarn, true},
		{"error logs when min is info", LevelInfo, LevelError, true},
		{"info does not log when min is error", LevelError, LevelInfo, false},
		{"error logs when min is error", LevelError, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.minLevel)
			got := logger.shouldLog(tt.logLevel)
			if got != tt.want {
				t.Errorf("shouldLog() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{minLevel: LevelInfo, output: &buf}

	payload := map[string]interface{}{
		"gpu_id": 0,
		"mode":   "low-power",
	}

	logger.Log(LevelInfo, "test.event", "Test message", payload)

	var event Event
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if event.Level != LevelInfo {
		t.Errorf("Expected level %s, got %s", LevelInfo, event.Level)
	}
	if event.Type != "test.event" {
		t.Errorf("Expected type test.event, got %s", event.Type)
	}
	if event.Message != "Test message" {
		t.Errorf("Expected message %q, got %q", "Test message", event.Message)
	}
	if event.Payload["mode"] != "low-power" {
		t.Errorf("Expected payload mode low-power, got %v", event.Payload["mode"])
	}
	if event.Timestamp == "" {
		t.Error("Expected non-empty timestamp")
	}
}

func TestLogger_Log_FilteredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{minLevel: LevelInfo, output: &buf}

	logger.Debug("test.debug", "Should not appear", nil)

	if buf.Len() != 0 {
		t.Errorf("Expected no output for filtered level, got: %s", buf.String())
	}
}

func TestLogger_LevelHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{minLevel: LevelDebug, output: &buf}

	logger.Debug("ev.debug", "d", nil)
	logger.Info("ev.info", "i", nil)
	logger.Warn("ev.warn", "w", nil)
	logger.Error("ev.error", "e", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 log lines, got %d", len(lines))
	}

	wantLevels := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for i, line := range lines {
		var event Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("Line %d is not valid JSON: %v", i, err)
		}
		if event.Level != wantLevels[i] {
			t.Errorf("Line %d: expected level %s, got %s", i, wantLevels[i], event.Level)
		}
	}
}
