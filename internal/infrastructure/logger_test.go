package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hiveingest/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	defer resetLogger(slog.Default())

	logFile := filepath.Join(t.TempDir(), "test.log")

	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger is nil")
	}

	logger.Info("test message", "key", "value")
	CloseLogFile()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal(content, &logEntry); err != nil {
		t.Fatalf("Log output is not valid JSON: %v", err)
	}
	if logEntry["msg"] != "test message" {
		t.Errorf("Expected msg='test message', got %v", logEntry["msg"])
	}
	if logEntry["key"] != "value" {
		t.Errorf("Expected key='value', got %v", logEntry["key"])
	}
	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level='INFO', got %v", logEntry["level"])
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json", Output: "console"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithTraceID(context.Background(), "run-123")
	logger.InfoContext(ctx, "test with trace")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log JSON: %v", err)
	}
	if logEntry["trace_id"] != "run-123" {
		t.Errorf("Expected trace_id='run-123', got %v", logEntry["trace_id"])
	}
}

func TestTraceIDSurvivesWith(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	ctx := WithTraceID(context.Background(), "run-456")
	WithComponent(logger, "ingestor").WithGroup("file").InfoContext(ctx, "loaded", "rows", 3)

	out := buf.String()
	if !strings.Contains(out, `"component":"ingestor"`) {
		t.Errorf("Expected component attribute, got %s", out)
	}
	if !strings.Contains(out, "run-456") {
		t.Errorf("Expected trace id in output, got %s", out)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "console"}, &buf)
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("plain", "device", "hiveA")
	if !strings.Contains(buf.String(), "device=hiveA") {
		t.Errorf("Expected text handler output, got %q", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		warnSeen  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warning", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json", Output: "console"}, &buf)
			if err != nil {
				t.Fatalf("Failed to create logger: %v", err)
			}

			logger.Debug("debug line")
			logger.Warn("warn line")

			if got := strings.Contains(buf.String(), "debug line"); got != tt.debugSeen {
				t.Errorf("debug visible = %v, want %v", got, tt.debugSeen)
			}
			if got := strings.Contains(buf.String(), "warn line"); got != tt.warnSeen {
				t.Errorf("warn visible = %v, want %v", got, tt.warnSeen)
			}
		})
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	if traceID == "" {
		t.Fatal("Expected trace ID to be generated")
	}

	if GetTraceID(EnsureTraceID(ctx)) != traceID {
		t.Error("EnsureTraceID changed existing trace ID")
	}

	if GenerateTraceID() == GenerateTraceID() {
		t.Error("Expected distinct trace IDs")
	}
}

func resetLogger(previous *slog.Logger) {
	CloseLogFile()
	globalLogger = nil
	slog.SetDefault(previous)
}

func TestGetLoggerFallsBackToDefault(t *testing.T) {
	resetLogger(slog.Default())

	if GetLogger() != slog.Default() {
		t.Fatal("GetLogger should return the slog default before initialization")
	}
}

func TestInitializeLoggerReplacesPrevious(t *testing.T) {
	defer resetLogger(slog.Default())

	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	var console bytes.Buffer
	if _, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "both", FilePath: first}, &console); err != nil {
		t.Fatalf("first initialization: %v", err)
	}
	GetLogger().Info("ingest run started")

	if _, err := InitializeLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: second}, &console); err != nil {
		t.Fatalf("second initialization: %v", err)
	}
	slog.Info("ingest run completed")

	if err := CloseLogFile(); err != nil {
		t.Fatalf("CloseLogFile: %v", err)
	}
	if err := CloseLogFile(); err != nil {
		t.Errorf("second CloseLogFile should be a no-op, got %v", err)
	}

	firstContent, _ := os.ReadFile(first)
	secondContent, _ := os.ReadFile(second)
	if !strings.Contains(string(firstContent), "ingest run started") || strings.Contains(string(firstContent), "completed") {
		t.Errorf("unexpected first log: %s", firstContent)
	}
	if !strings.Contains(string(secondContent), "ingest run completed") {
		t.Errorf("second log missing record: %s", secondContent)
	}
	if !strings.Contains(console.String(), "ingest run started") || strings.Contains(console.String(), "completed") {
		t.Errorf("console should only hold the first logger's output: %s", console.String())
	}
}
