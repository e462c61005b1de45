package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dbsmedya/dwdash/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string // String representation of zapcore.Level
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"}, // empty defaults to info
		{"warn", "warn"},
		{"WARN", "warn"},
		{"error", "error"},
		{"unknown", "info"}, // unknown defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level := parseLevel(tt.input)
			if level.String() != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, level.String(), tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "json format info level",
			cfg:     &config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
			wantErr: false,
		},
		{
			name:    "text format debug level",
			cfg:     &config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"},
			wantErr: false,
		},
		{
			name:    "file output",
			cfg:     &config.LoggingConfig{Level: "warn", Format: "json", Output: filepath.Join(t.TempDir(), "dwdash.log")},
			wantErr: false,
		},
		{
			name:    "unwritable file",
			cfg:     &config.LoggingConfig{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if logger == nil && !tt.wantErr {
				t.Error("New() returned nil logger without error")
			}
			if logger != nil {
				_ = logger.Sync()
			}
		})
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	if logger == nil {
		t.Fatal("NewDefault() returned nil")
	}

	// Should be able to log without panic
	logger.Info("test message")
	_ = logger.Sync()
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.WithReport("standard-cost").Errorw("discarded", "rows", 0)
	if err := logger.Sync(); err != nil {
		t.Errorf("nop Sync() returned %v", err)
	}
}

func TestWithReport(t *testing.T) {
	logger := NewNop()

	reportLogger := logger.WithReport("standard-cost")
	if reportLogger == nil {
		t.Fatalf("WithReport() returned nil")
	}
	if reportLogger == logger {
		t.Error("WithReport() should return a new logger instance")
	}
}

func TestBuildEncoder(t *testing.T) {
	for _, format := range []string{"json", "text", "unknown"} {
		for _, colored := range []bool{true, false} {
			if buildEncoder(format, colored) == nil {
				t.Errorf("buildEncoder(%q, %v) returned nil", format, colored)
			}
		}
	}
}

func TestBuildWriter(t *testing.T) {
	if _, terminal, err := buildWriter(""); err != nil || !terminal {
		t.Errorf("buildWriter(\"\") = terminal %v, err %v; want stderr", terminal, err)
	}
	_, terminal, err := buildWriter(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatalf("buildWriter(file) failed: %v", err)
	}
	if terminal {
		t.Error("a log file should not be treated as a terminal")
	}
	if _, _, err := buildWriter(filepath.Join(t.TempDir(), "missing", "out.log")); err == nil {
		t.Error("buildWriter should fail when the directory does not exist")
	}
}

func TestTextOutputHasNoColorCodes(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dwdash.log")
	logger, err := New(&config.LoggingConfig{Level: "info", Format: "text", Output: logPath})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Info("plain")
	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(content), "\x1b[") {
		t.Error("file output should not contain ANSI color codes")
	}
	if !strings.Contains(string(content), "INFO") {
		t.Error("text output should contain the capitalized level")
	}
}

func TestLoggingOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "dwdash.json")

	cfg := &config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: logPath,
	}

	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("test info message")
	logger.Debug("filtered debug message")
	logger.WithReport("category-count").WithTable("dimcurrency").Info("message with context")
	logger.WithFields(map[string]interface{}{"rows": 12}).Warn("message with fields")

	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	contentStr := string(content)
	for _, want := range []string{"test info message", "category-count", "dimcurrency", `"rows":12`} {
		if !strings.Contains(contentStr, want) {
			t.Errorf("Log file should contain %q", want)
		}
	}
	if strings.Contains(contentStr, "filtered debug message") {
		t.Error("debug message should be filtered at info level")
	}
}
