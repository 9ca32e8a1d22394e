package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"text", FormatText},
		{" JSON ", FormatJSON},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelWarn), WithTimeLayout(""))

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("messages below level leaked: %q", out)
	}

	if !strings.Contains(out, "kept") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatJSON),
		WithTimeLayout(""),
	)

	logger.Info("hello", slog.Int("pixels", 42))

	var rec map[string]any

	err := json.Unmarshal(buf.Bytes(), &rec)
	if err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}

	if rec["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", rec["msg"])
	}

	if rec["pixels"] != float64(42) {
		t.Errorf("pixels = %v, want 42", rec["pixels"])
	}
}

func TestLoggerTraceLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithTimeLayout(""))

	logger.Trace("visible")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE level in output: %q", buf.String())
	}
}

func TestZeroLoggerDiscards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("into the void")
	logger.Error("also fine")
}

func TestWrapOverrides(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelError))

	wrapped := logger.Wrap(WithLevel(LevelDebug))
	if wrapped.Level() != LevelDebug {
		t.Errorf("wrapped level = %v, want debug", wrapped.Level())
	}

	// Original is unchanged.
	if logger.Level() != LevelError {
		t.Errorf("original level = %v, want error", logger.Level())
	}
}

func TestPrettyTextOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(true), WithTimeLayout(""))

	logger.Info("styled", slog.String("k", "v"))

	out := buf.String()
	if !strings.Contains(out, "styled") || !strings.Contains(out, "k=") {
		t.Errorf("unexpected pretty output: %q", out)
	}
}
