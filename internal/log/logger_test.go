package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger(FormatPretty, "INFO")
	if logger == nil {
		t.Fatal("NewLogger should not return nil")
	}
	if logger.Slog() == nil {
		t.Error("Slog() should not return nil")
	}
}

func TestLogger_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, FormatJSON, "DEBUG")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, FormatJSON, "WARN")

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible warn")
	logger.Error("visible error")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("expected DEBUG and INFO suppressed at WARN level, got: %s", output)
	}
	if !strings.Contains(output, "visible warn") || !strings.Contains(output, "visible error") {
		t.Errorf("expected WARN and ERROR in output, got: %s", output)
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, FormatJSON, "INFO")

	logger.Info("repository synced", "repository_id", "repo-1", "embedded", 7)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "repository synced" {
		t.Errorf("expected msg field, got: %v", record["msg"])
	}
	if record["repository_id"] != "repo-1" {
		t.Errorf("expected repository_id attr, got: %v", record["repository_id"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, FormatJSON, "INFO")

	child := logger.With("organization_id", "org-1")
	child.Info("analysis finished")

	if !strings.Contains(buf.String(), "org-1") {
		t.Errorf("expected inherited attr, got: %s", buf.String())
	}
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, FormatJSON, "INFO")

	ctx := WithOrganizationID(context.Background(), "org-1")
	ctx = WithAnalysisID(ctx, "run-42")
	logger.WithContext(ctx).Info("decision recorded")

	output := buf.String()
	if !strings.Contains(output, "org-1") {
		t.Errorf("expected organization_id from context, got: %s", output)
	}
	if !strings.Contains(output, "run-42") {
		t.Errorf("expected analysis_id from context, got: %s", output)
	}
}

func TestLogger_WithContext_Empty(t *testing.T) {
	logger := NewLogger(FormatJSON, "INFO")
	if logger.WithContext(context.Background()) != logger {
		t.Error("empty context should return the same logger")
	}
}

func TestOrganizationID(t *testing.T) {
	ctx := WithOrganizationID(context.Background(), "org-1")
	if got := OrganizationID(ctx); got != "org-1" {
		t.Errorf("expected org-1, got %q", got)
	}
	if got := OrganizationID(context.Background()); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DEBUG", "DEBUG"},
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"WARN", "WARN"},
		{"ERROR", "ERROR"},
		{"bogus", "INFO"},
		{"", "INFO"},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input).String(); got != tt.expected {
			t.Errorf("parseLevel(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}
