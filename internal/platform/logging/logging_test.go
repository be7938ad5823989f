package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"resolvemcp/internal/platform/config"
	"resolvemcp/internal/platform/logging"
)

func TestNewWithOutputHonoursLevel(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.NewWithOutput(config.LogConfig{Level: "warn"}, buf)
	logger.Info("hidden")
	logger.Warn("shown", "generation", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line must be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "generation=2") {
		t.Fatalf("expected warn line with fields: %q", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.NewWithOutput(config.LogConfig{Level: "chatty"}, buf)
	logger.Debug("debug line")
	logger.Info("info line")
	if strings.Contains(buf.String(), "debug line") || !strings.Contains(buf.String(), "info line") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
