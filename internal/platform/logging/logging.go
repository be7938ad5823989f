package logging

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"

	"resolvemcp/internal/platform/config"
)

const name = "resolvemcp"

// New builds the root logger. Output goes to stderr because stdout carries
// MCP traffic.
func New(cfg config.LogConfig) hclog.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

func NewWithOutput(cfg config.LogConfig, out io.Writer) hclog.Logger {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     out,
		JSONFormat: cfg.JSON,
	})
}

// Discard is used by tests and by commands that must keep stderr clean.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
