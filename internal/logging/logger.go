package logging

import (
	"log/slog"
	"os"
)

// New returns the process logger. Records go to stderr because stdout carries run output,
// `--json` results and the MCP stdio stream.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: shortErrKey,
	}))
}

// NewNop returns a logger that drops every record.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// shortErrKey renames "error" attributes to "err" so hooks and adapters log failures under
// one key.
func shortErrKey(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
