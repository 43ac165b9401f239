// Package logging configures a file-backed zerolog logger. The TUI owns
// the terminal, so nothing may ever log to stdout or stderr.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing to debug.log under the user cache dir.
// CONFDESK_LOG selects the level; unset means warn, anything unparseable
// disables logging entirely rather than risking terminal output.
func New() zerolog.Logger {
	level := zerolog.WarnLevel
	if env := strings.TrimSpace(os.Getenv("CONFDESK_LOG")); env != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(env))
		if err != nil {
			return zerolog.Nop()
		}
		level = parsed
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return zerolog.Nop()
	}
	path := filepath.Join(dir, "confdesk-cli", "debug.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop()
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop()
	}

	return zerolog.New(file).Level(level).With().Timestamp().Logger()
}
