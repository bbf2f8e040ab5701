// Package logging builds the diagnostic logger shared by the run.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/conn-castle/cargo-install-upgrade/internal/messages"
)

// LevelEnv overrides the level chosen by the verbose flag.
const LevelEnv = "CARGO_INSTALL_UPGRADE_LOG"

var lookupEnv = os.LookupEnv

// New returns a text logger writing to w. Verbose runs log at debug level,
// all others at warn, unless LevelEnv names a level.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if raw, ok := lookupEnv(LevelEnv); ok && strings.TrimSpace(raw) != "" {
		if parsed, ok := ParseLevel(raw); ok {
			level = parsed
		} else {
			_, _ = fmt.Fprintf(w, messages.LoggingInvalidLevelFmt, LevelEnv, raw)
		}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Interactive CLI output; timestamps are noise.
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(h)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug, info, warn, or error (any case) to a slog level.
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}
