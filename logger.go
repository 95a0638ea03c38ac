package glbridge

import (
	"log/slog"

	"github.com/gogpu/glbridge/internal/logging"
)

// SetLogger configures the logger for glbridge and all its sub-packages.
// By default, glbridge produces no log output. Call SetLogger to enable it.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by glbridge:
//   - [slog.LevelDebug]: internal diagnostics (pipeline cache traffic, packed buffer layouts)
//   - [slog.LevelInfo]: lifecycle events (context installed, device selected)
//   - [slog.LevelWarn]: protocol misuse from the host (draw without vertex array,
//     mismatched array lengths, unsupported array kinds)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	glbridge.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	glbridge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the current logger used by glbridge.
// Sub-packages (assembler, dynpipe, texture) share the same logger
// configuration through an internal package, so there is a single
// process-wide setting.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
