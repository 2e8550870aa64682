// Package logging provides a structured logging system for aapctl with unified
// log handling and level filtering.
//
// This package implements a logging system built on Go's standard slog package,
// providing consistent logging behavior with structured output and level filtering.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging and development
//   - **Info**: General informational messages about application operation
//   - **Warn**: Warning messages that indicate potential issues
//   - **Error**: Error messages for failures and exceptional conditions
//
// # Structured Logging
// All log entries include:
//   - Timestamp
//   - Log level (Debug, Info, Warn, Error)
//   - Subsystem identifier for categorization
//   - Message content with optional formatting
//   - Optional error information
//
// # Usage
//
//	import "aapctl/pkg/logging"
//
//	// Initialize with Info level logging to stderr
//	logging.Init(logging.LevelInfo, os.Stderr)
//
//	// Log messages
//	logging.Info("Manifest", "Loaded %d resource entries", n)
//	logging.Debug("Gateway", "GET %s", path)
//	logging.Warn("Reconciler", "Credential %q could not be resolved; skipping", name)
//	logging.Error("Apply", err, "Reconciliation failed")
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **Gateway**: HTTP calls against the platform gateway
//   - **Resolver**: reference-to-id resolution
//   - **Reconciler**: desired/current state reconciliation
//   - **Manifest**: manifest loading, rendering and watching
//   - **Apply**: the apply engine driving reconciliation runs
//
// # Thread Safety
//
// The logging system is fully thread-safe; the underlying slog handler
// serializes writes to the configured output.
package logging
