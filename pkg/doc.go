// Package pkg provides shared utilities for the vcmbox mailbox stack.
//
// This package contains common functionality used across the property
// protocol and the mailbox transport, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for mailbox and memory-lifecycle failures
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with mailbox-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentMailbox, "buffer allocated", "handle", h)
//
// # Errors
//
// Common mailbox errors are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrAllocFailed) {
//	    // Firmware rejected the allocation request
//	}
package pkg
