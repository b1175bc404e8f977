// Package errors provides foundational, type-safe error primitives used across docimages.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, directive, network, backend, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry hint for callers (never, immediate, backoff, user)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter mapping categories to process exit codes
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryNetwork, "download failed").
//		WithSeverity(errors.SeverityWarning).
//		WithContext("uri", remoteURI).
//		WithCause(originalErr).
//		Build()
package errors
