// Package errors provides unified error handling for diarkit.
//
// Stages below the orchestrator report expected failure conditions as tagged
// AppError values (missing word timestamps, unreadable audio, provider
// outages) instead of propagating raw errors; the orchestrator inspects the
// code to decide which fallback stage to run next. Retryable marks provider
// and network conditions that the retry budget may re-attempt.
package errors
