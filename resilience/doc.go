// Package resilience provides retry and bulkhead primitives used around
// external calls in the diarization pipeline.
//
// Retry wraps the speech-to-text network call with a small fixed attempt
// budget. Bulkhead bounds concurrent invocations of the source-separation
// model, which holds large buffers per call and degrades badly when
// oversubscribed.
package resilience
