// Package diarize implements the two-party diarization core: call-type
// detection, pause-based word segmentation, acoustic speaker assignment,
// semantic role correction, and transcript assembly.
//
// The package is pure computation over decoded audio and word timestamps;
// network collaborators (STT provider, separation model) live in their own
// packages and are orchestrated by the pipeline package.
package diarize
