// Package stt defines the speech-to-text collaborator contract: word-level
// transcription with timestamps and optional provider-assigned speaker
// tags.
//
// Backends implement Provider and register with a provider.Registry; the
// voicekit subpackage ships the default HTTP backend. The diarization core
// only requires word text plus start/end times; speaker tags are optional
// and validated downstream.
package stt
