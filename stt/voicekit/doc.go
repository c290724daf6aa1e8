// Package voicekit implements the stt.Provider contract against a
// VoiceKit-style recognition service: JWT bearer auth derived from an
// api-key/secret-key pair, multipart WAV upload, and word timestamps in
// the service's "1.234s" string format.
package voicekit
