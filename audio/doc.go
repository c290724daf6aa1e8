// Package audio provides the in-memory PCM representation shared by the
// diarization pipeline.
//
// A Clip holds float64 samples per channel plus a sample rate. Clips are
// decoded from WAV files, windowed into per-word slices for feature
// extraction, and split per channel for stereo calls. All analysis
// packages consume Clips rather than touching files or codecs directly.
package audio
