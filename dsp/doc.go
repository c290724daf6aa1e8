// Package dsp implements the signal-processing primitives behind voice
// feature extraction: a radix-2 FFT, Hann windowing and framing, spectral
// statistics (centroid, rolloff, contrast, zero-crossing rate), mel-scale
// MFCCs, and YIN pitch estimation.
//
// Functions operate on float64 sample slices and are deterministic; frame
// length and hop follow the common 2048/512 analysis layout.
package dsp
