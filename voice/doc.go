// Package voice computes per-segment acoustic feature vectors and
// accumulates them into per-speaker profiles.
//
// An Extractor is built once per call from the decoded audio; each word
// segment is then windowed out and described by a FeatureVector (pitch,
// spectral statistics, MFCCs, energy, stereo metrics). Profiles aggregate
// the vectors assigned to one speaker and classify voice type and stereo
// position.
package voice
