// Package sidecar implements the separation.Provider contract against an
// HTTP sidecar hosting a pretrained two-speaker separation model. The mono
// recording is uploaded as multipart WAV; the sidecar responds with the
// separated stereo WAV, which is written to the requested output path.
package sidecar
