// Package pipeline runs the top-level diarization state machine for one
// call: detect the call type, optionally separate a mono recording into
// pseudo-stereo, try the provider's native per-word speaker tags, fall
// back to acoustic diarization with semantic role correction, and finally
// to a single-speaker transcript. Run never returns an error; every stage
// failure is caught, logged, and advances the machine to the next stage.
package pipeline
