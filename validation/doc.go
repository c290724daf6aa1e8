// Package validation provides struct tag validation for diarkit configuration.
//
// Tunable diarization thresholds carry `validate` tags so that a bad config
// file fails fast at startup instead of skewing the pipeline silently:
//
//	type AcousticConfig struct {
//	    SegmentPause float64 `validate:"gt=0"`
//	}
//	err := validation.Validate(cfg)
package validation
