// Package logger provides structured logging for diarkit built on zerolog.
//
// A Logger is created from Config (or from environment variables) and can be
// scoped to a pipeline component:
//
//	log := logger.NewFromEnv("diarkit").WithComponent("acoustic")
//	log.Info("segmenting words", logger.Fields("words", len(words)))
//
// A package-level global logger is available for code that has no logger
// injected; components of the diarization pipeline should prefer injection.
package logger
