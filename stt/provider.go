package stt

import (
	"context"

	"github.com/skillsenselab/diarkit/provider"
)

// Provider is a speech-to-text backend.
type Provider interface {
	provider.Provider

	// Transcribe recognizes the audio and returns word-level results.
	Transcribe(ctx context.Context, req Request) (*Result, error)
}

// NewRegistry creates an empty registry of speech-to-text backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
