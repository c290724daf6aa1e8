package separation

import (
	"context"

	"github.com/skillsenselab/diarkit/provider"
)

// Request names the mono input file and the stereo output file to write.
type Request struct {
	InputPath  string
	OutputPath string
}

// Provider is a source-separation backend.
type Provider interface {
	provider.Provider

	// Separate splits the mono recording at InputPath into a two-channel
	// recording at OutputPath, one estimated speaker per channel.
	Separate(ctx context.Context, req Request) error
}

// NewRegistry creates an empty registry of separation backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
