package stt

import (
	"strconv"
	"strings"
)

// Word is one recognized word with its time span in seconds.
type Word struct {
	Text       string  `json:"word"`
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	Confidence float64 `json:"confidence"`
	// SpeakerTag is the provider-assigned speaker label, 0 when absent.
	SpeakerTag int `json:"speaker_tag"`
}

// Request describes one transcription call.
type Request struct {
	// AudioPath is the WAV file to transcribe.
	AudioPath string
	// SampleRate and NumChannels describe the audio encoding.
	SampleRate  int
	NumChannels int
	// Language is a BCP-47 code, e.g. "en-US".
	Language string
	// EnableDiarization asks the provider for per-word speaker tags.
	EnableDiarization bool
}

// Result is the provider's word-level transcription.
type Result struct {
	Transcript string
	Words      []Word
}

// DistinctSpeakerTags counts the distinct non-zero speaker tags in ws.
// Provider tags are only trusted when at least two distinct tags appear.
func DistinctSpeakerTags(ws []Word) int {
	seen := make(map[int]struct{})
	for _, w := range ws {
		if w.SpeakerTag != 0 {
			seen[w.SpeakerTag] = struct{}{}
		}
	}
	return len(seen)
}

// ParseTimestamp parses a provider timestamp like "1.234s" (the trailing
// unit is optional) into seconds.
func ParseTimestamp(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "s"), 64)
}
