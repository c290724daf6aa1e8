package diarize

import (
	"github.com/skillsenselab/diarkit/stt"
	"github.com/skillsenselab/diarkit/voice"
)

// Speaker identities. A call never has more than two.
const (
	Speaker01 = "SPEAKER_01"
	Speaker02 = "SPEAKER_02"
)

// Method tags identifying which path produced a result.
const (
	MethodProviderNative   = "provider_native"
	MethodAcousticSemantic = "acoustic_semantic"
	MethodSingleSpeaker    = "single_speaker"
)

// Segment is a contiguous run of words attributed to one speaker.
type Segment struct {
	Speaker    string  `json:"speaker"`
	Start      float64 `json:"start_time"`
	End        float64 `json:"end_time"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`

	// Features holds the segment's acoustic descriptor when the acoustic
	// path produced it; zero-valued otherwise.
	Features voice.FeatureVector `json:"-"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 { return s.End - s.Start }

// Result is a speaker-attributed transcript plus the evidence behind it.
type Result struct {
	Segments []Segment        `json:"segments"`
	Profiles []*voice.Profile `json:"speaker_profiles,omitempty"`
	Method   string           `json:"method"`
}

// Speakers returns the distinct speaker ids in segment order.
func (r *Result) Speakers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, seg := range r.Segments {
		if !seen[seg.Speaker] {
			seen[seg.Speaker] = true
			out = append(out, seg.Speaker)
		}
	}
	return out
}

// segmentBuilder accumulates consecutive words into one Segment.
type segmentBuilder struct {
	speaker string
	words   []stt.Word
}

func (b *segmentBuilder) add(w stt.Word) {
	b.words = append(b.words, w)
}

func (b *segmentBuilder) empty() bool { return len(b.words) == 0 }

func (b *segmentBuilder) build() Segment {
	seg := Segment{
		Speaker: b.speaker,
		Start:   b.words[0].Start,
		End:     b.words[len(b.words)-1].End,
	}
	var conf float64
	for i, w := range b.words {
		if i > 0 {
			seg.Text += " "
		}
		seg.Text += w.Text
		conf += w.Confidence
	}
	seg.Confidence = conf / float64(len(b.words))
	return seg
}

func (b *segmentBuilder) reset(speaker string) {
	b.speaker = speaker
	b.words = b.words[:0]
}
