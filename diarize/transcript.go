package diarize

import (
	"fmt"
	"strings"

	"github.com/skillsenselab/diarkit/stt"
	"github.com/skillsenselab/diarkit/voice"
)

// FormatTranscript renders the primary plain-text output: one line per
// segment, "<speaker-id>: <text>", in chronological order.
func FormatTranscript(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(seg.Speaker)
		b.WriteString(": ")
		b.WriteString(seg.Text)
	}
	return b.String()
}

// SegmentsFromSpeakerTags groups consecutive words sharing a provider
// speaker tag into segments. Tags map to SPEAKER_01/SPEAKER_02 in order
// of first appearance; any further distinct tag folds into SPEAKER_02.
// The result is only meaningful when the words carry at least two
// distinct tags (see stt.DistinctSpeakerTags).
func SegmentsFromSpeakerTags(words []stt.Word) []Segment {
	if len(words) == 0 {
		return nil
	}

	tagToSpeaker := make(map[int]string)
	speakerFor := func(tag int) string {
		if s, ok := tagToSpeaker[tag]; ok {
			return s
		}
		s := Speaker02
		if len(tagToSpeaker) == 0 {
			s = Speaker01
		}
		tagToSpeaker[tag] = s
		return s
	}

	var segments []Segment
	builder := segmentBuilder{speaker: speakerFor(words[0].SpeakerTag)}
	for _, w := range words {
		speaker := speakerFor(w.SpeakerTag)
		if speaker != builder.speaker && !builder.empty() {
			segments = append(segments, builder.build())
			builder.reset(speaker)
		}
		builder.add(w)
	}
	if !builder.empty() {
		segments = append(segments, builder.build())
	}
	return segments
}

// SingleSpeakerSegment concatenates all words under one speaker id: the
// terminal fallback that always succeeds.
func SingleSpeakerSegment(words []stt.Word) Segment {
	builder := segmentBuilder{speaker: Speaker01}
	for _, w := range words {
		builder.add(w)
	}
	if builder.empty() {
		return Segment{Speaker: Speaker01}
	}
	return builder.build()
}

// SpeakerSummary renders a short human-readable profile line, e.g. for
// logs: "SPEAKER_01: MALE_MID f0=140.2Hz pos=LEFT stability=0.93".
func SpeakerSummary(p *voice.Profile) string {
	return fmt.Sprintf("%s: %s f0=%.1fHz pos=%s stability=%.2f",
		p.SpeakerID, p.VoiceType, p.AvgF0, p.StereoPosition, p.Stability)
}
