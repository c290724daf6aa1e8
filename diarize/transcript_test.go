package diarize

import (
	"math"
	"strings"
	"testing"

	"github.com/skillsenselab/diarkit/stt"
	"github.com/skillsenselab/diarkit/voice"
)

func TestFormatTranscript(t *testing.T) {
	segments := []Segment{
		{Speaker: Speaker01, Text: "hello how can i help"},
		{Speaker: Speaker02, Text: "my car is rattling"},
		{Speaker: Speaker01, Text: "when can you bring it in"},
	}

	got := FormatTranscript(segments)
	want := "SPEAKER_01: hello how can i help\n" +
		"SPEAKER_02: my car is rattling\n" +
		"SPEAKER_01: when can you bring it in"
	if got != want {
		t.Errorf("transcript:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTranscriptEmpty(t *testing.T) {
	if got := FormatTranscript(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestSegmentsFromSpeakerTags(t *testing.T) {
	words := []stt.Word{
		{Text: "hello", Start: 0.0, End: 0.4, Confidence: 0.9, SpeakerTag: 1},
		{Text: "there", Start: 0.5, End: 0.8, Confidence: 0.7, SpeakerTag: 1},
		{Text: "hi", Start: 1.2, End: 1.4, Confidence: 0.8, SpeakerTag: 2},
		{Text: "yes", Start: 2.0, End: 2.2, Confidence: 0.6, SpeakerTag: 1},
	}

	segments := SegmentsFromSpeakerTags(words)
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}

	if segments[0].Speaker != Speaker01 {
		t.Errorf("first tag mapped to %s, want %s", segments[0].Speaker, Speaker01)
	}
	if segments[0].Text != "hello there" {
		t.Errorf("first segment text = %q", segments[0].Text)
	}
	if segments[0].Start != 0.0 || segments[0].End != 0.8 {
		t.Errorf("first segment bounds = [%v, %v]", segments[0].Start, segments[0].End)
	}
	if math.Abs(segments[0].Confidence-0.8) > 1e-9 {
		t.Errorf("first segment confidence = %v, want 0.8", segments[0].Confidence)
	}

	if segments[1].Speaker != Speaker02 {
		t.Errorf("second tag mapped to %s, want %s", segments[1].Speaker, Speaker02)
	}
	if segments[2].Speaker != Speaker01 {
		t.Errorf("returning tag mapped to %s, want %s", segments[2].Speaker, Speaker01)
	}
}

func TestSegmentsFromSpeakerTagsFoldsExtraTags(t *testing.T) {
	words := []stt.Word{
		{Text: "a", Start: 0, End: 1, SpeakerTag: 1},
		{Text: "b", Start: 1, End: 2, SpeakerTag: 2},
		{Text: "c", Start: 2, End: 3, SpeakerTag: 3},
		{Text: "d", Start: 3, End: 4, SpeakerTag: 4},
	}

	segments := SegmentsFromSpeakerTags(words)
	for _, s := range segments {
		if s.Speaker != Speaker01 && s.Speaker != Speaker02 {
			t.Errorf("unexpected speaker id %s", s.Speaker)
		}
	}
	// Tags 2, 3 and 4 all fold into SPEAKER_02 and the consecutive runs
	// merge into a single segment.
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[1].Text != "b c d" {
		t.Errorf("folded segment text = %q", segments[1].Text)
	}
}

func TestSegmentsFromSpeakerTagsEmpty(t *testing.T) {
	if got := SegmentsFromSpeakerTags(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestSingleSpeakerSegment(t *testing.T) {
	words := []stt.Word{
		{Text: "hello", Start: 0.5, End: 0.9, Confidence: 0.8},
		{Text: "world", Start: 1.0, End: 1.5, Confidence: 0.6},
	}

	seg := SingleSpeakerSegment(words)
	if seg.Speaker != Speaker01 {
		t.Errorf("speaker = %s, want %s", seg.Speaker, Speaker01)
	}
	if seg.Text != "hello world" {
		t.Errorf("text = %q", seg.Text)
	}
	if seg.Start != 0.5 || seg.End != 1.5 {
		t.Errorf("bounds = [%v, %v]", seg.Start, seg.End)
	}
	if math.Abs(seg.Confidence-0.7) > 1e-9 {
		t.Errorf("confidence = %v, want 0.7", seg.Confidence)
	}
}

func TestSingleSpeakerSegmentNoWords(t *testing.T) {
	seg := SingleSpeakerSegment(nil)
	if seg.Speaker != Speaker01 || seg.Text != "" {
		t.Errorf("got %+v", seg)
	}
}

func TestSpeakerSummary(t *testing.T) {
	p := voice.NewProfile(Speaker01)
	p.Add(voice.FeatureVector{F0: 140.2, MFCC: make([]float64, voice.NumMFCC)})

	line := SpeakerSummary(p)
	if !strings.HasPrefix(line, "SPEAKER_01: ") {
		t.Errorf("summary %q missing speaker prefix", line)
	}
	if !strings.Contains(line, "f0=140.2Hz") {
		t.Errorf("summary %q missing pitch", line)
	}
}
