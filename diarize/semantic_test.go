package diarize

import (
	"math"
	"testing"
)

func testCorrector(t *testing.T) *RoleCorrector {
	t.Helper()
	c, err := NewRoleCorrector(DefaultSemanticConfig(), DefaultVocabulary(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func seg(speaker, text string, start, end float64) Segment {
	return Segment{Speaker: speaker, Text: text, Start: start, End: end, Confidence: 0.7}
}

func TestIdentifyRoles(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you?", 0, 3),
		seg(Speaker02, "My toyota is making a knocking noise", 3.5, 6),
	}

	managerID, clientID := c.identifyRoles(segments)
	if managerID != Speaker01 || clientID != Speaker02 {
		t.Errorf("roles = (%s, %s), want (%s, %s)", managerID, clientID, Speaker01, Speaker02)
	}
}

func TestIdentifyRolesTieFavorsFirstSpeaker(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker02, "uh huh", 0, 1),
		seg(Speaker01, "right", 1.5, 2),
	}

	managerID, _ := c.identifyRoles(segments)
	if managerID != Speaker01 {
		t.Errorf("tie resolved to %s, want %s", managerID, Speaker01)
	}
}

func TestCorrectRelabelsPriceQuoteToManager(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you", 0, 3),
		seg(Speaker02, "My toyota won't start since yesterday morning", 3.5, 7),
		seg(Speaker02, "The diagnostic will cost one hundred dollars", 7.5, 11),
	}

	corrected, changes := c.Correct(segments)
	if changes < 1 {
		t.Fatalf("changes = %d, want at least 1", changes)
	}
	if corrected[2].Speaker != Speaker01 {
		t.Errorf("price quote attributed to %s, want %s", corrected[2].Speaker, Speaker01)
	}
	if corrected[1].Speaker != Speaker02 {
		t.Errorf("symptom report attributed to %s, want %s", corrected[1].Speaker, Speaker02)
	}
}

func TestCorrectKeepsPriceQuestionWithClient(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you", 0, 3),
		seg(Speaker02, "My car is leaking oil and it keeps stalling badly", 3.5, 7),
		seg(Speaker02, "And how much will the whole thing cost?", 7.5, 11),
	}

	corrected, _ := c.Correct(segments)
	if corrected[2].Speaker != Speaker02 {
		t.Errorf("price question attributed to %s, want %s", corrected[2].Speaker, Speaker02)
	}
}

func TestCorrectSandwichSmoothing(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you", 0, 3),
		seg(Speaker02, "hm well", 3.2, 3.7),
		seg(Speaker01, "What seems to be the trouble today", 4, 7),
	}

	corrected, changes := c.Correct(segments)
	if changes != 1 {
		t.Errorf("changes = %d, want 1", changes)
	}
	for i, s := range corrected {
		if s.Speaker != Speaker01 {
			t.Errorf("segment %d speaker = %s, want %s", i, s.Speaker, Speaker01)
		}
	}
}

func TestCorrectProtectsAcknowledgements(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you", 0, 3),
		seg(Speaker02, "yes thank you", 3.2, 3.9),
		seg(Speaker01, "What seems to be the trouble today", 4.2, 7),
	}

	corrected, changes := c.Correct(segments)
	if changes != 0 {
		t.Errorf("changes = %d, want 0", changes)
	}
	if corrected[1].Speaker != Speaker02 {
		t.Errorf("acknowledgement reassigned to %s", corrected[1].Speaker)
	}
}

func TestCorrectSplitsHiddenTurnBoundary(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you", 0, 3),
		seg(Speaker02, "the car is knocking what year is it", 10, 20),
	}

	corrected, changes := c.Correct(segments)
	if changes < 1 {
		t.Fatal("expected at least one change from the split")
	}
	if len(corrected) != 3 {
		t.Fatalf("got %d segments, want 3 after split", len(corrected))
	}

	first, second := corrected[1], corrected[2]
	if first.Speaker != Speaker02 {
		t.Errorf("pre-split part speaker = %s, want %s", first.Speaker, Speaker02)
	}
	if second.Speaker != Speaker01 {
		t.Errorf("post-split part speaker = %s, want %s", second.Speaker, Speaker01)
	}
	if second.Text != "what year is it" {
		t.Errorf("post-split text = %q", second.Text)
	}
	if math.Abs(first.End-second.Start) > 1e-9 {
		t.Errorf("split boundary mismatch: %v vs %v", first.End, second.Start)
	}
	if first.End <= first.Start || second.End <= second.Start {
		t.Error("split produced an empty time range")
	}
}

func TestCorrectSplitsAfterCurlyApostrophe(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you", 0, 3),
		seg(Speaker02, "it won’t start at all what year is it", 10, 20),
	}

	corrected, _ := c.Correct(segments)
	if len(corrected) != 3 {
		t.Fatalf("got %d segments, want 3 after split", len(corrected))
	}
	if corrected[1].Text != "it won’t start at all" {
		t.Errorf("pre-split text = %q, want %q", corrected[1].Text, "it won’t start at all")
	}
	if corrected[2].Text != "what year is it" {
		t.Errorf("post-split text = %q, want %q", corrected[2].Text, "what year is it")
	}
	if corrected[2].Speaker != Speaker01 {
		t.Errorf("post-split part speaker = %s, want %s", corrected[2].Speaker, Speaker01)
	}
	if math.Abs(corrected[1].End-corrected[2].Start) > 1e-9 {
		t.Errorf("split boundary mismatch: %v vs %v", corrected[1].End, corrected[2].Start)
	}
}

func TestCorrectIsIdempotent(t *testing.T) {
	c := testCorrector(t)
	segments := []Segment{
		seg(Speaker01, "Hello, service center, how can I help you", 0, 3),
		seg(Speaker02, "My toyota won't start since yesterday morning", 3.5, 7),
		seg(Speaker02, "The diagnostic will cost one hundred dollars", 7.5, 11),
		seg(Speaker02, "hm well", 11.2, 11.6),
		seg(Speaker01, "We have an opening tomorrow for the inspection", 12, 15),
	}

	once, _ := c.Correct(segments)
	twice, changes := c.Correct(once)
	if changes != 0 {
		t.Errorf("second pass made %d changes, want 0", changes)
	}
	if len(twice) != len(once) {
		t.Fatalf("second pass changed segment count: %d vs %d", len(twice), len(once))
	}
	for i := range once {
		if twice[i].Speaker != once[i].Speaker || twice[i].Text != once[i].Text {
			t.Errorf("segment %d changed on second pass: %+v vs %+v", i, twice[i], once[i])
		}
	}
}

func TestCorrectEmptyInput(t *testing.T) {
	c := testCorrector(t)
	out, changes := c.Correct(nil)
	if out != nil || changes != 0 {
		t.Errorf("got (%v, %d), want (nil, 0)", out, changes)
	}
}

func TestCleanTextPreservesLength(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello  world "},
		{"won't start", "won't start"},
		{"Cost: $200?", "cost   200 "},
		{"won’t start", "won   t start"},
		{"а he said", "   he said"},
	}
	for _, tt := range tests {
		got := cleanText(tt.in)
		if got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(got) != len(tt.in) {
			t.Errorf("cleanText(%q) changed length from %d to %d", tt.in, len(tt.in), len(got))
		}
	}
}

func TestIndexTermWordBoundaries(t *testing.T) {
	tests := []struct {
		text string
		term string
		want int
	}{
		{"hi there", "i", -1},
		{"i think so", "i", 0},
		{"so do i", "i", 6},
		{"my car won't start today", "won't start", 7},
		{"scar tissue", "car", -1},
		{"the car", "car", 4},
		{"", "car", -1},
		{"car", "", -1},
	}
	for _, tt := range tests {
		if got := indexTerm(tt.text, tt.term); got != tt.want {
			t.Errorf("indexTerm(%q, %q) = %d, want %d", tt.text, tt.term, got, tt.want)
		}
	}
}
