package voice

import (
	"math"
	"testing"

	"github.com/skillsenselab/diarkit/audio"
)

func tone(freq float64, rate, n int, amp float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return x
}

func monoClip(t *testing.T, samples []float64, rate int) *audio.Clip {
	t.Helper()
	c, err := audio.NewClip([][]float64{samples}, rate)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewExtractorValidation(t *testing.T) {
	clip := monoClip(t, tone(220, 16000, 16000, 0.5), 16000)

	t.Run("bad pitch range", func(t *testing.T) {
		cfg := DefaultExtractorConfig()
		cfg.PitchMax = cfg.PitchMin
		if _, err := NewExtractor(clip, cfg); err == nil {
			t.Error("expected validation error for pitch_max <= pitch_min")
		}
	})

	t.Run("nil clip", func(t *testing.T) {
		if _, err := NewExtractor(nil, DefaultExtractorConfig()); err == nil {
			t.Error("expected error for nil clip")
		}
	})
}

func TestExtractWindowMono(t *testing.T) {
	rate := 16000
	clip := monoClip(t, tone(150, rate, rate, 0.5), rate)
	ex, err := NewExtractor(clip, DefaultExtractorConfig())
	if err != nil {
		t.Fatal(err)
	}
	if ex.Stereo() {
		t.Fatal("expected mono extractor")
	}

	v := ex.ExtractWindow(0, 1.0)
	if math.Abs(v.F0-150) > 10 {
		t.Errorf("F0 = %v, want ~150", v.F0)
	}
	if v.StereoBalance != 0 || v.ChannelDifference != 0 || v.RightF0 != 0 {
		t.Error("mono vector must have zero stereo fields")
	}
	if !v.IsMono() {
		t.Error("IsMono() = false for mono vector")
	}
	if len(v.MFCC) != NumMFCC {
		t.Errorf("expected %d MFCCs, got %d", NumMFCC, len(v.MFCC))
	}
	if v.Energy <= 0 {
		t.Errorf("expected positive energy, got %v", v.Energy)
	}
}

func TestExtractWindowEmpty(t *testing.T) {
	rate := 16000
	clip := monoClip(t, tone(150, rate, rate, 0.5), rate)
	ex, err := NewExtractor(clip, DefaultExtractorConfig())
	if err != nil {
		t.Fatal(err)
	}

	v := ex.ExtractWindow(5.0, 6.0) // beyond the clip
	zero := ZeroFeatureVector()
	if v.F0 != zero.F0 || v.Energy != zero.Energy || len(v.MFCC) != NumMFCC {
		t.Errorf("expected zero vector for empty window, got %+v", v)
	}
}

func TestExtractWindowStereoBalance(t *testing.T) {
	rate := 16000
	loud := tone(150, rate, rate, 0.9)
	quiet := tone(150, rate, rate, 0.9)
	// Attenuate the right channel after normalization would equalize
	// peaks, so silence half of it instead.
	for i := rate / 2; i < rate; i++ {
		quiet[i] = 0
	}
	clip, err := audio.NewClip([][]float64{loud, quiet}, rate)
	if err != nil {
		t.Fatal(err)
	}
	ex, err := NewExtractor(clip, DefaultExtractorConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !ex.Stereo() {
		t.Fatal("expected stereo extractor")
	}

	v := ex.ExtractWindow(0, 1.0)
	if v.StereoBalance <= 0 {
		t.Errorf("expected positive balance toward left, got %v", v.StereoBalance)
	}
	if v.LeftF0 == 0 {
		t.Error("expected nonzero left F0")
	}
}

func TestProfileSummarize(t *testing.T) {
	p := NewProfile("SPEAKER_01")
	for _, f0 := range []float64{100, 110, 105} {
		v := ZeroFeatureVector()
		v.F0 = f0
		p.Add(v)
	}

	if p.SampleCount != 3 {
		t.Fatalf("expected 3 samples, got %d", p.SampleCount)
	}
	if math.Abs(p.AvgF0-105) > 1e-9 {
		t.Errorf("AvgF0 = %v, want 105", p.AvgF0)
	}
	if p.VoiceType != VoiceTypeMaleLow {
		t.Errorf("VoiceType = %q, want MALE_LOW", p.VoiceType)
	}
	if p.Stability <= 0 || p.Stability > 1 {
		t.Errorf("Stability = %v, want in (0, 1]", p.Stability)
	}
}

func TestClassifyVoiceType(t *testing.T) {
	tests := []struct {
		f0   float64
		want string
	}{
		{80, VoiceTypeMaleLow},
		{119.9, VoiceTypeMaleLow},
		{120, VoiceTypeMaleMid},
		{179, VoiceTypeMaleMid},
		{180, VoiceTypeFemaleLow},
		{249, VoiceTypeFemaleLow},
		{250, VoiceTypeFemaleHigh},
		{300, VoiceTypeFemaleHigh},
	}
	for _, tt := range tests {
		if got := classifyVoiceType(tt.f0); got != tt.want {
			t.Errorf("classifyVoiceType(%v) = %q, want %q", tt.f0, got, tt.want)
		}
	}
}

func TestClassifyStereoPosition(t *testing.T) {
	tests := []struct {
		balance float64
		want    string
	}{
		{0, StereoPositionCenter},
		{0.05, StereoPositionCenter},
		{-0.05, StereoPositionCenter},
		{0.2, StereoPositionLeft},
		{-0.2, StereoPositionRight},
		{0.1, StereoPositionRight},
	}
	for _, tt := range tests {
		if got := classifyStereoPosition(tt.balance); got != tt.want {
			t.Errorf("classifyStereoPosition(%v) = %q, want %q", tt.balance, got, tt.want)
		}
	}
}

func TestProfileStabilityDecreasesWithVariance(t *testing.T) {
	steady := NewProfile("SPEAKER_01")
	wobbly := NewProfile("SPEAKER_02")
	for i := 0; i < 4; i++ {
		v := ZeroFeatureVector()
		v.F0 = 150
		steady.Add(v)

		w := ZeroFeatureVector()
		w.F0 = 100 + float64(i)*50
		wobbly.Add(w)
	}
	if steady.Stability <= wobbly.Stability {
		t.Errorf("steady stability %v should exceed wobbly %v", steady.Stability, wobbly.Stability)
	}
}

func TestSanitizeReplacesNonFinite(t *testing.T) {
	v := FeatureVector{
		F0:   math.NaN(),
		MFCC: []float64{math.Inf(1), 1, 2},
	}
	v.sanitize()
	if v.F0 != 0 {
		t.Errorf("expected NaN F0 zeroed, got %v", v.F0)
	}
	if v.MFCC[0] != 0 || v.MFCC[1] != 1 {
		t.Errorf("expected Inf MFCC zeroed, got %v", v.MFCC)
	}
}
