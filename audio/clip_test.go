package audio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestNewClipValidation(t *testing.T) {
	tests := []struct {
		name    string
		samples [][]float64
		rate    int
		wantErr bool
	}{
		{"valid mono", [][]float64{{0.1, 0.2}}, 16000, false},
		{"valid stereo", [][]float64{{0.1, 0.2}, {0.3, 0.4}}, 16000, false},
		{"zero rate", [][]float64{{0.1}}, 0, true},
		{"no channels", [][]float64{}, 16000, true},
		{"ragged channels", [][]float64{{0.1, 0.2}, {0.3}}, 16000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClip(tt.samples, tt.rate)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClip() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClipDuration(t *testing.T) {
	c := &Clip{Samples: [][]float64{make([]float64, 16000)}, Rate: 16000}
	if got := c.Duration(); got != 1.0 {
		t.Errorf("Duration() = %v, want 1.0", got)
	}
}

func TestClipWindow(t *testing.T) {
	ch := make([]float64, 100)
	for i := range ch {
		ch[i] = float64(i)
	}
	c := &Clip{Samples: [][]float64{ch}, Rate: 10}

	t.Run("interior window", func(t *testing.T) {
		w := c.Window(2.0, 5.0)
		if w.Len() != 30 {
			t.Fatalf("expected 30 samples, got %d", w.Len())
		}
		if w.Samples[0][0] != 20 {
			t.Errorf("expected window to start at sample 20, got %v", w.Samples[0][0])
		}
	})

	t.Run("clamped past end", func(t *testing.T) {
		w := c.Window(8.0, 20.0)
		if w.Len() != 20 {
			t.Errorf("expected 20 samples, got %d", w.Len())
		}
	})

	t.Run("inverted bounds yield empty", func(t *testing.T) {
		w := c.Window(5.0, 2.0)
		if w.Len() != 0 {
			t.Errorf("expected empty window, got %d samples", w.Len())
		}
	})

	t.Run("negative start clamped", func(t *testing.T) {
		w := c.Window(-1.0, 1.0)
		if w.Len() != 10 {
			t.Errorf("expected 10 samples, got %d", w.Len())
		}
	})
}

func TestClipMono(t *testing.T) {
	c := &Clip{
		Samples: [][]float64{{1.0, 0.0}, {0.0, 1.0}},
		Rate:    16000,
	}
	m := c.Mono()
	if m.Channels() != 1 {
		t.Fatalf("expected 1 channel, got %d", m.Channels())
	}
	if m.Samples[0][0] != 0.5 || m.Samples[0][1] != 0.5 {
		t.Errorf("expected averaged samples [0.5 0.5], got %v", m.Samples[0])
	}
}

func TestClipNormalize(t *testing.T) {
	c := &Clip{Samples: [][]float64{{0.25, -0.5}}, Rate: 16000}
	c.Normalize()
	if c.Samples[0][1] != -1.0 {
		t.Errorf("expected peak -1.0, got %v", c.Samples[0][1])
	}
	if c.Samples[0][0] != 0.5 {
		t.Errorf("expected 0.5 after scaling, got %v", c.Samples[0][0])
	}
}

func TestClipNormalizeSilence(t *testing.T) {
	c := &Clip{Samples: [][]float64{{0, 0, 0}}, Rate: 16000}
	c.Normalize()
	for _, s := range c.Samples[0] {
		if s != 0 {
			t.Fatalf("silence must stay silent, got %v", s)
		}
	}
}

func TestClipRMS(t *testing.T) {
	c := &Clip{Samples: [][]float64{{0.5, -0.5, 0.5, -0.5}}, Rate: 16000}
	if got := c.RMS(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("RMS() = %v, want 0.5", got)
	}
	if got := c.RMS(1); got != 0 {
		t.Errorf("RMS of missing channel = %v, want 0", got)
	}
}

func TestClipResample(t *testing.T) {
	c := &Clip{Samples: [][]float64{{0, 1, 2, 3}}, Rate: 4}
	out, err := c.Resample(8)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}
	if out.Rate != 8 || out.Len() != 8 {
		t.Fatalf("expected 8 samples at 8 Hz, got %d at %d Hz", out.Len(), out.Rate)
	}
	// Interpolated midpoint between samples 0 and 1.
	if math.Abs(out.Samples[0][1]-0.5) > 1e-12 {
		t.Errorf("expected interpolated 0.5, got %v", out.Samples[0][1])
	}
}

func TestClipResampleSameRate(t *testing.T) {
	c := &Clip{Samples: [][]float64{{0.1}}, Rate: 16000}
	out, err := c.Resample(16000)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}
	if out != c {
		t.Error("expected same clip when rate matches")
	}
}

func TestWAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")

	n := 1600
	left := make([]float64, n)
	right := make([]float64, n)
	for i := 0; i < n; i++ {
		left[i] = 0.5 * math.Sin(2*math.Pi*220*float64(i)/16000)
		right[i] = 0.25 * math.Sin(2*math.Pi*440*float64(i)/16000)
	}
	src := &Clip{Samples: [][]float64{left, right}, Rate: 16000}

	if err := WriteWAV(path, src); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if got.Rate != 16000 || got.Channels() != 2 {
		t.Fatalf("expected stereo at 16 kHz, got %d channels at %d Hz", got.Channels(), got.Rate)
	}
	if got.Len() != n {
		t.Fatalf("expected %d samples, got %d", n, got.Len())
	}
	// 16-bit quantization allows a small error.
	for i := 0; i < n; i += 100 {
		if math.Abs(got.Samples[0][i]-left[i]) > 1e-3 {
			t.Fatalf("sample %d: got %v, want %v", i, got.Samples[0][i], left[i])
		}
	}
}

func TestReadWAVMissingFile(t *testing.T) {
	if _, err := ReadWAV("/nonexistent/call.wav"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
