package dsp

import "math"

// Default analysis layout.
const (
	FrameLength = 2048
	HopLength   = 512
)

// HannWindow returns an n-point Hann window.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// Frames splits x into overlapping frames of frameLen samples every hop
// samples. A signal shorter than one frame yields a single zero-padded
// frame; an empty signal yields none.
func Frames(x []float64, frameLen, hop int) [][]float64 {
	if len(x) == 0 || frameLen <= 0 || hop <= 0 {
		return nil
	}
	if len(x) < frameLen {
		frame := make([]float64, frameLen)
		copy(frame, x)
		return [][]float64{frame}
	}
	var out [][]float64
	for start := 0; start+frameLen <= len(x); start += hop {
		out = append(out, x[start:start+frameLen])
	}
	return out
}
