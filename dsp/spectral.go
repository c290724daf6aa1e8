package dsp

import "math"

// SpectralCentroid returns the mean spectral centroid in Hz across all
// analysis frames, or 0 for an empty signal.
func SpectralCentroid(x []float64, rate int) float64 {
	return meanOverFrames(x, rate, frameCentroid)
}

// SpectralRolloff returns the mean frequency in Hz below which 85% of the
// spectral energy lies, across all analysis frames.
func SpectralRolloff(x []float64, rate int) float64 {
	return meanOverFrames(x, rate, frameRolloff)
}

// ZeroCrossingRate returns the mean fraction of sign changes per frame.
func ZeroCrossingRate(x []float64) float64 {
	frames := Frames(x, FrameLength, HopLength)
	if len(frames) == 0 {
		return 0
	}
	var sum float64
	for _, frame := range frames {
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if (frame[i-1] >= 0) != (frame[i] >= 0) {
				crossings++
			}
		}
		sum += float64(crossings) / float64(len(frame))
	}
	return sum / float64(len(frames))
}

// SpectralContrast returns the mean peak-to-valley spectral contrast in dB
// across octave bands and analysis frames. Bands start at 200 Hz and
// double up to the Nyquist frequency.
func SpectralContrast(x []float64, rate int) float64 {
	frames := Frames(x, FrameLength, HopLength)
	if len(frames) == 0 {
		return 0
	}
	window := HannWindow(FrameLength)
	nyquist := float64(rate) / 2

	var sum float64
	var count int
	for _, frame := range frames {
		spec := PowerSpectrum(frame, window, FrameLength)
		binHz := float64(rate) / float64(FrameLength)

		lo := 0.0
		hi := 200.0
		for lo < nyquist {
			if hi > nyquist {
				hi = nyquist
			}
			loBin := int(lo / binHz)
			hiBin := int(hi / binHz)
			if hiBin > len(spec) {
				hiBin = len(spec)
			}
			if hiBin > loBin+1 {
				sum += bandContrast(spec[loBin:hiBin])
				count++
			}
			lo = hi
			hi *= 2
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// bandContrast computes the dB gap between the top and bottom fifth of a
// band's power bins.
func bandContrast(band []float64) float64 {
	sorted := make([]float64, len(band))
	copy(sorted, band)
	insertionSort(sorted)

	k := len(sorted) / 5
	if k < 1 {
		k = 1
	}
	var valley, peak float64
	for i := 0; i < k; i++ {
		valley += sorted[i]
		peak += sorted[len(sorted)-1-i]
	}
	valley /= float64(k)
	peak /= float64(k)

	const eps = 1e-10
	return 10 * (math.Log10(peak+eps) - math.Log10(valley+eps))
}

func insertionSort(a []float64) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}

func meanOverFrames(x []float64, rate int, fn func(spec []float64, binHz float64) float64) float64 {
	frames := Frames(x, FrameLength, HopLength)
	if len(frames) == 0 {
		return 0
	}
	window := HannWindow(FrameLength)
	binHz := float64(rate) / float64(FrameLength)

	var sum float64
	for _, frame := range frames {
		spec := PowerSpectrum(frame, window, FrameLength)
		sum += fn(spec, binHz)
	}
	return sum / float64(len(frames))
}

func frameCentroid(spec []float64, binHz float64) float64 {
	var num, den float64
	for i, p := range spec {
		num += float64(i) * binHz * p
		den += p
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func frameRolloff(spec []float64, binHz float64) float64 {
	var total float64
	for _, p := range spec {
		total += p
	}
	if total == 0 {
		return 0
	}
	threshold := 0.85 * total
	var cum float64
	for i, p := range spec {
		cum += p
		if cum >= threshold {
			return float64(i) * binHz
		}
	}
	return float64(len(spec)-1) * binHz
}
