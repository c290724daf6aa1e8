package dsp

import "math"

const numMelFilters = 40

// MFCC returns nCoeff mel-frequency cepstral coefficients averaged across
// all analysis frames. An empty signal yields a zero vector.
func MFCC(x []float64, rate, nCoeff int) []float64 {
	out := make([]float64, nCoeff)
	frames := Frames(x, FrameLength, HopLength)
	if len(frames) == 0 {
		return out
	}
	window := HannWindow(FrameLength)
	filters := melFilterbank(numMelFilters, FrameLength, rate)

	logMel := make([]float64, numMelFilters)
	for _, frame := range frames {
		spec := PowerSpectrum(frame, window, FrameLength)

		for m, filter := range filters {
			var e float64
			for _, tap := range filter.taps {
				e += spec[tap.bin] * tap.weight
			}
			logMel[m] = math.Log(e + 1e-10)
		}

		coeffs := dct2(logMel, nCoeff)
		for i := range out {
			out[i] += coeffs[i]
		}
	}
	for i := range out {
		out[i] /= float64(len(frames))
	}
	return out
}

type filterTap struct {
	bin    int
	weight float64
}

type melFilter struct {
	taps []filterTap
}

// melFilterbank builds triangular filters spaced evenly on the mel scale
// from 0 Hz to Nyquist.
func melFilterbank(nFilters, nfft, rate int) []melFilter {
	loMel := hzToMel(0)
	hiMel := hzToMel(float64(rate) / 2)

	// nFilters+2 edge points on the mel scale.
	edges := make([]float64, nFilters+2)
	for i := range edges {
		mel := loMel + (hiMel-loMel)*float64(i)/float64(nFilters+1)
		edges[i] = melToHz(mel)
	}

	binHz := float64(rate) / float64(nfft)
	nBins := nfft/2 + 1

	filters := make([]melFilter, nFilters)
	for m := 0; m < nFilters; m++ {
		left, center, right := edges[m], edges[m+1], edges[m+2]
		var taps []filterTap
		for bin := 0; bin < nBins; bin++ {
			f := float64(bin) * binHz
			var w float64
			switch {
			case f > left && f < center:
				w = (f - left) / (center - left)
			case f >= center && f < right:
				w = (right - f) / (right - center)
			}
			if w > 0 {
				taps = append(taps, filterTap{bin: bin, weight: w})
			}
		}
		filters[m] = melFilter{taps: taps}
	}
	return filters
}

func hzToMel(f float64) float64 {
	return 2595 * math.Log10(1+f/700)
}

func melToHz(m float64) float64 {
	return 700 * (math.Pow(10, m/2595) - 1)
}

// dct2 computes the first n coefficients of the orthonormal DCT-II.
func dct2(x []float64, n int) []float64 {
	N := len(x)
	out := make([]float64, n)
	scale0 := math.Sqrt(1 / float64(N))
	scale := math.Sqrt(2 / float64(N))
	for k := 0; k < n && k < N; k++ {
		var sum float64
		for i := 0; i < N; i++ {
			sum += x[i] * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(N)))
		}
		if k == 0 {
			out[k] = sum * scale0
		} else {
			out[k] = sum * scale
		}
	}
	return out
}
