package dsp

import (
	"math"
	"math/bits"
)

// NextPow2 returns the smallest power of two >= n, and 1 for n <= 0.
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// FFT computes the in-place radix-2 Cooley-Tukey transform of x.
// len(x) must be a power of two.
func FFT(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	// Bit-reversal permutation.
	shift := 64 - uint(bits.Len(uint(n-1)))
	for i := 0; i < n; i++ {
		j := int(bits.Reverse64(uint64(i)) >> shift)
		if j > i {
			x[i], x[j] = x[j], x[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := -2 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				w := cmplxExp(step * float64(k))
				a := x[start+k]
				b := x[start+k+half] * w
				x[start+k] = a + b
				x[start+k+half] = a - b
			}
		}
	}
}

func cmplxExp(theta float64) complex128 {
	s, c := math.Sincos(theta)
	return complex(c, s)
}

// PowerSpectrum returns |FFT|^2 of a windowed frame, zero-padded to nfft,
// keeping the nfft/2+1 non-negative frequency bins.
func PowerSpectrum(frame, window []float64, nfft int) []float64 {
	buf := make([]complex128, nfft)
	for i := 0; i < len(frame) && i < nfft; i++ {
		w := 1.0
		if i < len(window) {
			w = window[i]
		}
		buf[i] = complex(frame[i]*w, 0)
	}
	FFT(buf)

	out := make([]float64, nfft/2+1)
	for i := range out {
		re := real(buf[i])
		im := imag(buf[i])
		out[i] = re*re + im*im
	}
	return out
}
