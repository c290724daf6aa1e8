package dsp

import (
	"math"
	"sort"
)

const yinThreshold = 0.1

// YinPitch estimates the fundamental frequency of x in Hz using the YIN
// algorithm, framed with the default analysis layout. Per-frame estimates
// outside [fmin, fmax] are discarded and the median of the rest is
// returned, or 0 when no frame yields a usable estimate.
func YinPitch(x []float64, rate int, fmin, fmax float64) float64 {
	if len(x) == 0 || fmin <= 0 || fmax <= fmin {
		return 0
	}
	frames := Frames(x, FrameLength, HopLength)

	var estimates []float64
	for _, frame := range frames {
		if f0 := yinFrame(frame, rate, fmin, fmax); f0 > 0 {
			estimates = append(estimates, f0)
		}
	}
	if len(estimates) == 0 {
		return 0
	}
	sort.Float64s(estimates)
	mid := len(estimates) / 2
	if len(estimates)%2 == 1 {
		return estimates[mid]
	}
	return (estimates[mid-1] + estimates[mid]) / 2
}

func yinFrame(frame []float64, rate int, fmin, fmax float64) float64 {
	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if energy < 1e-10 {
		return 0
	}

	w := len(frame) / 2
	tauMin := int(float64(rate) / fmax)
	tauMax := int(float64(rate) / fmin)
	if tauMin < 1 {
		tauMin = 1
	}
	if tauMax >= w {
		tauMax = w - 1
	}
	if tauMax <= tauMin {
		return 0
	}

	// Squared difference function.
	diff := make([]float64, tauMax+1)
	for tau := 1; tau <= tauMax; tau++ {
		var sum float64
		for j := 0; j < w; j++ {
			d := frame[j] - frame[j+tau]
			sum += d * d
		}
		diff[tau] = sum
	}

	// Cumulative mean normalized difference.
	cmnd := make([]float64, tauMax+1)
	cmnd[0] = 1
	var running float64
	for tau := 1; tau <= tauMax; tau++ {
		running += diff[tau]
		if running == 0 {
			cmnd[tau] = 1
		} else {
			cmnd[tau] = diff[tau] * float64(tau) / running
		}
	}

	// First dip below the threshold, walked down to its local minimum.
	tau := -1
	for t := tauMin; t <= tauMax; t++ {
		if cmnd[t] < yinThreshold {
			for t+1 <= tauMax && cmnd[t+1] < cmnd[t] {
				t++
			}
			tau = t
			break
		}
	}
	// No dip: fall back to the global minimum in range.
	if tau < 0 {
		best := math.Inf(1)
		for t := tauMin; t <= tauMax; t++ {
			if cmnd[t] < best {
				best = cmnd[t]
				tau = t
			}
		}
	}
	if tau <= 0 {
		return 0
	}

	refined := parabolicInterp(cmnd, tau)
	f0 := float64(rate) / refined
	if f0 < fmin || f0 > fmax {
		return 0
	}
	return f0
}

// parabolicInterp refines the lag estimate by fitting a parabola through
// the minimum and its neighbors.
func parabolicInterp(cmnd []float64, tau int) float64 {
	if tau <= 0 || tau >= len(cmnd)-1 {
		return float64(tau)
	}
	a := cmnd[tau-1]
	b := cmnd[tau]
	c := cmnd[tau+1]
	den := a - 2*b + c
	if den == 0 {
		return float64(tau)
	}
	return float64(tau) + (a-c)/(2*den)
}
