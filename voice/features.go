package voice

import "math"

// NumMFCC is the number of cepstral coefficients in a FeatureVector.
const NumMFCC = 13

// FeatureVector describes one audio window. Stereo fields (StereoBalance,
// ChannelDifference, LeftF0, RightF0) are zero for mono audio. A vector is
// immutable once computed and contains only finite values.
type FeatureVector struct {
	F0               float64
	SpectralCentroid float64
	SpectralRolloff  float64
	SpectralContrast float64
	ZeroCrossingRate float64
	MFCC             []float64
	Energy           float64

	StereoBalance     float64
	ChannelDifference float64
	LeftF0            float64
	RightF0           float64
}

// ZeroFeatureVector returns the neutral vector used for empty windows.
func ZeroFeatureVector() FeatureVector {
	return FeatureVector{MFCC: make([]float64, NumMFCC)}
}

// IsMono reports whether the vector came from single-channel audio.
func (v FeatureVector) IsMono() bool {
	return v.RightF0 == 0 && v.ChannelDifference == 0
}

// sanitize replaces non-finite values with zero.
func (v *FeatureVector) sanitize() {
	fix := func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	}
	v.F0 = fix(v.F0)
	v.SpectralCentroid = fix(v.SpectralCentroid)
	v.SpectralRolloff = fix(v.SpectralRolloff)
	v.SpectralContrast = fix(v.SpectralContrast)
	v.ZeroCrossingRate = fix(v.ZeroCrossingRate)
	v.Energy = fix(v.Energy)
	v.StereoBalance = fix(v.StereoBalance)
	v.ChannelDifference = fix(v.ChannelDifference)
	v.LeftF0 = fix(v.LeftF0)
	v.RightF0 = fix(v.RightF0)
	for i := range v.MFCC {
		v.MFCC[i] = fix(v.MFCC[i])
	}
}
