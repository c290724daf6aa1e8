package voice

import (
	"math"

	"github.com/skillsenselab/diarkit/audio"
	"github.com/skillsenselab/diarkit/dsp"
	"github.com/skillsenselab/diarkit/errors"
	"github.com/skillsenselab/diarkit/validation"
)

// ExtractorConfig tunes feature extraction.
type ExtractorConfig struct {
	// PitchMin and PitchMax bound the F0 search in Hz.
	PitchMin float64 `mapstructure:"pitch_min" validate:"gt=0"`
	PitchMax float64 `mapstructure:"pitch_max" validate:"gtfield=PitchMin"`
	// NumMFCC is the number of cepstral coefficients per vector.
	NumMFCC int `mapstructure:"num_mfcc" validate:"gte=1,lte=40"`
}

// DefaultExtractorConfig returns the speech-tuned defaults.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		PitchMin: 50,
		PitchMax: 400,
		NumMFCC:  NumMFCC,
	}
}

// Extractor computes FeatureVectors for windows of one call's audio.
// Channels are peak-normalized independently at construction; windows are
// then cut from the normalized samples.
type Extractor struct {
	cfg      ExtractorConfig
	channels [][]float64
	rate     int
}

// NewExtractor prepares an Extractor for the given clip. At most the
// first two channels are analyzed.
func NewExtractor(clip *audio.Clip, cfg ExtractorConfig) (*Extractor, error) {
	if err := validation.Validate(cfg); err != nil {
		return nil, err
	}
	if clip == nil || clip.Channels() == 0 {
		return nil, errors.InvalidInput("clip", "must have at least one channel")
	}

	n := clip.Channels()
	if n > 2 {
		n = 2
	}
	channels := make([][]float64, n)
	for i := 0; i < n; i++ {
		channels[i] = normalizeCopy(clip.Samples[i])
	}
	return &Extractor{cfg: cfg, channels: channels, rate: clip.Rate}, nil
}

// Stereo reports whether the extractor analyzes two channels.
func (e *Extractor) Stereo() bool { return len(e.channels) == 2 }

// ExtractWindow computes the FeatureVector for the [start, end) window in
// seconds. An empty window yields the zero vector.
func (e *Extractor) ExtractWindow(start, end float64) FeatureVector {
	left := window(e.channels[0], e.rate, start, end)
	if len(left) == 0 {
		return ZeroFeatureVector()
	}

	var right []float64
	if e.Stereo() {
		right = window(e.channels[1], e.rate, start, end)
	}

	f0Left := dsp.YinPitch(left, e.rate, e.cfg.PitchMin, e.cfg.PitchMax)
	var f0Right float64
	if len(right) > 0 {
		f0Right = dsp.YinPitch(right, e.rate, e.cfg.PitchMin, e.cfg.PitchMax)
	}

	f0 := f0Left
	if f0Right > 0 {
		f0 = (f0Left + f0Right) / 2
	}

	v := FeatureVector{
		F0:               f0,
		SpectralCentroid: channelMean(left, right, func(ch []float64) float64 { return dsp.SpectralCentroid(ch, e.rate) }),
		SpectralRolloff:  channelMean(left, right, func(ch []float64) float64 { return dsp.SpectralRolloff(ch, e.rate) }),
		SpectralContrast: channelMean(left, right, func(ch []float64) float64 { return dsp.SpectralContrast(ch, e.rate) }),
		ZeroCrossingRate: channelMean(left, right, dsp.ZeroCrossingRate),
		MFCC:             e.mfcc(left, right),
		Energy:           sumSquares(left) + sumSquares(right),
		LeftF0:           f0Left,
		RightF0:          f0Right,
	}

	if len(right) > 0 {
		el := sumSquares(left)
		er := sumSquares(right)
		v.StereoBalance = (el - er) / (el + er + 1e-10)
		if f0Right > 0 {
			v.ChannelDifference = math.Abs(f0Left - f0Right)
		}
	}

	v.sanitize()
	return v
}

func (e *Extractor) mfcc(left, right []float64) []float64 {
	out := dsp.MFCC(left, e.rate, e.cfg.NumMFCC)
	if len(right) > 0 {
		rc := dsp.MFCC(right, e.rate, e.cfg.NumMFCC)
		for i := range out {
			out[i] = (out[i] + rc[i]) / 2
		}
	}
	return out
}

// channelMean applies fn per channel and averages across the channels
// that exist.
func channelMean(left, right []float64, fn func([]float64) float64) float64 {
	l := fn(left)
	if len(right) == 0 {
		return l
	}
	return (l + fn(right)) / 2
}

func window(ch []float64, rate int, start, end float64) []float64 {
	lo := int(start * float64(rate))
	hi := int(end * float64(rate))
	if lo < 0 {
		lo = 0
	}
	if hi > len(ch) {
		hi = len(ch)
	}
	if lo >= hi {
		return nil
	}
	return ch[lo:hi]
}

func normalizeCopy(ch []float64) []float64 {
	out := make([]float64, len(ch))
	var peak float64
	for _, s := range ch {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		copy(out, ch)
		return out
	}
	for i, s := range ch {
		out[i] = s / peak
	}
	return out
}

func sumSquares(x []float64) float64 {
	var sum float64
	for _, s := range x {
		sum += s * s
	}
	return sum
}
