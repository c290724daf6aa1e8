package diarize

import (
	"fmt"
	"math"

	"github.com/skillsenselab/diarkit/audio"
	"github.com/skillsenselab/diarkit/validation"
)

// DetectorConfig tunes call-type detection.
type DetectorConfig struct {
	// MinChannelEnergyRatio is the minimum gap between the channels'
	// normalized energy shares for a stereo verdict.
	MinChannelEnergyRatio float64 `mapstructure:"min_channel_energy_ratio" validate:"gte=0,lte=1"`
	// MinChannelDifference is the minimum decorrelation (1-|r|) between
	// channels for a stereo verdict.
	MinChannelDifference float64 `mapstructure:"min_channel_difference" validate:"gte=0,lte=1"`
	// ActiveChannelRMS is the RMS both channels must exceed to count as
	// carrying a speaker.
	ActiveChannelRMS float64 `mapstructure:"active_channel_rms" validate:"gte=0"`
	// SilentChannelRMS is the RMS below which a channel is considered
	// empty, forcing a mono verdict.
	SilentChannelRMS float64 `mapstructure:"silent_channel_rms" validate:"gte=0"`
}

// DefaultDetectorConfig returns the tuned defaults.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinChannelEnergyRatio: 0.3,
		MinChannelDifference:  0.15,
		ActiveChannelRMS:      0.01,
		SilentChannelRMS:      0.001,
	}
}

// ChannelProfile carries the numeric diagnostics behind a call-type
// verdict.
type ChannelProfile struct {
	Channels          int     `json:"channels"`
	IsStereo          bool    `json:"is_stereo"`
	Reason            string  `json:"reason"`
	LeftEnergy        float64 `json:"left_energy"`
	RightEnergy       float64 `json:"right_energy"`
	LeftRatio         float64 `json:"left_ratio"`
	RightRatio        float64 `json:"right_ratio"`
	Correlation       float64 `json:"correlation"`
	ChannelDifference float64 `json:"channel_difference"`
	EnergyDifference  float64 `json:"energy_difference"`
}

// Detector classifies a recording as true stereo (one speaker per
// channel) or effectively mono (single channel, or two near-identical
// channels).
type Detector struct {
	cfg DetectorConfig
}

// NewDetector validates the config and returns a Detector.
func NewDetector(cfg DetectorConfig) (*Detector, error) {
	if err := validation.Validate(cfg); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Detect inspects the clip and returns the stereo verdict with its
// diagnostics. Pure function of the input audio.
func (d *Detector) Detect(clip *audio.Clip) (bool, ChannelProfile) {
	profile := ChannelProfile{Channels: clip.Channels(), Correlation: 1.0}

	if clip.Channels() < 2 {
		profile.Reason = "mono audio (1 channel)"
		return false, profile
	}

	left := normalizePeak(clip.Samples[0])
	right := normalizePeak(clip.Samples[1])

	profile.LeftEnergy = rms(left)
	profile.RightEnergy = rms(right)

	total := profile.LeftEnergy + profile.RightEnergy
	if total > 0 {
		profile.LeftRatio = profile.LeftEnergy / total
		profile.RightRatio = profile.RightEnergy / total
	} else {
		profile.LeftRatio = 0.5
		profile.RightRatio = 0.5
	}

	profile.Correlation = pearson(left, right)
	profile.ChannelDifference = 1.0 - math.Abs(profile.Correlation)
	profile.EnergyDifference = math.Abs(profile.LeftRatio - profile.RightRatio)

	isStereo := profile.ChannelDifference >= d.cfg.MinChannelDifference &&
		profile.EnergyDifference >= d.cfg.MinChannelEnergyRatio &&
		profile.LeftEnergy > d.cfg.ActiveChannelRMS &&
		profile.RightEnergy > d.cfg.ActiveChannelRMS

	switch {
	case profile.LeftEnergy < d.cfg.SilentChannelRMS || profile.RightEnergy < d.cfg.SilentChannelRMS:
		isStereo = false
		profile.Reason = "one channel is empty or near-silent"
	case isStereo:
		profile.Reason = fmt.Sprintf("stereo: channels differ (diff=%.3f, energy_diff=%.3f)",
			profile.ChannelDifference, profile.EnergyDifference)
	default:
		profile.Reason = fmt.Sprintf("mono: channels are alike (diff=%.3f, energy_diff=%.3f)",
			profile.ChannelDifference, profile.EnergyDifference)
	}

	profile.IsStereo = isStereo
	return isStereo, profile
}

func normalizePeak(ch []float64) []float64 {
	var peak float64
	for _, s := range ch {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	out := make([]float64, len(ch))
	if peak == 0 {
		copy(out, ch)
		return out
	}
	for i, s := range ch {
		out[i] = s / peak
	}
	return out
}

func rms(ch []float64) float64 {
	if len(ch) == 0 {
		return 0
	}
	var sum float64
	for _, s := range ch {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(ch)))
}

// pearson computes the correlation between two equally long channels.
// Undefined correlation (length mismatch, empty input, zero variance, NaN)
// resolves to 1.0, i.e. "identical channels".
func pearson(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1.0
	}
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(len(a))
	meanB /= float64(len(b))

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 1.0
	}
	r := cov / math.Sqrt(varA*varB)
	if math.IsNaN(r) {
		return 1.0
	}
	return r
}
