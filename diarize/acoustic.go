package diarize

import (
	"fmt"
	"math"

	"github.com/skillsenselab/diarkit/errors"
	"github.com/skillsenselab/diarkit/logger"
	"github.com/skillsenselab/diarkit/stt"
	"github.com/skillsenselab/diarkit/validation"
	"github.com/skillsenselab/diarkit/voice"
)

// AcousticConfig names every heuristic constant of the acoustic pass so
// the algorithm stays tunable and testable in isolation.
type AcousticConfig struct {
	// SegmentPause is the silence in seconds that closes a segment.
	SegmentPause float64 `mapstructure:"segment_pause" validate:"gt=0"`

	// StereoBalanceThreshold routes a stereo segment to SPEAKER_02 when
	// its balance exceeds it; StereoConfidence is the fixed confidence of
	// stereo assignments.
	StereoBalanceThreshold float64 `mapstructure:"stereo_balance_threshold" validate:"gte=0,lte=1"`
	StereoConfidence       float64 `mapstructure:"stereo_confidence" validate:"gte=0,lte=1"`

	// BootstrapConfidence is assigned to the first two mono segments,
	// which create the two speakers unconditionally.
	BootstrapConfidence float64 `mapstructure:"bootstrap_confidence" validate:"gte=0,lte=1"`

	// Mono similarity weights and scales. Each sub-score is
	// 1/(1+|delta|/scale) against the profile aggregate.
	F0Weight       float64 `mapstructure:"f0_weight" validate:"gte=0"`
	SpectralWeight float64 `mapstructure:"spectral_weight" validate:"gte=0"`
	MFCCWeight     float64 `mapstructure:"mfcc_weight" validate:"gte=0"`
	ContrastWeight float64 `mapstructure:"contrast_weight" validate:"gte=0"`
	F0Scale        float64 `mapstructure:"f0_scale" validate:"gt=0"`
	SpectralScale  float64 `mapstructure:"spectral_scale" validate:"gt=0"`
	MFCCScale      float64 `mapstructure:"mfcc_scale" validate:"gt=0"`
	ContrastScale  float64 `mapstructure:"contrast_scale" validate:"gt=0"`

	// Stereo similarity weights add balance and channel-difference terms.
	StereoF0Weight       float64 `mapstructure:"stereo_f0_weight" validate:"gte=0"`
	StereoSpectralWeight float64 `mapstructure:"stereo_spectral_weight" validate:"gte=0"`
	StereoMFCCWeight     float64 `mapstructure:"stereo_mfcc_weight" validate:"gte=0"`
	StereoContrastWeight float64 `mapstructure:"stereo_contrast_weight" validate:"gte=0"`
	BalanceWeight        float64 `mapstructure:"balance_weight" validate:"gte=0"`
	ChannelDiffWeight    float64 `mapstructure:"channel_diff_weight" validate:"gte=0"`
	BalanceScale         float64 `mapstructure:"balance_scale" validate:"gt=0"`
	ChannelDiffScale     float64 `mapstructure:"channel_diff_scale" validate:"gt=0"`

	// NewSpeakerThreshold spawns a second speaker when the best score
	// falls below it (never a third); NewSpeakerConfidence is the
	// confidence of such a creation.
	NewSpeakerThreshold  float64 `mapstructure:"new_speaker_threshold" validate:"gte=0,lte=1"`
	NewSpeakerConfidence float64 `mapstructure:"new_speaker_confidence" validate:"gte=0,lte=1"`

	// Continuity bias: a speaker switch needs a score of at least
	// SwitchThreshold, otherwise the previous speaker is held and the
	// score discounted to max(MinHeldConfidence, score*SwitchPenaltyFactor).
	// Staying with the previous speaker earns ContinuityBonus.
	SwitchThreshold     float64 `mapstructure:"switch_threshold" validate:"gte=0,lte=1"`
	SwitchPenaltyFactor float64 `mapstructure:"switch_penalty_factor" validate:"gte=0,lte=1"`
	MinHeldConfidence   float64 `mapstructure:"min_held_confidence" validate:"gte=0,lte=1"`
	ContinuityBonus     float64 `mapstructure:"continuity_bonus" validate:"gte=0"`
}

// DefaultAcousticConfig returns the tuned defaults.
func DefaultAcousticConfig() AcousticConfig {
	return AcousticConfig{
		SegmentPause:           0.5,
		StereoBalanceThreshold: 0.1,
		StereoConfidence:       0.7,
		BootstrapConfidence:    0.5,

		F0Weight:       0.35,
		SpectralWeight: 0.10,
		MFCCWeight:     0.35,
		ContrastWeight: 0.20,
		F0Scale:        50,
		SpectralScale:  1000,
		MFCCScale:      10,
		ContrastScale:  5,

		StereoF0Weight:       0.2,
		StereoSpectralWeight: 0.1,
		StereoMFCCWeight:     0.15,
		StereoContrastWeight: 0.1,
		BalanceWeight:        0.25,
		ChannelDiffWeight:    0.2,
		BalanceScale:         0.2,
		ChannelDiffScale:     20,

		NewSpeakerThreshold:  0.4,
		NewSpeakerConfidence: 0.3,
		SwitchThreshold:      0.65,
		SwitchPenaltyFactor:  0.8,
		MinHeldConfidence:    0.4,
		ContinuityBonus:      0.15,
	}
}

// AcousticDiarizer assigns speakers to pause-delimited word segments using
// per-segment voice features.
type AcousticDiarizer struct {
	cfg AcousticConfig
	log *logger.Logger
}

// NewAcousticDiarizer validates the config and returns a diarizer.
func NewAcousticDiarizer(cfg AcousticConfig, log *logger.Logger) (*AcousticDiarizer, error) {
	if err := validation.Validate(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &AcousticDiarizer{cfg: cfg, log: log.WithComponent("acoustic")}, nil
}

// Diarize groups the words into segments and assigns each to one of at
// most two speakers. Stereo calls use the per-segment balance; mono calls
// bootstrap two speakers then score similarity against the accumulated
// profiles with a continuity bias.
func (d *AcousticDiarizer) Diarize(words []stt.Word, extractor *voice.Extractor, isStereo bool) (*Result, error) {
	if len(words) == 0 {
		return nil, errors.NoWordTimestamps()
	}

	groups := segmentWords(words, d.cfg.SegmentPause)

	var profiles []*voice.Profile
	var segments []Segment

	for _, group := range groups {
		start := group[0].Start
		end := group[len(group)-1].End
		feats := extractor.ExtractWindow(start, end)

		var speaker string
		var confidence float64
		if isStereo {
			speaker = Speaker01
			if feats.StereoBalance > d.cfg.StereoBalanceThreshold {
				speaker = Speaker02
			}
			confidence = d.cfg.StereoConfidence
		} else {
			speaker, confidence = d.assignMono(feats, profiles, segments)
		}

		profile := findProfile(profiles, speaker)
		if profile == nil {
			profile = voice.NewProfile(speaker)
			profiles = append(profiles, profile)
		}
		profile.Add(feats)

		builder := segmentBuilder{speaker: speaker}
		for _, w := range group {
			builder.add(w)
		}
		seg := builder.build()
		seg.Confidence = confidence
		seg.Features = feats
		segments = append(segments, seg)
	}

	return &Result{
		Segments: segments,
		Profiles: profiles,
		Method:   MethodAcousticSemantic,
	}, nil
}

// assignMono picks the speaker for a mono segment: the first two segments
// create the two speakers; later ones are scored against the profiles.
func (d *AcousticDiarizer) assignMono(feats voice.FeatureVector, profiles []*voice.Profile, segments []Segment) (string, float64) {
	switch len(profiles) {
	case 0:
		return Speaker01, d.cfg.BootstrapConfidence
	case 1:
		return Speaker02, d.cfg.BootstrapConfidence
	}

	speaker, score := d.identify(feats, profiles)

	if len(segments) > 0 {
		last := segments[len(segments)-1].Speaker
		if last != speaker && score < d.cfg.SwitchThreshold {
			d.log.Debug("holding previous speaker", logger.Fields(
				logger.FieldSpeaker, last,
				"switch_score", score,
			))
			speaker = last
			score = math.Max(d.cfg.MinHeldConfidence, score*d.cfg.SwitchPenaltyFactor)
		}
		if last == speaker {
			score += d.cfg.ContinuityBonus
		}
	}
	return speaker, score
}

// identify scores the feature vector against every known profile and
// returns the best match. A score below NewSpeakerThreshold creates a new
// speaker only while fewer than two exist; with two speakers the better
// match is kept at low confidence.
func (d *AcousticDiarizer) identify(feats voice.FeatureVector, profiles []*voice.Profile) (string, float64) {
	if len(profiles) == 0 {
		return Speaker01, 0.5
	}

	var best string
	var bestScore float64
	for _, p := range profiles {
		score := d.similarity(feats, p)
		if score > bestScore {
			bestScore = score
			best = p.SpeakerID
		}
	}

	if bestScore < d.cfg.NewSpeakerThreshold {
		if len(profiles) < 2 {
			return fmt.Sprintf("SPEAKER_%02d", len(profiles)+1), d.cfg.NewSpeakerConfidence
		}
		if best == "" {
			return Speaker01, d.cfg.NewSpeakerConfidence
		}
	}
	return best, bestScore
}

// similarity computes the weighted per-feature closeness of a vector to a
// profile's aggregates. Mono vectors use the four voice sub-scores; stereo
// vectors add the balance and channel-difference terms.
func (d *AcousticDiarizer) similarity(feats voice.FeatureVector, p *voice.Profile) float64 {
	closeness := func(delta, scale float64) float64 {
		return 1.0 / (1.0 + math.Abs(delta)/scale)
	}

	f0Score := closeness(feats.F0-p.AvgF0, d.cfg.F0Scale)
	spectralScore := closeness(feats.SpectralCentroid-p.AvgSpectralCentroid, d.cfg.SpectralScale)
	contrastScore := closeness(feats.SpectralContrast-p.AvgSpectralContrast, d.cfg.ContrastScale)

	var mfccDist float64
	for i := 0; i < len(feats.MFCC) && i < len(p.AvgMFCC); i++ {
		diff := feats.MFCC[i] - p.AvgMFCC[i]
		mfccDist += diff * diff
	}
	mfccScore := 1.0 / (1.0 + math.Sqrt(mfccDist)/d.cfg.MFCCScale)

	if feats.IsMono() {
		return f0Score*d.cfg.F0Weight +
			spectralScore*d.cfg.SpectralWeight +
			mfccScore*d.cfg.MFCCWeight +
			contrastScore*d.cfg.ContrastWeight
	}

	balanceScore := closeness(feats.StereoBalance-p.AvgStereoBalance, d.cfg.BalanceScale)
	channelScore := closeness(feats.ChannelDifference-p.AvgChannelDifference, d.cfg.ChannelDiffScale)

	return f0Score*d.cfg.StereoF0Weight +
		spectralScore*d.cfg.StereoSpectralWeight +
		mfccScore*d.cfg.StereoMFCCWeight +
		contrastScore*d.cfg.StereoContrastWeight +
		balanceScore*d.cfg.BalanceWeight +
		channelScore*d.cfg.ChannelDiffWeight
}

// segmentWords splits the words at every pause longer than maxPause.
func segmentWords(words []stt.Word, maxPause float64) [][]stt.Word {
	var groups [][]stt.Word
	var current []stt.Word

	for i, w := range words {
		current = append(current, w)
		if i < len(words)-1 {
			pause := words[i+1].Start - w.End
			if pause > maxPause {
				groups = append(groups, current)
				current = nil
			}
		}
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func findProfile(profiles []*voice.Profile, speakerID string) *voice.Profile {
	for _, p := range profiles {
		if p.SpeakerID == speakerID {
			return p
		}
	}
	return nil
}
