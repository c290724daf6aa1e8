package voice

// Voice type labels derived from mean fundamental frequency.
const (
	VoiceTypeMaleLow    = "MALE_LOW"
	VoiceTypeMaleMid    = "MALE_MID"
	VoiceTypeFemaleLow  = "FEMALE_LOW"
	VoiceTypeFemaleHigh = "FEMALE_HIGH"
)

// Stereo position labels derived from mean stereo balance.
const (
	StereoPositionCenter = "CENTER"
	StereoPositionLeft   = "LEFT"
	StereoPositionRight  = "RIGHT"
)

// Profile is the accumulated acoustic description of one speaker within a
// single call. Profiles never outlive the call.
type Profile struct {
	SpeakerID string
	Features  []FeatureVector

	AvgF0                float64
	AvgSpectralCentroid  float64
	AvgSpectralRolloff   float64
	AvgSpectralContrast  float64
	AvgZeroCrossingRate  float64
	AvgEnergy            float64
	AvgMFCC              []float64
	AvgStereoBalance     float64
	AvgChannelDifference float64
	AvgLeftF0            float64
	AvgRightF0           float64

	VoiceType       string
	StereoPosition  string
	Stability       float64
	StereoStability float64
	SampleCount     int
}

// NewProfile creates an empty profile for a speaker id.
func NewProfile(speakerID string) *Profile {
	return &Profile{SpeakerID: speakerID}
}

// Add appends a feature vector and refreshes the aggregates.
func (p *Profile) Add(v FeatureVector) {
	p.Features = append(p.Features, v)
	p.Summarize()
}

// Summarize recomputes the aggregates, voice type, stereo position and
// stability scores from the accumulated feature vectors.
func (p *Profile) Summarize() {
	n := len(p.Features)
	p.SampleCount = n
	if n == 0 {
		return
	}

	p.AvgF0 = meanOf(p.Features, func(v FeatureVector) float64 { return v.F0 })
	p.AvgSpectralCentroid = meanOf(p.Features, func(v FeatureVector) float64 { return v.SpectralCentroid })
	p.AvgSpectralRolloff = meanOf(p.Features, func(v FeatureVector) float64 { return v.SpectralRolloff })
	p.AvgSpectralContrast = meanOf(p.Features, func(v FeatureVector) float64 { return v.SpectralContrast })
	p.AvgZeroCrossingRate = meanOf(p.Features, func(v FeatureVector) float64 { return v.ZeroCrossingRate })
	p.AvgEnergy = meanOf(p.Features, func(v FeatureVector) float64 { return v.Energy })
	p.AvgStereoBalance = meanOf(p.Features, func(v FeatureVector) float64 { return v.StereoBalance })
	p.AvgChannelDifference = meanOf(p.Features, func(v FeatureVector) float64 { return v.ChannelDifference })
	p.AvgLeftF0 = meanOf(p.Features, func(v FeatureVector) float64 { return v.LeftF0 })
	p.AvgRightF0 = meanOf(p.Features, func(v FeatureVector) float64 { return v.RightF0 })

	p.AvgMFCC = make([]float64, NumMFCC)
	for _, v := range p.Features {
		for i := 0; i < len(v.MFCC) && i < NumMFCC; i++ {
			p.AvgMFCC[i] += v.MFCC[i]
		}
	}
	for i := range p.AvgMFCC {
		p.AvgMFCC[i] /= float64(n)
	}

	p.VoiceType = classifyVoiceType(p.AvgF0)
	p.StereoPosition = classifyStereoPosition(p.AvgStereoBalance)

	f0Var := varianceOf(p.Features, func(v FeatureVector) float64 { return v.F0 })
	p.Stability = 1.0 / (1.0 + f0Var/1000)

	balVar := varianceOf(p.Features, func(v FeatureVector) float64 { return v.StereoBalance })
	p.StereoStability = 1.0 / (1.0 + balVar/0.1)
}

func classifyVoiceType(f0 float64) string {
	switch {
	case f0 < 120:
		return VoiceTypeMaleLow
	case f0 < 180:
		return VoiceTypeMaleMid
	case f0 < 250:
		return VoiceTypeFemaleLow
	default:
		return VoiceTypeFemaleHigh
	}
}

func classifyStereoPosition(balance float64) string {
	switch {
	case balance > -0.1 && balance < 0.1:
		return StereoPositionCenter
	case balance > 0.1:
		return StereoPositionLeft
	default:
		return StereoPositionRight
	}
}

func meanOf(features []FeatureVector, get func(FeatureVector) float64) float64 {
	var sum float64
	for _, v := range features {
		sum += get(v)
	}
	return sum / float64(len(features))
}

func varianceOf(features []FeatureVector, get func(FeatureVector) float64) float64 {
	mean := meanOf(features, get)
	var sum float64
	for _, v := range features {
		d := get(v) - mean
		sum += d * d
	}
	return sum / float64(len(features))
}
