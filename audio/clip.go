package audio

import (
	"math"

	"github.com/skillsenselab/diarkit/errors"
)

// Clip is decoded PCM audio: one float64 slice per channel, all the same
// length, at a common sample rate.
type Clip struct {
	Samples [][]float64
	Rate    int
}

// NewClip builds a Clip after checking that every channel has the same
// length and the rate is positive.
func NewClip(samples [][]float64, rate int) (*Clip, error) {
	if rate <= 0 {
		return nil, errors.InvalidInput("rate", "must be positive")
	}
	if len(samples) == 0 {
		return nil, errors.InvalidInput("samples", "must have at least one channel")
	}
	n := len(samples[0])
	for _, ch := range samples[1:] {
		if len(ch) != n {
			return nil, errors.InvalidInput("samples", "channels must have equal length")
		}
	}
	return &Clip{Samples: samples, Rate: rate}, nil
}

// Channels returns the number of channels.
func (c *Clip) Channels() int { return len(c.Samples) }

// Len returns the number of samples per channel.
func (c *Clip) Len() int {
	if len(c.Samples) == 0 {
		return 0
	}
	return len(c.Samples[0])
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.Rate <= 0 {
		return 0
	}
	return float64(c.Len()) / float64(c.Rate)
}

// Channel returns a single-channel Clip sharing the underlying samples.
func (c *Clip) Channel(i int) (*Clip, error) {
	if i < 0 || i >= len(c.Samples) {
		return nil, errors.InvalidInput("channel", "index out of range")
	}
	return &Clip{Samples: [][]float64{c.Samples[i]}, Rate: c.Rate}, nil
}

// Mono returns a single-channel Clip. Multi-channel clips are mixed down
// by averaging; mono clips are returned as-is.
func (c *Clip) Mono() *Clip {
	if len(c.Samples) == 1 {
		return c
	}
	n := c.Len()
	mixed := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for _, ch := range c.Samples {
			sum += ch[i]
		}
		mixed[i] = sum / float64(len(c.Samples))
	}
	return &Clip{Samples: [][]float64{mixed}, Rate: c.Rate}
}

// Window returns the [start, end) slice of the clip in seconds, clamped to
// the clip bounds. An empty window yields a Clip with zero-length channels.
func (c *Clip) Window(start, end float64) *Clip {
	lo := int(start * float64(c.Rate))
	hi := int(end * float64(c.Rate))
	n := c.Len()
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	out := make([][]float64, len(c.Samples))
	for i, ch := range c.Samples {
		out[i] = ch[lo:hi]
	}
	return &Clip{Samples: out, Rate: c.Rate}
}

// Normalize scales all channels in place so the global peak is 1.0.
// Silent clips are left untouched.
func (c *Clip) Normalize() {
	var peak float64
	for _, ch := range c.Samples {
		for _, s := range ch {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
	}
	if peak == 0 {
		return
	}
	for _, ch := range c.Samples {
		for i := range ch {
			ch[i] /= peak
		}
	}
}

// RMS returns the root-mean-square energy of the given channel, or 0 for
// an empty channel.
func (c *Clip) RMS(channel int) float64 {
	if channel < 0 || channel >= len(c.Samples) {
		return 0
	}
	ch := c.Samples[channel]
	if len(ch) == 0 {
		return 0
	}
	var sum float64
	for _, s := range ch {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(ch)))
}

// Resample converts the clip to the target rate with linear interpolation.
// Returns the same clip when the rate already matches.
func (c *Clip) Resample(rate int) (*Clip, error) {
	if rate <= 0 {
		return nil, errors.InvalidInput("rate", "must be positive")
	}
	if rate == c.Rate {
		return c, nil
	}
	srcLen := c.Len()
	dstLen := int(float64(srcLen) * float64(rate) / float64(c.Rate))
	out := make([][]float64, len(c.Samples))
	for i, ch := range c.Samples {
		dst := make([]float64, dstLen)
		for j := 0; j < dstLen; j++ {
			pos := float64(j) * float64(c.Rate) / float64(rate)
			k := int(pos)
			if k >= srcLen-1 {
				dst[j] = ch[srcLen-1]
				continue
			}
			frac := pos - float64(k)
			dst[j] = ch[k]*(1-frac) + ch[k+1]*frac
		}
		out[i] = dst
	}
	return &Clip{Samples: out, Rate: rate}, nil
}
