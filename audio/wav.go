package audio

import (
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/skillsenselab/diarkit/errors"
)

const streamChunk = 4096

// ReadWAV decodes a WAV file into a Clip, preserving its channel layout
// and sample rate.
func ReadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.AudioUnreadable(path, err)
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, errors.AudioUnreadable(path, err)
	}
	defer stream.Close()

	channels := format.NumChannels
	if channels > 2 {
		channels = 2
	}
	samples := make([][]float64, channels)

	buf := make([][2]float64, streamChunk)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			samples[0] = append(samples[0], buf[i][0])
			if channels == 2 {
				samples[1] = append(samples[1], buf[i][1])
			}
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.AudioUnreadable(path, err)
	}

	return &Clip{Samples: samples, Rate: int(format.SampleRate)}, nil
}

// WriteWAV encodes a Clip as a 16-bit WAV file.
func WriteWAV(path string, clip *Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.AudioUnreadable(path, err)
	}
	defer f.Close()

	format := beep.Format{
		SampleRate:  beep.SampleRate(clip.Rate),
		NumChannels: clip.Channels(),
		Precision:   2,
	}
	if err := wav.Encode(f, &clipStreamer{clip: clip}, format); err != nil {
		return errors.AudioUnreadable(path, err)
	}
	return nil
}

// clipStreamer adapts a Clip to a beep.Streamer for encoding.
type clipStreamer struct {
	clip *Clip
	pos  int
}

func (s *clipStreamer) Stream(samples [][2]float64) (int, bool) {
	total := s.clip.Len()
	if s.pos >= total {
		return 0, false
	}
	n := 0
	for ; n < len(samples) && s.pos < total; n++ {
		left := s.clip.Samples[0][s.pos]
		right := left
		if s.clip.Channels() > 1 {
			right = s.clip.Samples[1][s.pos]
		}
		samples[n] = [2]float64{left, right}
		s.pos++
	}
	return n, true
}

func (s *clipStreamer) Err() error { return nil }
