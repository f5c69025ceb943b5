// Package audio reads WAV files into the float and stereo-sample sequences
// algorithms take as input.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"

	"github.com/roach88/sigbind/internal/value"
)

// ErrInvalidWAV is returned for input that is not a readable WAV stream.
var ErrInvalidWAV = errors.New("invalid WAV file format")

// Clip is decoded PCM audio scaled to [-1, 1). Samples are interleaved by
// channel.
type Clip struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []float32
}

// LoadWAV decodes the WAV file at path.
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	clip, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

// Decode reads a mono or stereo 16, 24 or 32-bit PCM WAV stream.
func Decode(r io.ReadSeeker) (*Clip, error) {
	decoder := wav.NewDecoder(r)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return nil, fmt.Errorf("unsupported number of channels: %d", decoder.NumChans)
	}

	divisor, err := divisorFor(int(decoder.BitDepth))
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read PCM data: %w", err)
	}

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / divisor
	}
	return &Clip{
		SampleRate: int(decoder.SampleRate),
		Channels:   int(decoder.NumChans),
		BitDepth:   int(decoder.BitDepth),
		Samples:    samples,
	}, nil
}

// divisorFor returns the full-scale value of a signed PCM sample.
func divisorFor(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}
}

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Mono mixes the clip down to one channel.
func (c *Clip) Mono() []float32 {
	if c.Channels == 1 {
		return append([]float32(nil), c.Samples...)
	}
	out := make([]float32, c.Frames())
	for i := range out {
		var sum float32
		for ch := 0; ch < c.Channels; ch++ {
			sum += c.Samples[i*c.Channels+ch]
		}
		out[i] = sum / float32(c.Channels)
	}
	return out
}

// Stereo returns left/right pairs. A mono clip is duplicated onto both
// channels.
func (c *Clip) Stereo() []value.StereoSample {
	out := make([]value.StereoSample, c.Frames())
	for i := range out {
		if c.Channels == 1 {
			s := c.Samples[i]
			out[i] = value.StereoSample{Left: s, Right: s}
			continue
		}
		out[i] = value.StereoSample{Left: c.Samples[2*i], Right: c.Samples[2*i+1]}
	}
	return out
}

// Value returns the clip as a VectorFloat mixdown, or as a
// VectorStereoSample when stereo is set.
func (c *Clip) Value(stereo bool) *value.Value {
	if stereo {
		return value.NewVectorStereoSample(c.Stereo())
	}
	return value.NewVectorFloat(c.Mono())
}
