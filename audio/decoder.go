package audio

import (
	"context"
	"slices"
)

// Decoder reads a sample range from an audio source.
type Decoder interface {
	// Decode returns mono samples [start, end) of source; end < 0 reads to the
	// end of the stream. Ranges past the end are truncated, not errors.
	Decode(ctx context.Context, source string, start, end int) (*Clip, error)
	// Probe reports the sample rate and length of source.
	Probe(ctx context.Context, source string) (*Info, error)
}

// Clip is a decoded mono sample range.
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Len returns the number of samples.
func (c *Clip) Len() int { return len(c.Samples) }

// Slice returns a copy of samples [start, end) with Python-style clamping;
// end < 0 means the end of the clip.
func (c *Clip) Slice(start, end int) *Clip {
	n := len(c.Samples)
	if end < 0 || end > n {
		end = n
	}
	start = min(max(start, 0), end)
	return &Clip{Samples: slices.Clone(c.Samples[start:end]), SampleRate: c.SampleRate}
}

// Info describes an audio source.
type Info struct {
	SampleRate int
	Channels   int
	// Frames is the number of samples per channel.
	Frames int
}

// Duration returns the source length in seconds.
func (i *Info) Duration() float64 {
	if i.SampleRate == 0 {
		return 0
	}
	return float64(i.Frames) / float64(i.SampleRate)
}
