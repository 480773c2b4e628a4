package audio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 always yields 16-bit little-endian stereo.
const mp3BytesPerFrame = 4

// decodeMP3 decodes the whole stream; go-mp3 cannot seek by sample.
func decodeMP3(r io.Reader) (*Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("create mp3 decoder: %w", err)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("read mp3 PCM: %w", err)
	}

	frames := len(pcm) / mp3BytesPerFrame
	samples := make([]float64, frames)
	for i := range frames {
		left := int16(binary.LittleEndian.Uint16(pcm[i*4:]))
		right := int16(binary.LittleEndian.Uint16(pcm[i*4+2:]))
		samples[i] = (float64(left) + float64(right)) / 2 / 32768
	}
	return &Clip{Samples: samples, SampleRate: dec.SampleRate()}, nil
}

func probeMP3(r io.Reader) (*Info, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("create mp3 decoder: %w", err)
	}
	return &Info{
		SampleRate: dec.SampleRate(),
		Channels:   2,
		Frames:     int(dec.Length() / mp3BytesPerFrame),
	}, nil
}
