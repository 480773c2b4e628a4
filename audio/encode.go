package audio

import (
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes clip as mono 16-bit PCM. Samples are scaled by 32768,
// the inverse of the decoder's normalization, and clipped to int16.
func EncodeWAV(w io.WriteSeeker, clip *Clip) error {
	if clip.SampleRate <= 0 {
		return fmt.Errorf("encode wav: invalid sample rate %d", clip.SampleRate)
	}
	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		v := math.Round(s * 32768)
		data[i] = int(min(max(v, math.MinInt16), math.MaxInt16))
	}

	enc := wav.NewEncoder(w, clip.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return enc.Close()
}

// WriteWAVFile encodes clip to path, replacing any existing file.
func WriteWAVFile(path string, clip *Clip) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return EncodeWAV(f, clip)
}
