package audio

import (
	stderrors "errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// framesPerRead bounds memory while streaming through a WAV data chunk.
const framesPerRead = 8192

var errNotWAV = stderrors.New("not a valid WAV stream")

func openWAV(r io.ReadSeeker) (*wav.Decoder, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", errNotWAV, err)
		}
		return nil, errNotWAV
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("locate PCM data: %w", err)
	}
	return dec, nil
}

// decodeWAV reads frames [start, end) of the data chunk, downmixed to mono.
// The reader seeks straight to start, so a late range costs the same as an
// early one.
func decodeWAV(r io.ReadSeeker, start, end int) (*Clip, error) {
	dec, err := openWAV(r)
	if err != nil {
		return nil, err
	}
	channels := int(dec.NumChans)
	norm := sampleNormalizer(int(dec.BitDepth))

	buf := &goaudio.IntBuffer{
		Format: dec.Format(),
		Data:   make([]int, framesPerRead*channels),
	}

	clip := &Clip{SampleRate: int(dec.SampleRate)}
	if end >= 0 {
		clip.Samples = make([]float64, 0, max(end-start, 0))
	}

	frame, err := seekPCM(r, dec, start)
	if err != nil {
		return nil, err
	}
	for end < 0 || frame < end {
		n, readErr := dec.PCMBuffer(buf)
		if readErr != nil && !isEOF(readErr) {
			return nil, fmt.Errorf("read PCM at frame %d: %w", frame, readErr)
		}
		frames := n / channels
		if frames == 0 {
			break
		}
		for f := range frames {
			pos := frame + f
			if pos < start {
				continue
			}
			if end >= 0 && pos >= end {
				break
			}
			var sum float64
			for c := range channels {
				sum += norm(buf.Data[f*channels+c])
			}
			clip.Samples = append(clip.Samples, sum/float64(channels))
		}
		frame += frames
		if readErr != nil {
			break
		}
	}
	return clip, nil
}

// seekPCM moves r forward to frame start within the data chunk and returns
// the frame it landed on, which is start clamped to the chunk length.
func seekPCM(r io.ReadSeeker, dec *wav.Decoder, start int) (int, error) {
	bytesPerFrame := int(dec.NumChans) * int(dec.BitDepth) / 8
	if start <= 0 || bytesPerFrame == 0 {
		return 0, nil
	}
	chunk := dec.PCMChunk
	frame := min(start, (chunk.Size-chunk.Pos)/bytesPerFrame)
	skip := frame * bytesPerFrame
	if _, err := r.Seek(int64(skip), io.SeekCurrent); err != nil {
		return 0, fmt.Errorf("seek to frame %d: %w", frame, err)
	}
	chunk.Pos += skip
	chunk.R = io.LimitReader(r, int64(chunk.Size-chunk.Pos))
	return frame, nil
}

func probeWAV(r io.ReadSeeker) (*Info, error) {
	dec, err := openWAV(r)
	if err != nil {
		return nil, err
	}
	bytesPerFrame := int(dec.NumChans) * int(dec.BitDepth) / 8
	if bytesPerFrame == 0 {
		return nil, errNotWAV
	}
	return &Info{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		Frames:     dec.PCMChunk.Size / bytesPerFrame,
	}, nil
}

// sampleNormalizer maps integer PCM to [-1, 1). 8-bit WAV is unsigned.
func sampleNormalizer(bitDepth int) func(int) float64 {
	if bitDepth == 8 {
		return func(v int) float64 { return float64(v-128) / 128 }
	}
	scale := float64(int64(1) << (bitDepth - 1))
	return func(v int) float64 { return float64(v) / scale }
}

func isEOF(err error) bool {
	return stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF)
}
