package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/process"
)

// SourceDecoder decodes files, shell pipelines and stdin.
type SourceDecoder struct {
	stdin io.Reader
	run   func(ctx context.Context, cmd process.Command) (*process.Result, error)
	log   *logger.Logger

	stdinOnce  sync.Once
	stdinBytes []byte
	stdinErr   error
}

var _ Decoder = (*SourceDecoder)(nil)

// Option configures a SourceDecoder.
type Option func(*SourceDecoder)

// WithStdin sets the reader used for the "-" source. Defaults to os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(d *SourceDecoder) { d.stdin = r }
}

// WithLogger sets the decoder logger.
func WithLogger(l *logger.Logger) Option {
	return func(d *SourceDecoder) { d.log = l }
}

// NewSourceDecoder creates a decoder for Kaldi rxfilenames.
func NewSourceDecoder(opts ...Option) *SourceDecoder {
	d := &SourceDecoder{
		stdin: os.Stdin,
		run:   process.Run,
		log:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode implements Decoder.
func (d *SourceDecoder) Decode(ctx context.Context, source string, start, end int) (*Clip, error) {
	if start < 0 || (end >= 0 && end < start) {
		return nil, errors.AudioSource(source, fmt.Errorf("invalid sample range [%d, %d)", start, end))
	}

	src := ParseSource(source)
	if src.Kind == KindFile {
		clip, err := d.decodeFile(src.Path, start, end)
		if err != nil {
			return nil, errors.AudioSource(source, err)
		}
		return clip, nil
	}

	// Pipes and stdin cannot seek: decode everything, then slice.
	clip, err := d.decodeStream(ctx, src)
	if err != nil {
		return nil, errors.AudioSource(source, err)
	}
	d.log.Debug("decoded unseekable source", logger.Fields(
		logger.FieldSource, source, "kind", src.Kind.String(), "samples", clip.Len(),
	))
	return clip.Slice(start, end), nil
}

// Probe implements Decoder.
func (d *SourceDecoder) Probe(ctx context.Context, source string) (*Info, error) {
	src := ParseSource(source)
	if src.Kind == KindFile {
		info, err := probeFile(src.Path)
		if err != nil {
			return nil, errors.AudioSource(source, err)
		}
		return info, nil
	}
	clip, err := d.decodeStream(ctx, src)
	if err != nil {
		return nil, errors.AudioSource(source, err)
	}
	return &Info{SampleRate: clip.SampleRate, Channels: 1, Frames: clip.Len()}, nil
}

func isMP3Path(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

func (d *SourceDecoder) decodeFile(path string, start, end int) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if isMP3Path(path) {
		clip, err := decodeMP3(f)
		if err != nil {
			return nil, err
		}
		return clip.Slice(start, end), nil
	}
	return decodeWAV(f, start, end)
}

func probeFile(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if isMP3Path(path) {
		return probeMP3(f)
	}
	return probeWAV(f)
}

func (d *SourceDecoder) decodeStream(ctx context.Context, src Source) (*Clip, error) {
	var data []byte
	switch src.Kind {
	case KindPipe:
		res, err := d.run(ctx, process.Shell(src.Command))
		if err != nil {
			return nil, err
		}
		data = res.Stdout
	case KindStdin:
		d.stdinOnce.Do(func() {
			d.stdinBytes, d.stdinErr = io.ReadAll(d.stdin)
		})
		if d.stdinErr != nil {
			return nil, fmt.Errorf("read stdin: %w", d.stdinErr)
		}
		data = d.stdinBytes
	default:
		return nil, fmt.Errorf("source kind %s is seekable", src.Kind)
	}
	return decodeBytes(data)
}

// decodeBytes sniffs the container: RIFF/WAVE, otherwise MP3.
func decodeBytes(data []byte) (*Clip, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("source produced no data")
	}
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")) {
		return decodeWAV(bytes.NewReader(data), 0, -1)
	}
	return decodeMP3(bytes.NewReader(data))
}
