package audio_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"testing"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/testutil"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseSource(t *testing.T) {
	tests := []struct {
		desc    string
		kind    audio.SourceKind
		path    string
		command string
	}{
		{"/data/a.wav", audio.KindFile, "/data/a.wav", ""},
		{"  a.wav ", audio.KindFile, "a.wav", ""},
		{"sox a.flac -t wav - |", audio.KindPipe, "", "sox a.flac -t wav -"},
		{"-", audio.KindStdin, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			src := audio.ParseSource(tt.desc)
			if src.Kind != tt.kind || src.Path != tt.path || src.Command != tt.command {
				t.Errorf("ParseSource(%q) = %+v", tt.desc, src)
			}
			if src.Seekable() != (tt.kind == audio.KindFile) {
				t.Errorf("Seekable() = %v for %s", src.Seekable(), tt.kind)
			}
		})
	}
}

func TestClipSlice(t *testing.T) {
	clip := &audio.Clip{Samples: []float64{0, 1, 2, 3, 4}, SampleRate: 8000}
	tests := []struct {
		name       string
		start, end int
		want       int
	}{
		{"inner", 1, 3, 2},
		{"to end", 2, -1, 3},
		{"past end", 3, 99, 2},
		{"empty", 5, 9, 0},
		{"negative start", -2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clip.Slice(tt.start, tt.end)
			if got.Len() != tt.want {
				t.Errorf("Slice(%d, %d) len = %d, want %d", tt.start, tt.end, got.Len(), tt.want)
			}
			if got.SampleRate != 8000 {
				t.Errorf("sample rate not carried over")
			}
		})
	}

	got := clip.Slice(0, 2)
	got.Samples[0] = 42
	if clip.Samples[0] != 0 {
		t.Error("Slice must copy samples")
	}
}

func TestSourceDecoder_FileRange(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "a.wav", 8000, 1, testutil.Ramp(20000))
	dec := audio.NewSourceDecoder()

	clip, err := dec.Decode(context.Background(), path, 9000, 9100)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if clip.Len() != 100 {
		t.Fatalf("expected 100 samples, got %d", clip.Len())
	}
	if clip.SampleRate != 8000 {
		t.Errorf("expected rate 8000, got %d", clip.SampleRate)
	}
	for i, v := range clip.Samples {
		if !almostEqual(v, testutil.RampValue(9000+i)) {
			t.Fatalf("sample %d = %v, want %v", i, v, testutil.RampValue(9000+i))
		}
	}
}

func TestSourceDecoder_TruncatesPastEnd(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "a.wav", 8000, 1, testutil.Ramp(1000))
	dec := audio.NewSourceDecoder()

	clip, err := dec.Decode(context.Background(), path, 900, 1200)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if clip.Len() != 100 {
		t.Errorf("expected truncation to 100 samples, got %d", clip.Len())
	}

	all, err := dec.Decode(context.Background(), path, 0, -1)
	if err != nil {
		t.Fatalf("Decode full: %v", err)
	}
	if all.Len() != 1000 {
		t.Errorf("expected 1000 samples, got %d", all.Len())
	}
}

func TestSourceDecoder_StereoDownmix(t *testing.T) {
	dir := t.TempDir()
	interleaved := []int{100, 300, 1000, -1000, 0, 64}
	path := testutil.WriteWAV(t, dir, "s.wav", 16000, 2, interleaved)

	clip, err := audio.NewSourceDecoder().Decode(context.Background(), path, 0, -1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []float64{200.0 / 32768, 0, 32.0 / 32768}
	if clip.Len() != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), clip.Len())
	}
	for i := range want {
		if !almostEqual(clip.Samples[i], want[i]) {
			t.Errorf("frame %d = %v, want %v", i, clip.Samples[i], want[i])
		}
	}
}

func TestSourceDecoder_Probe(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "a.wav", 8000, 1, testutil.Ramp(12000))

	info, err := audio.NewSourceDecoder().Probe(context.Background(), path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.SampleRate != 8000 || info.Frames != 12000 || info.Channels != 1 {
		t.Errorf("unexpected info %+v", info)
	}
	if !almostEqual(info.Duration(), 1.5) {
		t.Errorf("expected 1.5s, got %v", info.Duration())
	}
}

func TestSourceDecoder_Pipe(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "a.wav", 8000, 1, testutil.Ramp(3000))
	dec := audio.NewSourceDecoder()

	clip, err := dec.Decode(context.Background(), "cat "+path+" |", 1000, 1010)
	if err != nil {
		t.Fatalf("Decode pipe: %v", err)
	}
	if clip.Len() != 10 {
		t.Fatalf("expected 10 samples, got %d", clip.Len())
	}
	if !almostEqual(clip.Samples[5], testutil.RampValue(1005)) {
		t.Errorf("sample 5 = %v, want %v", clip.Samples[5], testutil.RampValue(1005))
	}

	info, err := dec.Probe(context.Background(), "cat "+path+" |")
	if err != nil {
		t.Fatalf("Probe pipe: %v", err)
	}
	if info.Frames != 3000 {
		t.Errorf("expected 3000 frames, got %d", info.Frames)
	}
}

func TestSourceDecoder_Stdin(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteWAV(t, dir, "a.wav", 8000, 1, testutil.Ramp(500))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	dec := audio.NewSourceDecoder(audio.WithStdin(bytes.NewReader(data)))

	// stdin is consumed once and reused for later ranges.
	for _, r := range [][2]int{{0, 10}, {100, 200}} {
		clip, err := dec.Decode(context.Background(), "-", r[0], r[1])
		if err != nil {
			t.Fatalf("Decode stdin %v: %v", r, err)
		}
		if clip.Len() != r[1]-r[0] {
			t.Errorf("range %v: got %d samples", r, clip.Len())
		}
	}
}

func TestSourceDecoder_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := dir + "/garbage.wav"
	if err := os.WriteFile(garbage, []byte("not audio at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	good := testutil.WriteWAV(t, dir, "a.wav", 8000, 1, testutil.Ramp(10))

	tests := []struct {
		name       string
		source     string
		start, end int
	}{
		{"missing file", dir + "/nope.wav", 0, 10},
		{"not a wav", garbage, 0, 10},
		{"failing pipe", "exit 3 |", 0, 10},
		{"empty pipe", "true |", 0, 10},
		{"inverted range", good, 5, 2},
		{"negative start", good, -1, 2},
	}
	dec := audio.NewSourceDecoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dec.Decode(context.Background(), tt.source, tt.start, tt.end)
			if !errors.IsCode(err, errors.ErrCodeAudioSource) {
				t.Errorf("expected AUDIO_SOURCE, got %v", err)
			}
		})
	}
}
