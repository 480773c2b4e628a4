package diarization

import (
	"context"
	"math"
	"slices"
	"testing"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/testutil"
)

func TestNewDataset_Chunks(t *testing.T) {
	// 72s at 62.5 frames/s is 4500 frames; 20s is 1250.
	b := testutil.NewCorpus().
		Recording("rec1", "rec1.wav", 72).
		Recording("rec2", "rec2.wav", 20).
		Segment("u1", "rec1", 1, 2, "spk1").
		Segment("u2", "rec2", 1, 2, "spk2")

	tests := []struct {
		name string
		cfg  Config
		want []Chunk
	}{
		{
			name: "full windows",
			cfg:  Config{},
			want: []Chunk{{"rec1", 0, 2000}, {"rec1", 2000, 4000}},
		},
		{
			name: "with last samples",
			cfg:  Config{UseLastSamples: true},
			want: []Chunk{{"rec1", 0, 2000}, {"rec1", 2000, 4000}, {"rec1", 4000, 4500}, {"rec2", 0, 1250}},
		},
		{
			name: "subsampled",
			cfg:  Config{UseLastSamples: true, Subsampling: 2},
			want: []Chunk{{"rec1", 0, 4000}, {"rec1", 4000, 4500}, {"rec2", 0, 1250}},
		},
		{
			name: "label delay drops short remainder",
			cfg:  Config{UseLastSamples: true, LabelDelay: 600},
			want: []Chunk{{"rec1", 0, 2000}, {"rec1", 2000, 4000}, {"rec2", 0, 1250}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewDataset(context.Background(), loadCorpus(t, b), &fakeDecoder{rate: 16000}, tt.cfg)
			if err != nil {
				t.Fatalf("NewDataset: %v", err)
			}
			if got := ds.Chunks(); !slices.Equal(got, tt.want) {
				t.Errorf("Chunks() = %v, want %v", got, tt.want)
			}
			if ds.Len() != len(tt.want) {
				t.Errorf("Len() = %d, want %d", ds.Len(), len(tt.want))
			}
		})
	}
}

func TestNewDataset_ShortRecordingSmallStep(t *testing.T) {
	// 1s is 62 frames, far below chunk_size - 3*step.
	b := testutil.NewCorpus().
		Recording("long", "long.wav", 72).
		Recording("short", "short.wav", 1).
		Segment("u1", "long", 1, 2, "spk1").
		Segment("u2", "short", 0, 1, "spk2")

	for _, partial := range []bool{false, true} {
		ds, err := NewDataset(context.Background(), loadCorpus(t, b), &fakeDecoder{rate: 16000},
			Config{Step: 500, UseLastSamples: partial})
		if err != nil {
			t.Fatalf("NewDataset(partial=%v): %v", partial, err)
		}
		for _, c := range ds.Chunks() {
			if c.Recording == "short" {
				t.Errorf("partial=%v: unexpected chunk %v for the short recording", partial, c)
			}
		}
		if ds.Len() != 6 {
			t.Errorf("partial=%v: expected 6 chunks for the long recording, got %d", partial, ds.Len())
		}
	}
}

func TestNewDataset_ProbesWithoutDurations(t *testing.T) {
	b := testutil.NewCorpus().
		Recording("rec1", "rec1.wav", 72).
		Segment("u1", "rec1", 1, 2, "spk1").
		WithoutDurations()
	dec := &fakeDecoder{rate: 16000, durations: map[string]float64{"rec1.wav": 72}}

	ds, err := NewDataset(context.Background(), loadCorpus(t, b), dec, Config{})
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("expected 2 chunks, got %d", ds.Len())
	}
	plans := ds.Plans()
	if len(plans) != 1 || !plans[0].Probed || plans[0].FrameLength != 4500 {
		t.Errorf("unexpected plans %+v", plans)
	}
}

func TestNewDataset_ProbeFailure(t *testing.T) {
	b := testutil.NewCorpus().
		Recording("rec1", "rec1.wav", 72).
		Segment("u1", "rec1", 1, 2, "spk1").
		WithoutDurations()
	dec := &fakeDecoder{err: errors.AudioSource("rec1.wav", context.DeadlineExceeded)}

	_, err := NewDataset(context.Background(), loadCorpus(t, b), dec, Config{})
	if !errors.IsCode(err, errors.ErrCodeAudioSource) {
		t.Errorf("expected AUDIO_SOURCE, got %v", err)
	}
}

func TestNewDataset_InvalidConfig(t *testing.T) {
	b := testutil.NewCorpus().Recording("rec1", "rec1.wav", 1).Segment("u1", "rec1", 0, 1, "s")
	_, err := NewDataset(context.Background(), loadCorpus(t, b), &fakeDecoder{rate: 16000}, Config{LabelDelay: -1})
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestDataset_GetOutOfRange(t *testing.T) {
	b := testutil.NewCorpus().Recording("rec1", "rec1.wav", 72).Segment("u1", "rec1", 0, 1, "s")
	ds, err := NewDataset(context.Background(), loadCorpus(t, b), &fakeDecoder{rate: 16000}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{-1, ds.Len()} {
		if _, err := ds.Get(context.Background(), i); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Get(%d): expected INVALID_INPUT, got %v", i, err)
		}
	}
}

func TestDataset_WAVEndToEnd(t *testing.T) {
	dir := t.TempDir()
	// 2s at 8 kHz with 80-sample frames: 200 frames, four chunks of 50.
	path := testutil.WriteWAV(t, dir, "rec1.wav", 8000, 1, testutil.Ramp(16000))
	b := testutil.NewCorpus().
		Recording("rec1", path, 2).
		Segment("u1", "rec1", 0.25, 0.75, "spk1")

	cfg := Config{ChunkSize: 50, FrameShift: 80, SampleRate: 8000}
	ds, err := NewDataset(context.Background(), loadCorpus(t, b), audio.NewSourceDecoder(), cfg)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if ds.Len() != 4 {
		t.Fatalf("expected 4 chunks, got %d", ds.Len())
	}

	item, err := ds.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.Start != 50 || item.End != 100 {
		t.Errorf("unexpected window [%d, %d)", item.Start, item.End)
	}
	if len(item.Audio) != 4000 || item.SampleRate != 8000 {
		t.Fatalf("expected 4000 samples at 8 kHz, got %d at %d", len(item.Audio), item.SampleRate)
	}
	if math.Abs(item.Audio[0]-testutil.RampValue(4000)) > 1e-9 {
		t.Errorf("first sample = %v, want %v", item.Audio[0], testutil.RampValue(4000))
	}
	// Segment frames [25, 75) enter this window from the left.
	assertOnes(t, column(t, item, 0), 0, 25)
}
