package diarization

import (
	"context"
	"sync"
	"testing"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/corpus"
	"github.com/kbukum/speechkit/testutil"
)

// fakeDecoder returns zero samples at a fixed rate and records every call.
type fakeDecoder struct {
	rate      int
	durations map[string]float64
	err       error

	mu    sync.Mutex
	calls [][3]int
}

func (d *fakeDecoder) Decode(_ context.Context, _ string, start, end int) (*audio.Clip, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.mu.Lock()
	d.calls = append(d.calls, [3]int{start, end, 0})
	d.mu.Unlock()
	return &audio.Clip{Samples: make([]float64, end-start), SampleRate: d.rate}, nil
}

func (d *fakeDecoder) Probe(_ context.Context, source string) (*audio.Info, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &audio.Info{SampleRate: d.rate, Channels: 1, Frames: int(d.durations[source] * float64(d.rate))}, nil
}

func loadCorpus(t *testing.T, b *testutil.CorpusBuilder) *corpus.Index {
	t.Helper()
	idx, err := corpus.Load(b.Write(t))
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return idx
}

// column extracts one label column as a slice.
func column(t *testing.T, it *Item, col int) []float64 {
	t.Helper()
	if it.Labels == nil {
		t.Fatal("item has no labels")
	}
	rows, _ := it.Labels.Dims()
	out := make([]float64, rows)
	for r := range rows {
		out[r] = it.Labels.At(r, col)
	}
	return out
}

// assertOnes checks that col is 1 exactly on rows [lo, hi).
func assertOnes(t *testing.T, got []float64, lo, hi int) {
	t.Helper()
	for r, v := range got {
		want := 0.0
		if r >= lo && r < hi {
			want = 1
		}
		if v != want {
			t.Fatalf("row %d = %v, want %v (active [%d, %d))", r, v, want, lo, hi)
		}
	}
}
