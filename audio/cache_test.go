package audio_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/speechkit/audio"
)

type countingDecoder struct {
	decodes atomic.Int64
	probes  atomic.Int64
	samples int
}

func (d *countingDecoder) Decode(_ context.Context, _ string, start, end int) (*audio.Clip, error) {
	d.decodes.Add(1)
	full := &audio.Clip{Samples: make([]float64, d.samples), SampleRate: 16000}
	for i := range full.Samples {
		full.Samples[i] = float64(i)
	}
	return full.Slice(start, end), nil
}

func (d *countingDecoder) Probe(_ context.Context, _ string) (*audio.Info, error) {
	d.probes.Add(1)
	return &audio.Info{SampleRate: 16000, Channels: 1, Frames: d.samples}, nil
}

func TestCachedDecoder_FileHitsByRange(t *testing.T) {
	inner := &countingDecoder{samples: 100}
	var hits, misses int
	c, err := audio.NewCachedDecoder(inner, 8, audio.WithCacheObserver(func(_ context.Context, hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	}))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for range 3 {
		clip, err := c.Decode(ctx, "a.wav", 10, 20)
		if err != nil {
			t.Fatal(err)
		}
		if clip.Len() != 10 || clip.Samples[0] != 10 {
			t.Fatalf("unexpected clip %v", clip.Samples)
		}
	}
	if _, err := c.Decode(ctx, "a.wav", 20, 30); err != nil {
		t.Fatal(err)
	}

	if got := inner.decodes.Load(); got != 2 {
		t.Errorf("expected 2 inner decodes, got %d", got)
	}
	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 2 || stats.Len != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if hits != 2 || misses != 2 {
		t.Errorf("observer saw hits=%d misses=%d", hits, misses)
	}
}

func TestCachedDecoder_ReturnsCopies(t *testing.T) {
	c, err := audio.NewCachedDecoder(&countingDecoder{samples: 10}, 2)
	if err != nil {
		t.Fatal(err)
	}
	clip, _ := c.Decode(context.Background(), "a.wav", 0, 5)
	clip.Samples[0] = -1

	cached, ok := c.Cached("a.wav", 0, 5)
	if !ok {
		t.Fatal("expected range to be cached")
	}
	if cached[0] != 0 {
		t.Error("mutating a returned clip must not affect the cache")
	}
}

func TestCachedDecoder_PipeDecodedOnce(t *testing.T) {
	inner := &countingDecoder{samples: 100}
	c, err := audio.NewCachedDecoder(inner, 2)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	src := "sox a.flac -t wav - |"

	a, _ := c.Decode(ctx, src, 0, 10)
	b, _ := c.Decode(ctx, src, 50, 60)
	info, err := c.Probe(ctx, src)
	if err != nil {
		t.Fatal(err)
	}

	if inner.decodes.Load() != 1 {
		t.Errorf("expected one full decode, got %d", inner.decodes.Load())
	}
	if inner.probes.Load() != 0 {
		t.Error("pipe probe should reuse the cached decode")
	}
	if a.Samples[0] != 0 || b.Samples[0] != 50 {
		t.Errorf("unexpected slices %v %v", a.Samples[0], b.Samples[0])
	}
	if info.Frames != 100 {
		t.Errorf("expected 100 frames, got %d", info.Frames)
	}
}

func TestCachedDecoder_ConcurrentMisses(t *testing.T) {
	inner := &countingDecoder{samples: 1000}
	c, err := audio.NewCachedDecoder(inner, 4)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			if _, err := c.Decode(context.Background(), "a.wav", 0, 100); err != nil {
				t.Error(err)
			}
		})
	}
	wg.Wait()

	if got := c.Stats().Len; got != 1 {
		t.Errorf("expected a single cached entry, got %d", got)
	}
}

func TestCachedDecoder_Purge(t *testing.T) {
	inner := &countingDecoder{samples: 10}
	c, _ := audio.NewCachedDecoder(inner, 0)
	_, _ = c.Decode(context.Background(), "a.wav", 0, 5)
	c.Purge()
	if c.Stats().Len != 0 {
		t.Error("expected empty cache after Purge")
	}
	_, _ = c.Decode(context.Background(), "a.wav", 0, 5)
	if inner.decodes.Load() != 2 {
		t.Errorf("expected re-decode after Purge, got %d decodes", inner.decodes.Load())
	}
}
