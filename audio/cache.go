package audio

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is the number of decoded clips kept by CachedDecoder.
const DefaultCacheSize = 4

type cacheKey struct {
	source     string
	start, end int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s[%d:%d]", k.source, k.start, k.end)
}

// CacheStats reports CachedDecoder effectiveness.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Len    int   `json:"len"`
}

// CachedDecoder memoizes decodes of an inner Decoder in a bounded LRU.
//
// Seekable files are keyed by source and sample range. Pipes and stdin are
// keyed by source alone and hold the whole decoded stream, which is sliced per
// request. The cache is safe for concurrent use; concurrent misses on the same
// key share one decode.
type CachedDecoder struct {
	inner    Decoder
	cache    *lru.Cache[cacheKey, *Clip]
	group    singleflight.Group
	hits     atomic.Int64
	misses   atomic.Int64
	observer func(ctx context.Context, hit bool)
}

var _ Decoder = (*CachedDecoder)(nil)

// CacheOption configures a CachedDecoder.
type CacheOption func(*CachedDecoder)

// WithCacheObserver registers a callback invoked on every lookup.
func WithCacheObserver(fn func(ctx context.Context, hit bool)) CacheOption {
	return func(c *CachedDecoder) { c.observer = fn }
}

// NewCachedDecoder wraps inner with an LRU holding up to size clips.
func NewCachedDecoder(inner Decoder, size int, opts ...CacheOption) (*CachedDecoder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, *Clip](size)
	if err != nil {
		return nil, fmt.Errorf("create decode cache: %w", err)
	}
	c := &CachedDecoder{inner: inner, cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Decode implements Decoder. Returned samples are a private copy.
func (c *CachedDecoder) Decode(ctx context.Context, source string, start, end int) (*Clip, error) {
	if ParseSource(source).Seekable() {
		clip, err := c.lookup(ctx, cacheKey{source: source, start: start, end: end}, func() (*Clip, error) {
			return c.inner.Decode(ctx, source, start, end)
		})
		if err != nil {
			return nil, err
		}
		return clip.Slice(0, -1), nil
	}

	full, err := c.lookup(ctx, cacheKey{source: source, end: -1}, func() (*Clip, error) {
		return c.inner.Decode(ctx, source, 0, -1)
	})
	if err != nil {
		return nil, err
	}
	if start < 0 || (end >= 0 && end < start) {
		return c.inner.Decode(ctx, source, start, end)
	}
	return full.Slice(start, end), nil
}

// Probe implements Decoder. Unseekable sources are probed from the cached
// full decode so the stream is only consumed once.
func (c *CachedDecoder) Probe(ctx context.Context, source string) (*Info, error) {
	if ParseSource(source).Seekable() {
		return c.inner.Probe(ctx, source)
	}
	full, err := c.lookup(ctx, cacheKey{source: source, end: -1}, func() (*Clip, error) {
		return c.inner.Decode(ctx, source, 0, -1)
	})
	if err != nil {
		return nil, err
	}
	return &Info{SampleRate: full.SampleRate, Channels: 1, Frames: full.Len()}, nil
}

func (c *CachedDecoder) lookup(ctx context.Context, key cacheKey, load func() (*Clip, error)) (*Clip, error) {
	if clip, ok := c.cache.Get(key); ok {
		c.record(ctx, true)
		return clip, nil
	}
	c.record(ctx, false)

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		clip, err := load()
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, clip)
		return clip, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Clip), nil
}

func (c *CachedDecoder) record(ctx context.Context, hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	if c.observer != nil {
		c.observer(ctx, hit)
	}
}

// Stats returns hit/miss counters and the current number of cached clips.
func (c *CachedDecoder) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Len: c.cache.Len()}
}

// Purge drops every cached clip.
func (c *CachedDecoder) Purge() { c.cache.Purge() }

// Cached returns a copy of the samples cached for the exact key, if present.
func (c *CachedDecoder) Cached(source string, start, end int) ([]float64, bool) {
	clip, ok := c.cache.Peek(cacheKey{source: source, start: start, end: end})
	if !ok {
		return nil, false
	}
	return slices.Clone(clip.Samples), true
}
