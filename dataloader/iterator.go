package dataloader

import (
	"context"
	"sync"
)

// Iterator provides pull-based access to batches.
type Iterator interface {
	// Next returns the next batch. Returns (nil, false, nil) when exhausted.
	Next(ctx context.Context) (*Batch, bool, error)
	// Close stops background loading and waits for it to finish.
	Close() error
}

type result struct {
	batch *Batch
	err   error
}

type batchIter struct {
	ch     <-chan result
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   bool
}

// Batches starts loading batches in the background, keeping up to Prefetch
// batches ready ahead of the consumer. Iteration stops after the first
// failed batch.
func (l *Loader) Batches(ctx context.Context) Iterator {
	plan := l.Plan()
	loadCtx, cancel := context.WithCancel(ctx)
	ch := make(chan result, l.cfg.Prefetch)

	it := &batchIter{ch: ch, cancel: cancel}
	it.wg.Go(func() {
		defer close(ch)
		for n, indices := range plan {
			if loadCtx.Err() != nil {
				return
			}
			b, err := l.batch(loadCtx, n, indices)
			select {
			case ch <- result{batch: b, err: err}:
			case <-loadCtx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	})
	return it
}

func (it *batchIter) Next(ctx context.Context) (*Batch, bool, error) {
	if it.done {
		return nil, false, nil
	}
	select {
	case r, open := <-it.ch:
		if !open {
			it.done = true
			return nil, false, nil
		}
		if r.err != nil {
			it.done = true
			return nil, false, r.err
		}
		return r.batch, true, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (it *batchIter) Close() error {
	it.cancel()
	it.wg.Wait()
	return nil
}
