// Package dataloader groups dataset items into collated batches.
//
// Items of one batch are loaded concurrently. A failing item never cancels
// its siblings: the batch waits for every load, then reports the first error
// and is not collated.
//
//	l := dataloader.New(ds, dataloader.Config{BatchSize: 8, Workers: 4})
//	it := l.Batches(ctx)
//	defer it.Close()
//	for {
//		b, ok, err := it.Next(ctx)
//		...
//	}
package dataloader
