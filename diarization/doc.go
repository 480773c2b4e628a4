// Package diarization turns a Kaldi corpus into fixed-length training chunks
// with dense per-frame, per-speaker activity labels.
//
// # Pipeline
//
//	idx, _ := corpus.Load("data/train")
//	ds, _ := diarization.NewDataset(ctx, idx, decoder, cfg)
//	item, _ := ds.Get(ctx, 0)
//	batch, _ := diarization.Collate(items, cfg.MaxFrames)
//
// Chunk windows are planned once, when the Dataset is built. Items are
// decoded and labeled on every access and are not retained.
package diarization
