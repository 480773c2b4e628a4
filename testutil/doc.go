// Package testutil provides fixtures for speechkit tests.
//
// CorpusBuilder writes a Kaldi data directory into a test's temp dir, and
// WriteWAV writes deterministic PCM audio that the audio package can decode.
//
//	dir := testutil.NewCorpus().
//	    Recording("rec1", wavPath, 10).
//	    Segment("utt1", "rec1", 0.5, 2.0, "spkA").
//	    Write(t)
//	idx, err := corpus.Load(dir)
package testutil
