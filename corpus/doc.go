// Package corpus parses Kaldi-style data directories into read-only lookup
// tables.
//
// A data directory holds plain-text index files, one record per line with
// whitespace-separated fields:
//
//	wav.scp   <recording> <rxfilename...>        required
//	segments  <utt> <recording> <start> <end>    required
//	utt2spk   <utt> <speaker>                    required
//	reco2dur  <recording> <seconds>              optional
//	spk2utt   <speaker> <utt> [<utt>...]         optional
//
// An Index is built once by Load and never mutated afterwards, so it can be
// shared by any number of concurrent readers.
package corpus
