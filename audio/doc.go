// Package audio decodes Kaldi rxfilenames into mono float samples.
//
// A source descriptor is one of:
//
//	/path/to/file.wav        seekable file (WAV, or MP3 by extension)
//	sox in.flac -t wav - |   shell pipeline, decoded fully then sliced
//	-                        standard input, decoded fully then sliced
//
// SourceDecoder does the work; CachedDecoder wraps any Decoder with an
// explicit bounded LRU so nearby chunks of one recording reuse a decode.
package audio
