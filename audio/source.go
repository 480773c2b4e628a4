package audio

import "strings"

// SourceKind classifies an rxfilename.
type SourceKind int

const (
	KindFile SourceKind = iota
	KindPipe
	KindStdin
)

func (k SourceKind) String() string {
	switch k {
	case KindPipe:
		return "pipe"
	case KindStdin:
		return "stdin"
	default:
		return "file"
	}
}

// Source is a parsed rxfilename.
type Source struct {
	Kind SourceKind
	// Path is set for KindFile.
	Path string
	// Command is the shell pipeline, without the trailing "|", for KindPipe.
	Command string
}

// ParseSource classifies a wav.scp descriptor.
func ParseSource(desc string) Source {
	desc = strings.TrimSpace(desc)
	switch {
	case desc == "-":
		return Source{Kind: KindStdin}
	case strings.HasSuffix(desc, "|"):
		return Source{Kind: KindPipe, Command: strings.TrimSpace(strings.TrimSuffix(desc, "|"))}
	default:
		return Source{Kind: KindFile, Path: desc}
	}
}

// Seekable reports whether a sample range can be read without decoding the
// whole stream.
func (s Source) Seekable() bool { return s.Kind == KindFile }
