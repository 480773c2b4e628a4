package corpus

import "slices"

// Index file names inside a data directory.
const (
	FileWavScp   = "wav.scp"
	FileSegments = "segments"
	FileUtt2Spk  = "utt2spk"
	FileReco2Dur = "reco2dur"
	FileSpk2Utt  = "spk2utt"
)

// Recording is one continuous audio source.
type Recording struct {
	ID string `json:"id"`
	// Source is the wav.scp rxfilename: a path, a command ending in "|", or "-".
	Source string `json:"source"`
	// Duration in seconds; only meaningful when HasDuration is set.
	Duration    float64 `json:"duration,omitempty"`
	HasDuration bool    `json:"has_duration"`
}

// Segment is a speech span attributed to one utterance.
// Start < End always holds for segments produced by Load.
type Segment struct {
	Utterance string  `json:"utterance"`
	Recording string  `json:"recording"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

// SpeakerSet is the sorted-unique list of speakers referenced by one
// recording's segments. Its order defines the label matrix columns for every
// chunk of that recording.
type SpeakerSet struct {
	ids  []string
	cols map[string]int
	err  error
}

func newSpeakerSet(ids []string) *SpeakerSet {
	slices.Sort(ids)
	ids = slices.Compact(ids)
	cols := make(map[string]int, len(ids))
	for i, id := range ids {
		cols[id] = i
	}
	return &SpeakerSet{ids: ids, cols: cols}
}

// IDs returns a copy of the sorted speaker ids.
func (s *SpeakerSet) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of distinct speakers.
func (s *SpeakerSet) Len() int { return len(s.ids) }

// Column returns the label column of speaker.
func (s *SpeakerSet) Column(speaker string) (int, bool) {
	c, ok := s.cols[speaker]
	return c, ok
}

// Err reports the SpeakerNotIndexed error found while deriving the set, if any.
func (s *SpeakerSet) Err() error { return s.err }

// Stats summarizes an Index.
type Stats struct {
	Recordings int `json:"recordings"`
	Segments   int `json:"segments"`
	Utterances int `json:"utterances"`
	Speakers   int `json:"speakers"`
}
