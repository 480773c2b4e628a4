package corpus

import (
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/kbukum/speechkit/errors"
)

// Index holds the parsed contents of a Kaldi data directory.
type Index struct {
	dir string

	order     []string
	sources   map[string]string
	durations map[string]float64 // nil when reco2dur is absent

	segments map[string][]Segment
	byUtt    map[string]Segment

	utt2spk map[string]string
	spk2utt map[string][]string // nil when spk2utt is absent

	speakerSets map[string]*SpeakerSet
	allSpeakers []string
}

// Load parses the data directory at dir.
func Load(dir string) (*Index, error) {
	idx, err := LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	idx.dir = dir
	return idx, nil
}

// LoadFS parses a data directory rooted at fsys.
func LoadFS(fsys fs.FS) (*Index, error) {
	idx := &Index{
		sources:  make(map[string]string),
		segments: make(map[string][]Segment),
		byUtt:    make(map[string]Segment),
		utt2spk:  make(map[string]string),
	}

	if err := idx.loadSegments(fsys); err != nil {
		return nil, err
	}
	if err := idx.loadUtt2Spk(fsys); err != nil {
		return nil, err
	}
	if err := idx.loadWavScp(fsys); err != nil {
		return nil, err
	}
	if err := idx.loadReco2Dur(fsys); err != nil {
		return nil, err
	}
	if err := idx.loadSpk2Utt(fsys); err != nil {
		return nil, err
	}

	idx.deriveSpeakers()
	return idx, nil
}

func requireLines(fsys fs.FS, name string) ([]line, error) {
	lines, ok, err := readLines(fsys, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.MissingRequiredFile(name)
	}
	return lines, nil
}

func (idx *Index) loadSegments(fsys fs.FS) error {
	lines, err := requireLines(fsys, FileSegments)
	if err != nil {
		return err
	}
	for _, l := range lines {
		seg, err := parseSegment(l)
		if err != nil {
			return err
		}
		idx.segments[seg.Recording] = append(idx.segments[seg.Recording], seg)
		idx.byUtt[seg.Utterance] = seg
	}
	return nil
}

func (idx *Index) loadUtt2Spk(fsys fs.FS) error {
	lines, err := requireLines(fsys, FileUtt2Spk)
	if err != nil {
		return err
	}
	for _, l := range lines {
		utt, spk, err := keyRest(FileUtt2Spk, l)
		if err != nil {
			return err
		}
		idx.utt2spk[utt] = spk
	}
	return nil
}

func (idx *Index) loadWavScp(fsys fs.FS) error {
	lines, err := requireLines(fsys, FileWavScp)
	if err != nil {
		return err
	}
	for _, l := range lines {
		rec, src, err := keyRest(FileWavScp, l)
		if err != nil {
			return err
		}
		if _, seen := idx.sources[rec]; !seen {
			idx.order = append(idx.order, rec)
		}
		idx.sources[rec] = src
	}
	return nil
}

func (idx *Index) loadReco2Dur(fsys fs.FS) error {
	lines, ok, err := readLines(fsys, FileReco2Dur)
	if err != nil || !ok {
		return err
	}
	idx.durations = make(map[string]float64, len(lines))
	for _, l := range lines {
		rec, val, err := keyRest(FileReco2Dur, l)
		if err != nil {
			return err
		}
		dur, err := parseSeconds(FileReco2Dur, l, val)
		if err != nil {
			return err
		}
		idx.durations[rec] = dur
	}
	return nil
}

func (idx *Index) loadSpk2Utt(fsys fs.FS) error {
	lines, ok, err := readLines(fsys, FileSpk2Utt)
	if err != nil || !ok {
		return err
	}
	idx.spk2utt = make(map[string][]string, len(lines))
	for _, l := range lines {
		if len(l.fields) < 2 {
			return errors.CorpusFormat(FileSpk2Utt, l.no, "speaker "+l.fields[0]+" lists no utterances")
		}
		idx.spk2utt[l.fields[0]] = slices.Clone(l.fields[1:])
	}
	return nil
}

// deriveSpeakers computes every recording's SpeakerSet once, so all chunks
// of a recording share one column assignment.
func (idx *Index) deriveSpeakers() {
	idx.speakerSets = make(map[string]*SpeakerSet, len(idx.sources)+len(idx.segments))
	for rec, segs := range idx.segments {
		ids := make([]string, 0, len(segs))
		var missing error
		for _, seg := range segs {
			spk, ok := idx.utt2spk[seg.Utterance]
			if !ok {
				if missing == nil {
					missing = errors.SpeakerNotIndexed(rec, seg.Utterance)
				}
				continue
			}
			ids = append(ids, spk)
		}
		set := newSpeakerSet(ids)
		set.err = missing
		idx.speakerSets[rec] = set
	}
	for _, rec := range idx.order {
		if _, ok := idx.speakerSets[rec]; !ok {
			idx.speakerSets[rec] = newSpeakerSet(nil)
		}
	}

	if idx.spk2utt != nil {
		idx.allSpeakers = make([]string, 0, len(idx.spk2utt))
		for spk := range idx.spk2utt {
			idx.allSpeakers = append(idx.allSpeakers, spk)
		}
	} else {
		idx.allSpeakers = make([]string, 0, len(idx.utt2spk))
		for _, spk := range idx.utt2spk {
			idx.allSpeakers = append(idx.allSpeakers, spk)
		}
	}
	slices.Sort(idx.allSpeakers)
	idx.allSpeakers = slices.Compact(idx.allSpeakers)
}

// Dir returns the directory passed to Load, or "" for LoadFS.
func (idx *Index) Dir() string { return idx.dir }

// Recordings returns recording ids in wav.scp order.
func (idx *Index) Recordings() []string { return slices.Clone(idx.order) }

// Recording returns the recording with id.
func (idx *Index) Recording(id string) (Recording, bool) {
	src, ok := idx.sources[id]
	if !ok {
		return Recording{}, false
	}
	dur, hasDur := idx.Duration(id)
	return Recording{ID: id, Source: src, Duration: dur, HasDuration: hasDur}, true
}

// Source returns the wav.scp rxfilename of a recording.
func (idx *Index) Source(id string) (string, bool) {
	src, ok := idx.sources[id]
	return src, ok
}

// HasDurations reports whether reco2dur was present.
func (idx *Index) HasDurations() bool { return idx.durations != nil }

// Duration returns the reco2dur duration of a recording in seconds.
func (idx *Index) Duration(id string) (float64, bool) {
	if idx.durations == nil {
		return 0, false
	}
	d, ok := idx.durations[id]
	return d, ok
}

// Segments returns the recording's segments in file order. A recording
// without segments yields an empty slice.
func (idx *Index) Segments(id string) []Segment {
	return slices.Clone(idx.segments[id])
}

// UtteranceSegment returns the segment that defines utt.
func (idx *Index) UtteranceSegment(utt string) (Segment, bool) {
	seg, ok := idx.byUtt[utt]
	return seg, ok
}

// Speaker returns the utt2spk speaker of an utterance.
func (idx *Index) Speaker(utt string) (string, bool) {
	spk, ok := idx.utt2spk[utt]
	return spk, ok
}

// HasSpeakerUtterances reports whether spk2utt was present.
func (idx *Index) HasSpeakerUtterances() bool { return idx.spk2utt != nil }

// SpeakerUtterances returns the spk2utt utterance list of a speaker.
func (idx *Index) SpeakerUtterances(spk string) ([]string, bool) {
	if idx.spk2utt == nil {
		return nil, false
	}
	utts, ok := idx.spk2utt[spk]
	return slices.Clone(utts), ok
}

// Speakers returns the derived speaker set of a recording. Unknown
// recordings get an empty set.
func (idx *Index) Speakers(rec string) *SpeakerSet {
	if set, ok := idx.speakerSets[rec]; ok {
		return set
	}
	return newSpeakerSet(nil)
}

// AllSpeakers returns every speaker in the corpus, sorted: spk2utt keys when
// present, utt2spk values otherwise.
func (idx *Index) AllSpeakers() []string { return slices.Clone(idx.allSpeakers) }

// Stats summarizes the index.
func (idx *Index) Stats() Stats {
	n := 0
	for _, segs := range idx.segments {
		n += len(segs)
	}
	return Stats{
		Recordings: len(idx.order),
		Segments:   n,
		Utterances: len(idx.utt2spk),
		Speakers:   len(idx.allSpeakers),
	}
}

// PipeThrough returns an rxfilename that feeds source through command, which
// must read stdin and write stdout.
func PipeThrough(source, command string) string {
	source = strings.TrimSpace(source)
	if strings.HasSuffix(source, "|") {
		return source + " " + command + " |"
	}
	return "cat " + source + " | " + command + " |"
}
