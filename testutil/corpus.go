package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingLine struct {
	id, source string
	duration   float64
}

type segmentLine struct {
	utt, rec, speaker string
	start, end        float64
}

// CorpusBuilder assembles the index files of a Kaldi data directory.
type CorpusBuilder struct {
	recordings  []recordingLine
	segments    []segmentLine
	noDurations bool
	noSpk2Utt   bool
	extra       map[string]string
}

// NewCorpus starts an empty corpus.
func NewCorpus() *CorpusBuilder {
	return &CorpusBuilder{extra: make(map[string]string)}
}

// Recording adds a wav.scp entry and its reco2dur duration.
func (b *CorpusBuilder) Recording(id, source string, duration float64) *CorpusBuilder {
	b.recordings = append(b.recordings, recordingLine{id: id, source: source, duration: duration})
	return b
}

// Segment adds a segments line and the utterance's utt2spk mapping.
func (b *CorpusBuilder) Segment(utt, rec string, start, end float64, speaker string) *CorpusBuilder {
	b.segments = append(b.segments, segmentLine{utt: utt, rec: rec, start: start, end: end, speaker: speaker})
	return b
}

// WithoutDurations skips reco2dur.
func (b *CorpusBuilder) WithoutDurations() *CorpusBuilder {
	b.noDurations = true
	return b
}

// WithoutSpk2Utt skips spk2utt.
func (b *CorpusBuilder) WithoutSpk2Utt() *CorpusBuilder {
	b.noSpk2Utt = true
	return b
}

// File overrides or adds a raw index file.
func (b *CorpusBuilder) File(name, content string) *CorpusBuilder {
	b.extra[name] = content
	return b
}

// Files renders every index file.
func (b *CorpusBuilder) Files() map[string]string {
	var wav, dur, seg, u2s strings.Builder
	spk2utt := make(map[string][]string)
	var spkOrder []string

	for _, r := range b.recordings {
		fmt.Fprintf(&wav, "%s %s\n", r.id, r.source)
		fmt.Fprintf(&dur, "%s %g\n", r.id, r.duration)
	}
	for _, s := range b.segments {
		fmt.Fprintf(&seg, "%s %s %g %g\n", s.utt, s.rec, s.start, s.end)
		fmt.Fprintf(&u2s, "%s %s\n", s.utt, s.speaker)
		if _, ok := spk2utt[s.speaker]; !ok {
			spkOrder = append(spkOrder, s.speaker)
		}
		spk2utt[s.speaker] = append(spk2utt[s.speaker], s.utt)
	}

	files := map[string]string{
		"wav.scp":  wav.String(),
		"segments": seg.String(),
		"utt2spk":  u2s.String(),
	}
	if !b.noDurations {
		files["reco2dur"] = dur.String()
	}
	if !b.noSpk2Utt {
		var s2u strings.Builder
		for _, spk := range spkOrder {
			fmt.Fprintf(&s2u, "%s %s\n", spk, strings.Join(spk2utt[spk], " "))
		}
		files["spk2utt"] = s2u.String()
	}
	for name, content := range b.extra {
		files[name] = content
	}
	return files
}

// Write renders the corpus into a fresh temp dir and returns its path.
func (b *CorpusBuilder) Write(t testing.TB) string {
	t.Helper()
	return WriteFiles(t, b.Files())
}

// WriteFiles writes raw files into a fresh temp dir and returns its path.
func WriteFiles(t testing.TB, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}
