package diarization

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/corpus"
	"github.com/kbukum/speechkit/errors"
)

// Item is one labeled chunk.
type Item struct {
	Recording string `json:"recording"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	// Audio holds mono samples [Start*FrameShift, End*FrameShift), truncated
	// at the end of the source.
	Audio      []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	// Labels is the (End-Start, speakers) activity matrix. It is nil when
	// the label width is zero.
	Labels *mat.Dense `json:"-"`
	// Speakers names the Labels columns that come from the recording.
	Speakers []string `json:"speakers"`
	// SpeakerLabels is the activity matrix over the corpus speaker list,
	// set only when global speaker labels are enabled.
	SpeakerLabels *mat.Dense `json:"-"`
}

// Frames returns the label row count, End - Start.
func (it *Item) Frames() int { return it.End - it.Start }

// Width returns the label column count.
func (it *Item) Width() int {
	if it.Labels == nil {
		return 0
	}
	_, c := it.Labels.Dims()
	return c
}

// ActiveFrames counts the active frames of every label column.
func (it *Item) ActiveFrames() []int {
	counts := make([]int, it.Width())
	if it.Labels == nil {
		return counts
	}
	rows, cols := it.Labels.Dims()
	for c := range cols {
		for r := range rows {
			if it.Labels.At(r, c) != 0 {
				counts[c]++
			}
		}
	}
	return counts
}

// Labeler decodes chunk audio and rasterizes segments into label matrices.
// It only reads the index and is safe for concurrent use when its decoder is.
type Labeler struct {
	index        *corpus.Index
	decoder      audio.Decoder
	frameShift   int
	speakerCount int

	globalIDs  []string
	globalCols map[string]int
}

// NewLabeler creates a Labeler. cfg must have defaults applied.
func NewLabeler(idx *corpus.Index, dec audio.Decoder, cfg Config) *Labeler {
	l := &Labeler{
		index:        idx,
		decoder:      dec,
		frameShift:   cfg.FrameShift,
		speakerCount: cfg.SpeakerCount,
	}
	if cfg.GlobalSpeakerLabels {
		l.globalIDs = idx.AllSpeakers()
		l.globalCols = make(map[string]int, len(l.globalIDs))
		for i, spk := range l.globalIDs {
			l.globalCols[spk] = i
		}
	}
	return l
}

// Load returns the audio and labels of frames [start, end) of rec.
func (l *Labeler) Load(ctx context.Context, rec string, start, end int) (*Item, error) {
	if start < 0 || end <= start {
		return nil, errors.InvalidInput("range", fmt.Sprintf("frame range [%d, %d) is empty", start, end))
	}
	source, ok := l.index.Source(rec)
	if !ok {
		return nil, errors.NotFound("recording", rec)
	}
	speakers := l.index.Speakers(rec)
	if err := speakers.Err(); err != nil {
		return nil, err
	}

	clip, err := l.decoder.Decode(ctx, source, start*l.frameShift, end*l.frameShift)
	if err != nil {
		return nil, err
	}
	if clip.SampleRate <= 0 {
		return nil, errors.AudioSource(source, fmt.Errorf("decoder reported sample rate %d", clip.SampleRate))
	}

	width := speakers.Len()
	if l.speakerCount > 0 {
		width = l.speakerCount
	}
	frames := end - start
	item := &Item{
		Recording:  rec,
		Start:      start,
		End:        end,
		Audio:      clip.Samples,
		SampleRate: clip.SampleRate,
		Labels:     newLabelMatrix(frames, width),
		Speakers:   speakers.IDs(),
	}
	if l.globalCols != nil {
		item.SpeakerLabels = newLabelMatrix(frames, len(l.globalIDs))
	}

	for _, seg := range l.index.Segments(rec) {
		lo, hi, ok := overlap(seg, clip.SampleRate, l.frameShift, start, end)
		if !ok {
			continue
		}
		spk, _ := l.index.Speaker(seg.Utterance)
		col, _ := speakers.Column(spk)
		if col >= width {
			return nil, errors.ShapeMismatch(fmt.Sprintf(
				"recording %q has %d speakers but labels are %d wide", rec, speakers.Len(), width,
			)).WithDetails(map[string]any{"recording": rec, "speakers": speakers.Len(), "width": width})
		}
		markActive(item.Labels, lo, hi, col)

		if item.SpeakerLabels != nil {
			gcol, ok := l.globalCols[spk]
			if !ok {
				return nil, errors.SpeakerNotIndexed(rec, seg.Utterance).
					WithDetail("speaker", spk)
			}
			markActive(item.SpeakerLabels, lo, hi, gcol)
		}
	}
	return item, nil
}

// overlap maps seg onto the window [start, end) and returns local rows
// [lo, hi). A bound is taken from the segment only when that segment edge
// lies inside the window; the other bound falls back to the window edge.
// A segment with neither edge inside the window contributes nothing.
func overlap(seg corpus.Segment, rate, frameShift, start, end int) (lo, hi int, ok bool) {
	sf := timeToFrame(seg.Start, rate, frameShift)
	ef := timeToFrame(seg.End, rate, frameShift)

	lo, hi = 0, end-start
	if start <= sf && sf < end {
		lo, ok = sf-start, true
	}
	if start < ef && ef <= end {
		hi, ok = ef-start, true
	}
	return lo, hi, ok
}

// timeToFrame rounds half to even.
func timeToFrame(t float64, rate, frameShift int) int {
	return int(math.RoundToEven(t * float64(rate) / float64(frameShift)))
}

func newLabelMatrix(rows, cols int) *mat.Dense {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	return mat.NewDense(rows, cols, nil)
}

func markActive(m *mat.Dense, lo, hi, col int) {
	for r := lo; r < hi; r++ {
		m.Set(r, col, 1)
	}
}
