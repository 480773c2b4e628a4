package diarization

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kbukum/speechkit/errors"
)

// Batch is a zero-padded group of items.
type Batch struct {
	// Audio is (len(items), audio cap); row i holds item i's samples.
	Audio *mat.Dense
	// Labels[i] is (label cap, width) for item i, nil when width is zero.
	Labels []*mat.Dense
	// SpeakerLabels mirrors Labels over the corpus speaker list, when items carry them.
	SpeakerLabels []*mat.Dense
	// Lengths are the unpadded audio lengths.
	Lengths []int
	// LabelLengths are the unpadded label row counts.
	LabelLengths []int
	Width        int
}

// Size returns the number of items in the batch.
func (b *Batch) Size() int { return len(b.Lengths) }

// Collator pads items to fixed caps. A cap <= 0 means the largest length
// observed in the batch.
type Collator struct {
	MaxAudioLength int
	MaxLabelLength int
}

// Collate pads audio and labels of items to the same cap maxLen.
func Collate(items []*Item, maxLen int) (*Batch, error) {
	return Collator{MaxAudioLength: maxLen, MaxLabelLength: maxLen}.Collate(items)
}

// Collate builds a Batch. Every item must share the label width and the
// presence of speaker labels, and no item may exceed a cap.
func (c Collator) Collate(items []*Item) (*Batch, error) {
	if len(items) == 0 {
		return nil, errors.ShapeMismatch("cannot collate an empty batch")
	}

	width := items[0].Width()
	withSpeakers := items[0].SpeakerLabels != nil
	speakerWidth := denseCols(items[0].SpeakerLabels)
	audioCap, labelCap := c.MaxAudioLength, c.MaxLabelLength
	observedAudio, observedLabel := 0, 0

	for i, it := range items {
		if it == nil {
			return nil, errors.ShapeMismatch(fmt.Sprintf("item %d is nil", i))
		}
		if it.Width() != width {
			return nil, errors.ShapeMismatch(fmt.Sprintf(
				"item %d has %d label columns, item 0 has %d", i, it.Width(), width,
			)).WithDetail("item", i)
		}
		if (it.SpeakerLabels != nil) != withSpeakers || denseCols(it.SpeakerLabels) != speakerWidth {
			return nil, errors.ShapeMismatch(fmt.Sprintf("item %d speaker labels differ from item 0", i)).
				WithDetail("item", i)
		}
		observedAudio = max(observedAudio, len(it.Audio))
		observedLabel = max(observedLabel, it.Frames())
	}
	if audioCap <= 0 {
		audioCap = observedAudio
	}
	if labelCap <= 0 {
		labelCap = observedLabel
	}
	if observedAudio > audioCap {
		return nil, errors.ShapeMismatch(fmt.Sprintf("audio length %d exceeds cap %d", observedAudio, audioCap))
	}
	if observedLabel > labelCap {
		return nil, errors.ShapeMismatch(fmt.Sprintf("label length %d exceeds cap %d", observedLabel, labelCap))
	}
	if audioCap == 0 {
		return nil, errors.ShapeMismatch("batch has no audio samples")
	}

	b := &Batch{
		Audio:        mat.NewDense(len(items), audioCap, nil),
		Labels:       make([]*mat.Dense, len(items)),
		Lengths:      make([]int, len(items)),
		LabelLengths: make([]int, len(items)),
		Width:        width,
	}
	if withSpeakers {
		b.SpeakerLabels = make([]*mat.Dense, len(items))
	}
	for i, it := range items {
		b.Lengths[i] = len(it.Audio)
		b.LabelLengths[i] = it.Frames()
		copy(b.Audio.RawRowView(i), it.Audio)
		b.Labels[i] = padRows(it.Labels, labelCap)
		if withSpeakers {
			b.SpeakerLabels[i] = padRows(it.SpeakerLabels, labelCap)
		}
	}
	return b, nil
}

func denseCols(m *mat.Dense) int {
	if m == nil {
		return 0
	}
	_, c := m.Dims()
	return c
}

// padRows copies m into a zero matrix with rows rows.
func padRows(m *mat.Dense, rows int) *mat.Dense {
	if m == nil || rows == 0 {
		return nil
	}
	r, c := m.Dims()
	out := mat.NewDense(rows, c, nil)
	out.Slice(0, r, 0, c).(*mat.Dense).Copy(m)
	return out
}
