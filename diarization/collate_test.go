package diarization

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/kbukum/speechkit/errors"
)

// onesItem has frames samples and a frames x width label matrix, all ones.
func onesItem(frames, width int) *Item {
	it := &Item{Start: 0, End: frames, Audio: make([]float64, frames)}
	for i := range it.Audio {
		it.Audio[i] = 1
	}
	if width > 0 {
		data := make([]float64, frames*width)
		for i := range data {
			data[i] = 1
		}
		it.Labels = mat.NewDense(frames, width, data)
	}
	return it
}

func TestCollate_PadsToCap(t *testing.T) {
	b, err := Collate([]*Item{onesItem(50, 2), onesItem(80, 2)}, 100)
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if b.Lengths[0] != 50 || b.Lengths[1] != 80 {
		t.Errorf("Lengths = %v, want [50 80]", b.Lengths)
	}
	if b.Size() != 2 || b.Width != 2 {
		t.Errorf("unexpected size %d width %d", b.Size(), b.Width)
	}

	rows, cols := b.Audio.Dims()
	if rows != 2 || cols != 100 {
		t.Fatalf("audio is %dx%d, want 2x100", rows, cols)
	}
	for i, n := range b.Lengths {
		for j := range 100 {
			want := 0.0
			if j < n {
				want = 1
			}
			if b.Audio.At(i, j) != want {
				t.Fatalf("audio[%d][%d] = %v, want %v", i, j, b.Audio.At(i, j), want)
			}
		}
		lr, lc := b.Labels[i].Dims()
		if lr != 100 || lc != 2 {
			t.Fatalf("labels[%d] is %dx%d, want 100x2", i, lr, lc)
		}
		for r := range 100 {
			for c := range 2 {
				want := 0.0
				if r < n {
					want = 1
				}
				if b.Labels[i].At(r, c) != want {
					t.Fatalf("labels[%d][%d][%d] = %v, want %v", i, r, c, b.Labels[i].At(r, c), want)
				}
			}
		}
	}
}

func TestCollator_ObservedMax(t *testing.T) {
	items := []*Item{onesItem(30, 1), onesItem(70, 1)}
	items[0].Audio = make([]float64, 300)
	items[1].Audio = make([]float64, 700)

	b, err := Collator{}.Collate(items)
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if _, cols := b.Audio.Dims(); cols != 700 {
		t.Errorf("audio cap = %d, want 700", cols)
	}
	if rows, _ := b.Labels[0].Dims(); rows != 70 {
		t.Errorf("label cap = %d, want 70", rows)
	}
	if b.LabelLengths[0] != 30 || b.Lengths[0] != 300 {
		t.Errorf("unexpected lengths %v %v", b.Lengths, b.LabelLengths)
	}
}

func TestCollate_Errors(t *testing.T) {
	withSpeakers := onesItem(10, 1)
	withSpeakers.SpeakerLabels = mat.NewDense(10, 3, nil)

	tests := []struct {
		name  string
		items []*Item
		cap   int
	}{
		{"empty", nil, 100},
		{"width mismatch", []*Item{onesItem(10, 2), onesItem(10, 3)}, 100},
		{"longer than cap", []*Item{onesItem(10, 2), onesItem(120, 2)}, 100},
		{"speaker labels on one item only", []*Item{onesItem(10, 1), withSpeakers}, 100},
		{"nil item", []*Item{onesItem(10, 1), nil}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Collate(tt.items, tt.cap)
			if !errors.IsCode(err, errors.ErrCodeShapeMismatch) {
				t.Errorf("expected SHAPE_MISMATCH, got %v", err)
			}
		})
	}
}

func TestCollate_ZeroWidth(t *testing.T) {
	b, err := Collate([]*Item{onesItem(10, 0), onesItem(20, 0)}, 0)
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if b.Width != 0 || b.Labels[0] != nil {
		t.Errorf("expected nil label matrices for zero width")
	}
}

func TestConfig_Collator(t *testing.T) {
	cfg := Config{MaxFrames: 100, Subsampling: 2, FrameShift: 80}
	c := cfg.Collator()
	if c.MaxLabelLength != 200 || c.MaxAudioLength != 16000 {
		t.Fatalf("unexpected caps %+v", c)
	}

	it := onesItem(200, 1)
	it.Audio = make([]float64, 16000)
	b, err := c.Collate([]*Item{it})
	if err != nil {
		t.Fatalf("Collate: %v", err)
	}
	if rows, _ := b.Labels[0].Dims(); rows != 200 {
		t.Errorf("expected 200 label rows, got %d", rows)
	}

	it.Audio = make([]float64, 16001)
	if _, err := c.Collate([]*Item{it}); !errors.IsCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected SHAPE_MISMATCH past the audio cap, got %v", err)
	}
}
