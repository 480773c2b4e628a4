package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV writes interleaved 16-bit PCM samples to dir/name and returns the path.
func WriteWAV(t testing.TB, dir, name string, sampleRate, channels int, samples []int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize %s: %v", path, err)
	}
	return path
}

// Ramp returns n mono samples whose value at i is i modulo 1000, so a
// decoded slice can be checked against its expected offset.
func Ramp(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i % 1000
	}
	return out
}

// RampValue is the normalized float a Ramp sample decodes to.
func RampValue(i int) float64 {
	return float64(i%1000) / 32768.0
}
