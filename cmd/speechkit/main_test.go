package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/testutil"
)

// setup writes a one-recording corpus (2 s at 8 kHz, four 50-frame chunks)
// and a config file pointing at it.
func setup(t *testing.T) (configPath string) {
	t.Helper()
	dir := t.TempDir()
	wavPath := testutil.WriteWAV(t, dir, "rec1.wav", 8000, 1, testutil.Ramp(16000))
	dataDir := testutil.NewCorpus().
		Recording("rec1", wavPath, 2).
		Segment("u1", "rec1", 0.25, 0.75, "spk1").
		Segment("u2", "rec1", 1.0, 1.5, "spk2").
		Write(t)

	configPath = filepath.Join(dir, "speechkit.yml")
	content := "data_dir: " + dataDir + `
logging:
  level: error
dataset:
  chunk_size: 50
  frame_shift: 80
  sample_rate: 8000
  max_frames: 50
loader:
  batch_size: 2
  workers: 2
cache:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestPlan(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "plan")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "rec1") || !strings.Contains(out, "reco2dur") {
		t.Errorf("missing recording row:\n%s", out)
	}
	if !strings.Contains(out, "total: 4 chunks") {
		t.Errorf("missing total:\n%s", out)
	}
}

func TestInspect(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "inspect", "1")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, "rec1 frames [50, 100), 4000 samples at 8000 Hz") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "spk1") || !strings.Contains(out, "25/50") {
		t.Errorf("expected spk1 active for 25 of 50 frames:\n%s", out)
	}

	if _, err := run(t, "--config", cfg, "inspect", "x"); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for a non-integer index, got %v", err)
	}
}

func TestExtract(t *testing.T) {
	cfg := setup(t)
	outDir := filepath.Join(t.TempDir(), "segments")
	out, err := run(t, "--config", cfg, "extract", "--quiet", outDir)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "wrote 2 segments") {
		t.Errorf("unexpected output: %s", out)
	}

	clip, err := audio.NewSourceDecoder().Decode(context.Background(), filepath.Join(outDir, "u1.wav"), 0, -1)
	if err != nil {
		t.Fatalf("decode u1.wav: %v", err)
	}
	if clip.Len() != 4000 || clip.SampleRate != 8000 {
		t.Fatalf("expected 4000 samples at 8 kHz, got %d at %d", clip.Len(), clip.SampleRate)
	}
	// u1 starts at 0.25 s, sample 2000 of the ramp.
	if clip.Samples[0] != testutil.RampValue(2000) {
		t.Errorf("first sample = %v, want %v", clip.Samples[0], testutil.RampValue(2000))
	}
}

func TestBatches(t *testing.T) {
	cfg := setup(t)
	out, err := run(t, "--config", cfg, "batches")
	if err != nil {
		t.Fatalf("batches: %v", err)
	}
	if !strings.Contains(out, "batch 0: 2 items, audio 2x4000") {
		t.Errorf("unexpected first batch:\n%s", out)
	}
	if !strings.Contains(out, "2 of 2 batches") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestDataDirFlagOverridesConfig(t *testing.T) {
	cfg := setup(t)
	_, err := run(t, "--config", cfg, "--data-dir", filepath.Join(t.TempDir(), "missing"), "plan")
	if !errors.IsCode(err, errors.ErrCodeMissingRequiredFile) {
		t.Errorf("expected MISSING_REQUIRED_FILE for the flag's directory, got %v", err)
	}
}
