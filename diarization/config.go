package diarization

import "github.com/kbukum/speechkit/validation"

// Config controls chunk planning and labeling.
type Config struct {
	// ChunkSize is the window length in subsampled frames.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gte=0"`
	// Step is the window stride; defaults to ChunkSize.
	Step int `yaml:"step" mapstructure:"step" validate:"gte=0"`
	// FrameShift is the number of samples per frame.
	FrameShift  int `yaml:"frame_shift" mapstructure:"frame_shift" validate:"gte=0"`
	Subsampling int `yaml:"subsampling" mapstructure:"subsampling" validate:"gte=0"`
	// SampleRate is the nominal rate used to turn reco2dur into frames.
	SampleRate     int  `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0"`
	LabelDelay     int  `yaml:"label_delay" mapstructure:"label_delay" validate:"gte=0"`
	UseLastSamples bool `yaml:"use_last_samples" mapstructure:"use_last_samples"`
	// SpeakerCount fixes the label width; 0 uses each recording's speaker count.
	SpeakerCount int `yaml:"speaker_count" mapstructure:"speaker_count" validate:"gte=0"`
	// MaxFrames is the collation cap in subsampled frames, like ChunkSize.
	MaxFrames int `yaml:"max_frames" mapstructure:"max_frames" validate:"gte=0"`
	// GlobalSpeakerLabels also fills Item.SpeakerLabels over the corpus speaker list.
	GlobalSpeakerLabels bool `yaml:"global_speaker_labels" mapstructure:"global_speaker_labels"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 2000
	}
	if c.Step == 0 {
		c.Step = c.ChunkSize
	}
	if c.FrameShift == 0 {
		c.FrameShift = 256
	}
	if c.Subsampling == 0 {
		c.Subsampling = 1
	}
	if c.SampleRate == 0 {
		c.SampleRate = 16000
	}
	if c.MaxFrames == 0 {
		c.MaxFrames = 2000
	}
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	return validation.New().
		Positive("dataset.chunk_size", c.ChunkSize).
		Positive("dataset.step", c.Step).
		Positive("dataset.frame_shift", c.FrameShift).
		Positive("dataset.subsampling", c.Subsampling).
		Positive("dataset.sample_rate", c.SampleRate).
		NonNegative("dataset.label_delay", c.LabelDelay).
		NonNegative("dataset.speaker_count", c.SpeakerCount).
		Err()
}

// Collator returns the collator whose caps match MaxFrames: label rows are
// MaxFrames*Subsampling and audio is that many frames of FrameShift samples.
func (c Config) Collator() Collator {
	labels := c.MaxFrames * c.Subsampling
	return Collator{MaxAudioLength: labels * c.FrameShift, MaxLabelLength: labels}
}
