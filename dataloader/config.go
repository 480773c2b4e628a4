package dataloader

import "github.com/kbukum/speechkit/validation"

// Config controls batching.
type Config struct {
	BatchSize int  `yaml:"batch_size" mapstructure:"batch_size" validate:"gte=0"`
	Workers   int  `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	Shuffle   bool `yaml:"shuffle" mapstructure:"shuffle"`
	// Seed fixes the shuffle order.
	Seed     uint64 `yaml:"seed" mapstructure:"seed"`
	DropLast bool   `yaml:"drop_last" mapstructure:"drop_last"`
	// Prefetch is the number of batches loaded ahead of the consumer.
	Prefetch int `yaml:"prefetch" mapstructure:"prefetch" validate:"gte=0"`
}

// ApplyDefaults applies default values.
func (c *Config) ApplyDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = 8
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Prefetch == 0 {
		c.Prefetch = 2
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Positive("loader.batch_size", c.BatchSize).
		Positive("loader.workers", c.Workers).
		NonNegative("loader.prefetch", c.Prefetch).
		Err()
}
