package config

import (
	"fmt"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/dataloader"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/server"
	"github.com/kbukum/speechkit/validation"
)

// Config is the complete speechkit configuration.
type Config struct {
	BaseConfig `yaml:",inline" mapstructure:",squash"`

	// DataDir is the Kaldi data directory holding wav.scp, segments and utt2spk.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`

	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Dataset       diarization.Config   `yaml:"dataset" mapstructure:"dataset"`
	Loader        dataloader.Config    `yaml:"loader" mapstructure:"loader"`
	Cache         CacheConfig          `yaml:"cache" mapstructure:"cache"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// CacheConfig controls the decoded-audio LRU.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Size    int  `yaml:"size" mapstructure:"size" validate:"gte=0"`
}

// ApplyDefaults fills every section's zero values.
func (c *Config) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
	c.Dataset.ApplyDefaults()
	c.Loader.ApplyDefaults()
	if c.Cache.Size == 0 {
		c.Cache.Size = audio.DefaultCacheSize
	}
	c.Server.ApplyDefaults()
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	c.Observability.ApplyDefaults()
}

// Validate checks struct tags and every section's own rules, reporting all
// failures together.
func (c *Config) Validate() error {
	v := validation.New().Merge(validation.Validate(c))
	for _, validate := range []func() error{
		c.BaseConfig.Validate,
		c.Logging.Validate,
		c.Dataset.Validate,
		c.Loader.Validate,
		c.Server.Validate,
		c.Observability.Validate,
	} {
		v.Merge(validate())
	}
	if err := v.Err(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads the speechkit configuration, applies defaults and validates it.
func Load(opts ...LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := LoadConfig(ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
