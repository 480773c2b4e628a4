package server

import (
	"fmt"
	"time"

	"github.com/kbukum/speechkit/validation"
)

// Config holds the inspection server settings. Durations accept "15s" style
// strings in YAML and the environment.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	// Port 0 picks a free port.
	Port         int           `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	// ShutdownTimeout bounds the drain of in-flight chunk loads on stop.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	// chunk decoding can be slow for piped sources
	if c.WriteTimeout == 0 {
		c.WriteTimeout = time.Minute
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	return validation.New().
		Range("server.port", c.Port, 0, 65535).
		Custom(c.ReadTimeout >= 0, "server.read_timeout", "must not be negative").
		Custom(c.WriteTimeout >= 0, "server.write_timeout", "must not be negative").
		Custom(c.IdleTimeout >= 0, "server.idle_timeout", "must not be negative").
		Custom(c.ShutdownTimeout >= 0, "server.shutdown_timeout", "must not be negative").
		Err()
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
