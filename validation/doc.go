// Package validation checks configuration and request input.
//
// Struct tags are checked with go-playground/validator and reported under
// their config keys:
//
//	type LoaderConfig struct {
//	    Workers int `mapstructure:"workers" validate:"gte=0"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic checks collect every failure before returning:
//
//	err := validation.New().
//	    Positive("batch_size", n).
//	    OptionalUUID("run_id", id).
//	    Err()
package validation
