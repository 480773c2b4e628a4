// Package config loads speechkit configuration.
//
// Values come from a YAML file (searched under cmd/speechkit, config/ and the
// working directory), an optional .env file, SPEECHKIT_-prefixed environment
// variables and explicit overrides, in increasing precedence:
//
//	cfg, err := config.Load(
//		config.WithConfigFile("speechkit.yml"),
//		config.WithOverride("data_dir", "data/train"),
//	)
//
// SPEECHKIT_DATASET_CHUNK_SIZE=500 sets dataset.chunk_size. Every section
// applies its own defaults and is validated after loading.
package config
