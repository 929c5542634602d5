// Package config loads the server configuration from an optional YAML
// file with flag-friendly defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
	// Parallel controls the kernel lane runner.
	Parallel ParallelConfig `yaml:"parallel"`
	// Transfer controls bulk array payloads.
	Transfer TransferConfig `yaml:"transfer"`
}

// ParallelConfig mirrors the lane runner settings.
type ParallelConfig struct {
	Enabled      bool `yaml:"enabled"`
	NumWorkers   int  `yaml:"numWorkers"`
	MinChunkSize int  `yaml:"minChunkSize"`
}

// TransferConfig controls the fetch command's payload encoding.
type TransferConfig struct {
	// CompressThreshold is the payload size in bytes above which fetch
	// responses are lz4-framed. Zero frames every payload; negative
	// disables compression.
	CompressThreshold int `yaml:"compressThreshold"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":5555",
		LogLevel: "info",
		Parallel: ParallelConfig{
			Enabled: true,
		},
		Transfer: TransferConfig{
			CompressThreshold: 1 << 20,
		},
	}
}

// Load reads path and overlays it on the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
