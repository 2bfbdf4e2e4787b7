// Package config handles application configuration and command-line argument parsing.
package config

import (
	"fmt"
	"runtime"

	"github.com/alexflint/go-arg"
	"github.com/bmatcuk/doublestar/v4"
)

// DefaultBufferSize is the default copy buffer size in bytes (1 MiB).
const DefaultBufferSize = 1048576

// Config holds the application configuration
type Config struct {
	Source  string `arg:"positional,required" help:"Source file or directory"`
	Dest    string `arg:"positional,required" help:"Destination file or directory"`
	Workers int    `arg:"-w,--workers" help:"Number of concurrent copy workers (default: logical core count)"`
	Buffer  int    `arg:"-b,--buffer" help:"Read/write buffer size in bytes"`
	Verify  bool   `arg:"--verify" help:"Verify each copied file against its source with a SHA-256 digest (slower)"`
	Pattern string `arg:"--pattern" help:"Only copy files whose relative path matches this glob (e.g. '**/*.mov')"`
	Plain   bool   `arg:"--plain" help:"Print plain-text progress instead of the terminal UI"`
	LogPath string `arg:"--log" help:"Write a timestamped debug log to this file"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "A parallel file and directory copy tool with progress and integrity verification"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "supercopy 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{
		Workers: runtime.NumCPU(),
		Buffer:  DefaultBufferSize,
	}

	arg.MustParse(cfg)

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks flag values that go-arg can't express as tags.
func (cfg *Config) Validate() error {
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}

	if cfg.Buffer < 1 {
		return fmt.Errorf("buffer size must be at least 1 byte, got %d", cfg.Buffer)
	}

	if cfg.Pattern != "" && !doublestar.ValidatePattern(cfg.Pattern) {
		return fmt.Errorf("invalid glob pattern: %s", cfg.Pattern)
	}

	return nil
}
