package workload

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes a synthetic read/write workload over a single store.
type Config struct {
	// Writers is the number of goroutines issuing Set/Delete operations.
	Writers int `yaml:"writers"`
	// Readers is the number of goroutines issuing Get operations.
	Readers int `yaml:"readers"`
	// Duration bounds the run.
	Duration time.Duration `yaml:"duration"`
	// KeySpace is the number of distinct keys the workers draw from. A small
	// key space means frequent replaces and delete hits.
	KeySpace int `yaml:"key_space"`
	// ValueSize is the payload size in bytes.
	ValueSize int `yaml:"value_size"`
	// DeleteRatio is the fraction of writer operations that are deletes.
	DeleteRatio float64 `yaml:"delete_ratio"`
}

// DefaultConfig returns a workload that exercises reader concurrency and
// writer contention without needing any configuration file.
func DefaultConfig() Config {
	return Config{
		Writers:     4,
		Readers:     16,
		Duration:    5 * time.Second,
		KeySpace:    10000,
		ValueSize:   64,
		DeleteRatio: 0.25,
	}
}

// LoadConfig reads the YAML configuration file using strict parsing; unknown
// fields are rejected. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open workload config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("YAML syntax error in workload config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the runner cannot work with.
func (c Config) Validate() error {
	if c.Writers < 0 || c.Readers < 0 {
		return fmt.Errorf("worker counts must not be negative (writers=%d, readers=%d)", c.Writers, c.Readers)
	}
	if c.Writers+c.Readers == 0 {
		return fmt.Errorf("at least one writer or reader is required")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.KeySpace <= 0 {
		return fmt.Errorf("key_space must be positive, got %d", c.KeySpace)
	}
	if c.ValueSize <= 0 {
		return fmt.Errorf("value_size must be positive, got %d", c.ValueSize)
	}
	if c.DeleteRatio < 0 || c.DeleteRatio > 1 {
		return fmt.Errorf("delete_ratio must be within [0, 1], got %g", c.DeleteRatio)
	}
	return nil
}
