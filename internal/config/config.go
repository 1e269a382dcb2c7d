// Package config holds the file-backed settings of the cadence command and
// turns them into pool options.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/cadence/pool"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Logging configures the command's logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Config is the on-disk shape of a cadence run.
type Config struct {
	Name         string  `yaml:"name"`
	Workers      int     `yaml:"workers"`
	Iterations   int     `yaml:"iterations"`
	Forever      bool    `yaml:"forever"`
	Interval     string  `yaml:"interval"`
	Jitter       float64 `yaml:"jitter"`
	Rate         float64 `yaml:"rate"`
	Burst        int     `yaml:"burst"`
	LockOSThread bool    `yaml:"lock_os_thread"`
	MetricsAddr  string  `yaml:"metrics_addr"`
	StopTimeout  string  `yaml:"stop_timeout"`
	Logging      Logging `yaml:"logging"`
}

// Default returns the settings used when neither a file nor flags say otherwise.
func Default() Config {
	return Config{
		Workers:     pool.DefaultWorkerCount,
		Iterations:  1,
		Interval:    pool.DefaultInterval.String(),
		StopTimeout: "5s",
		Logging: Logging{
			Level:  "INFO",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()

	// #nosec G304 -- the path comes from the operator's --config flag.
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config file %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the fields that cannot be left to the pool itself.
func (c Config) Validate() error {
	if _, err := c.IntervalDuration(); err != nil {
		return err
	}
	if _, err := c.StopTimeoutDuration(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if !c.Forever && c.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1 unless forever is set, got %d", ErrInvalid, c.Iterations)
	}
	if c.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative, got %v", ErrInvalid, c.Rate)
	}
	if c.Rate > 0 && c.Burst < 1 {
		return fmt.Errorf("%w: burst must be at least 1 when rate is set, got %d", ErrInvalid, c.Burst)
	}
	return nil
}

// IntervalDuration parses Interval.
func (c Config) IntervalDuration() (time.Duration, error) {
	return parseDuration("interval", c.Interval)
}

// StopTimeoutDuration parses StopTimeout. An empty value means wait forever.
func (c Config) StopTimeoutDuration() (time.Duration, error) {
	if c.StopTimeout == "" {
		return 0, nil
	}
	return parseDuration("stop_timeout", c.StopTimeout)
}

// PoolOptions converts the settings into pool options. Call Validate first.
func (c Config) PoolOptions() ([]pool.WorkerPoolOption, error) {
	interval, err := c.IntervalDuration()
	if err != nil {
		return nil, err
	}

	opts := []pool.WorkerPoolOption{
		pool.WithWorkerCount(c.Workers),
		pool.WithInterval(interval),
	}
	if c.Forever {
		opts = append(opts, pool.WithUnbounded())
	} else {
		opts = append(opts, pool.WithIterations(c.Iterations))
	}
	if c.Name != "" {
		opts = append(opts, pool.WithName(c.Name))
	}
	if c.Jitter > 0 {
		opts = append(opts, pool.WithJitter(c.Jitter))
	}
	if c.Rate > 0 {
		opts = append(opts, pool.WithRateLimit(c.Rate, c.Burst))
	}
	if c.LockOSThread {
		opts = append(opts, pool.WithLockOSThread(true))
	}
	return opts, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalid, field, s)
	}
	return d, nil
}
