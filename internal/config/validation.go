// internal/config/validation.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks the full configuration for consistency.
func (c *Config) Validate() error {
	if err := c.Parser.validate(); err != nil {
		return fmt.Errorf("parser: %w", err)
	}
	if err := c.Output.validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	return nil
}

func (p ParserConfig) validate() error {
	if p.MinimumConfidence < 0 || p.MinimumConfidence > 100 {
		return fmt.Errorf("minimum_confidence %d out of range [0,100]", p.MinimumConfidence)
	}
	if p.ChunkSizeBytes < 64*1024 {
		return fmt.Errorf("chunk_size_bytes %d below 64KiB floor", p.ChunkSizeBytes)
	}
	if p.Plausibility.FutureSlackDays < 0 {
		return fmt.Errorf("future_slack_days cannot be negative")
	}
	if _, err := p.Plausibility.EarliestTime(); err != nil {
		return fmt.Errorf("plausibility earliest %q: %w", p.Plausibility.Earliest, err)
	}
	return nil
}

func (o OutputConfig) validate() error {
	switch o.Format {
	case "json", "ndjson":
	default:
		return fmt.Errorf("unsupported format %q (expected json or ndjson)", o.Format)
	}
	if o.File == "" {
		return fmt.Errorf("file cannot be empty")
	}
	return nil
}

func (s ServerConfig) validate() error {
	if s.ListenAddress == "" {
		return fmt.Errorf("listen_address cannot be empty")
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if !strings.HasPrefix(s.MetricsPath, "/") {
		return fmt.Errorf("metrics_path must start with /")
	}
	return nil
}
