// internal/config/types.go
package config

import (
	"time"
)

// Config is the root configuration for the watch history parser.
type Config struct {
	Parser  ParserConfig  `yaml:"parser" json:"parser"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// ParserConfig controls the extraction core.
type ParserConfig struct {
	MinimumConfidence int                `yaml:"minimum_confidence" json:"minimum_confidence"`
	ChunkSizeBytes    int                `yaml:"chunk_size_bytes" json:"chunk_size_bytes"`
	DebugTrace        bool               `yaml:"debug_trace" json:"debug_trace"`
	Plausibility      PlausibilityConfig `yaml:"plausibility" json:"plausibility"`
}

// PlausibilityConfig bounds the acceptable calendar range for extracted
// dates. Earliest uses the 2006-01-02 layout.
type PlausibilityConfig struct {
	Earliest        string `yaml:"earliest" json:"earliest"`
	FutureSlackDays int    `yaml:"future_slack_days" json:"future_slack_days"`
}

// OutputConfig selects how parsed records are written.
type OutputConfig struct {
	Format            string `yaml:"format" json:"format"` // json | ndjson
	File              string `yaml:"file" json:"file"`
	IncludeStatistics bool   `yaml:"include_statistics" json:"include_statistics"`
}

// ServerConfig configures the parse-as-a-service HTTP endpoint.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address" json:"listen_address"`
	MaxBodyBytes  int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
	MetricsPath   string `yaml:"metrics_path" json:"metrics_path"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

// EarliestTime parses the configured earliest plausible date.
func (p PlausibilityConfig) EarliestTime() (time.Time, error) {
	return time.Parse("2006-01-02", p.Earliest)
}

// applyDefaults fills unset fields with production defaults.
func applyDefaults(cfg *Config) {
	if cfg.Parser.MinimumConfidence == 0 {
		cfg.Parser.MinimumConfidence = 70
	}
	if cfg.Parser.ChunkSizeBytes == 0 {
		cfg.Parser.ChunkSizeBytes = 1 << 20
	}
	if cfg.Parser.Plausibility.Earliest == "" {
		cfg.Parser.Plausibility.Earliest = "2005-02-14"
	}
	if cfg.Parser.Plausibility.FutureSlackDays == 0 {
		cfg.Parser.Plausibility.FutureSlackDays = 2
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "json"
	}
	if cfg.Output.File == "" {
		cfg.Output.File = "records.json"
	}
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8089"
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 256 << 20
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "watchparser"
	}
}

// GenerateTemplate returns a starter configuration for the given profile.
func GenerateTemplate(templateType string) *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Output.IncludeStatistics = true

	switch templateType {
	case "strict":
		cfg.Parser.MinimumConfidence = 85
	case "permissive":
		cfg.Parser.MinimumConfidence = 60
		cfg.Parser.DebugTrace = true
	}
	return cfg
}
