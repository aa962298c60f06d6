// pkg/api/api.go
package api

import (
	"context"

	"github.com/chronoview/watchparser/internal/config"
	"github.com/chronoview/watchparser/internal/parser"
	"github.com/chronoview/watchparser/internal/utils"
	"github.com/chronoview/watchparser/pkg/types"
)

// Re-export types from internal packages for public API
type Config = config.Config
type ParserConfig = config.ParserConfig
type OutputConfig = config.OutputConfig
type PlausibilityConfig = config.PlausibilityConfig

// LoadConfig loads a YAML configuration file.
var LoadConfig = config.LoadFromFile

// DefaultConfig returns production defaults.
var DefaultConfig = config.Default

// Client provides a high-level interface for parsing watch-history
// exports.
type Client struct {
	cfg    *Config
	engine *parser.Engine
}

// ClientOption customizes the client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	logger   utils.Logger
	progress func(types.ProgressEvent)
}

// WithLogger sets the client logger.
func WithLogger(log utils.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = log }
}

// WithProgress registers a throttled progress callback.
func WithProgress(fn func(types.ProgressEvent)) ClientOption {
	return func(o *clientOptions) { o.progress = fn }
}

// NewClient creates a parsing client from configuration.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	engineOpts := []parser.Option{}
	if o.logger != nil {
		engineOpts = append(engineOpts, parser.WithLogger(o.logger))
	}
	if o.progress != nil {
		engineOpts = append(engineOpts, parser.WithProgress(o.progress))
	}

	engine, err := parser.NewEngine(cfg, engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Client{cfg: cfg, engine: engine}, nil
}

// Parse runs the full document through the parsing pipeline.
func (c *Client) Parse(ctx context.Context, document string) (*types.ParseResult, error) {
	return c.engine.Parse(ctx, document)
}

// State returns the current run state of the underlying engine.
func (c *Client) State() types.RunState {
	return c.engine.State()
}
