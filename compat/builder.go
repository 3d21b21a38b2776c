package compat

import (
	"fmt"

	"github.com/lixenwraith/rollog"
)

// Builder provides a flexible way to create configured logger adapters for gnet and fasthttp
// It can use an existing rollog.Writer instance or create a new one from a *rollog.Config
type Builder struct {
	writer rollog.Writer
	logCfg *rollog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithWriter specifies an existing logger to use for the adapters
// Recommended for applications that already have a central logger instance
// If this is set WithConfig is ignored
func (b *Builder) WithWriter(w rollog.Writer) *Builder {
	if w == nil {
		b.err = fmt.Errorf("rollog/compat: provided writer cannot be nil")
		return b
	}
	b.writer = w
	return b
}

// WithConfig provides a configuration for a new logger instance
// This is used only if an existing writer is NOT provided via WithWriter
func (b *Builder) WithConfig(cfg *rollog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// GetWriter resolves the writer to be used, creating one if necessary
func (b *Builder) GetWriter() (rollog.Writer, error) {
	if b.err != nil {
		return nil, b.err
	}

	// An existing writer was provided, so we use it
	if b.writer != nil {
		return b.writer, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = rollog.DefaultConfig()
	}

	w, err := rollog.CreateLogger(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("rollog/compat: failed to create logger: %w", err)
	}
	b.writer = w
	return w, nil
}

// BuildGnet creates a gnet-compatible adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	w, err := b.GetWriter()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(w, opts...), nil
}

// BuildFastHTTP creates a fasthttp-compatible adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	w, err := b.GetWriter()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(w, opts...), nil
}
