package compat

import (
	"fmt"
	"os"

	"github.com/lixenwraith/rollog"
)

// GnetAdapter wraps a rollog.Writer to implement gnet's logging.Logger interface
type GnetAdapter struct {
	writer       rollog.Writer
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(writer rollog.Writer, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		writer: writer,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.writer.Logv(rollog.LevelDebug, "%s source=gnet", fmt.Sprintf(format, args...))
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.writer.Logv(rollog.LevelInfo, "%s source=gnet", fmt.Sprintf(format, args...))
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.writer.Logv(rollog.LevelWarn, "%s source=gnet", fmt.Sprintf(format, args...))
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.writer.Logv(rollog.LevelError, "%s source=gnet", fmt.Sprintf(format, args...))
}

// Fatalf logs at error level and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.writer.Logv(rollog.LevelError, "%s source=gnet fatal=true", msg)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
