package rollog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	env Env
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates the configured logger. With a rotation threshold set the
// result is an *AutoRollLogger, otherwise a plain file writer.
func (b *Builder) Build() (Writer, error) {
	if b.err != nil {
		return nil, b.err
	}
	return CreateLogger(b.cfg, b.env)
}

// Level sets the log level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	levelVal, err := Level(level)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = levelVal
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// MaxFileSize sets the size threshold in bytes, 0 disables the size trigger.
func (b *Builder) MaxFileSize(bytes int64) *Builder {
	b.cfg.MaxFileSize = bytes
	return b
}

// MaxFileAge sets the age threshold in seconds, 0 disables the age trigger.
func (b *Builder) MaxFileAge(seconds int64) *Builder {
	b.cfg.MaxFileAgeSeconds = seconds
	return b
}

// NowRefreshEvery sets how many age checks share one clock sample.
func (b *Builder) NowRefreshEvery(n int64) *Builder {
	b.cfg.NowRefreshEvery = n
	return b
}

// ShowTimestamp toggles the per-line timestamp prefix.
func (b *Builder) ShowTimestamp(show bool) *Builder {
	b.cfg.ShowTimestamp = show
	return b
}

// ShowLevel toggles the per-line level tag.
func (b *Builder) ShowLevel(show bool) *Builder {
	b.cfg.ShowLevel = show
	return b
}

// TimestampFormat sets the time layout used for line timestamps.
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// MaxLineBytes sets the truncation cap for a single serialized line.
func (b *Builder) MaxLineBytes(n int64) *Builder {
	b.cfg.MaxLineBytes = n
	return b
}

// WithEnv injects a custom environment, nil selects the local file system.
func (b *Builder) WithEnv(env Env) *Builder {
	b.env = env
	return b
}

// Example usage:
// logger, err := rollog.NewBuilder().
//
//	Directory("/var/log/app").
//	MaxFileSize(10 * 1024 * 1024).
//	MaxFileAge(3600).
//	LevelString("debug").
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 logger.Logv(rollog.LevelInfo, "logger initialized")
//
// }
