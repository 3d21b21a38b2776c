package rollog

// Log level constants
const (
	LevelDebug int64 = -4
	LevelInfo  int64 = 0
	LevelWarn  int64 = 4
	LevelError int64 = 8
	// LevelHeader marks retained banner lines, it is above every
	// filterable level so headers land in every incarnation
	LevelHeader int64 = 12
)

// SizeNotSupported is returned by Writer.Size when the underlying
// writer cannot report its current file size
const SizeNotSupported int64 = -1

// File naming
const (
	liveLogName = "LOG"
	oldLogInfix = ".old."
)

// File system modes
const (
	logFileMode = 0644
	logDirMode  = 0755
)
