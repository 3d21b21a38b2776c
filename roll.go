package rollog

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrSizeNotSupported is returned when size-based rotation is requested
// but the underlying writer cannot report its own file size.
var ErrSizeNotSupported = fmtErrorf("the underlying writer does not support Size()")

// sharedWriter is a reference-counted handle to the active writer.
// The controller holds one reference; every in-flight write holds one
// more for the duration of the write. The last release closes the
// underlying file, so a roll never invalidates a write in progress.
type sharedWriter struct {
	Writer
	refs atomic.Int32
}

func newSharedWriter(w Writer) *sharedWriter {
	s := &sharedWriter{Writer: w}
	s.refs.Store(1)
	return s
}

func (s *sharedWriter) acquire() {
	s.refs.Add(1)
}

func (s *sharedWriter) release() {
	if s.refs.Add(-1) == 0 {
		_ = s.Close()
	}
}

// AutoRollLogger gates every write through a rotation check, renames the
// live file aside when it grows past MaxFileSize or older than
// MaxFileAgeSeconds, and replays retained header lines into each new
// incarnation. The rotation decision runs under a mutex; the line I/O
// itself runs outside it against a pinned writer reference.
type AutoRollLogger struct {
	env     Env
	dir     string
	logPath string

	maxFileSize     int64
	maxFileAge      int64 // seconds, 0 disables the age trigger
	nowRefreshEvery int64

	mu      sync.Mutex
	writer  *sharedWriter
	headers []string
	level   int64
	err     error

	// Cached clock sample, refreshed every nowRefreshEvery accesses to
	// amortize the time syscall across the hot path. cachedNow and ctime
	// are unix seconds.
	cachedNow      uint64
	ctime          uint64
	nowAccessCount int64
}

// NewAutoRollLogger constructs a rotation controller writing to
// <cfg.Directory>/LOG. The returned error is fatal, a controller that
// failed construction must not be used.
func NewAutoRollLogger(env Env, cfg *Config) (*AutoRollLogger, error) {
	l := &AutoRollLogger{
		env:             env,
		dir:             cfg.Directory,
		logPath:         InfoLogFileName(cfg.Directory),
		maxFileSize:     cfg.MaxFileSize,
		maxFileAge:      cfg.MaxFileAgeSeconds,
		nowRefreshEvery: cfg.NowRefreshEvery,
		level:           cfg.Level,
	}

	if err := env.CreateDirIfMissing(cfg.Directory); err != nil {
		return nil, err
	}
	if err := l.resetWriter(); err != nil {
		return nil, err
	}
	return l, nil
}

// resetWriter opens a fresh writer at the live path and swaps it in as
// the active one. Callers must hold l.mu (construction runs unlocked,
// the controller is not visible to anyone else yet).
func (l *AutoRollLogger) resetWriter() error {
	w, err := l.env.NewWriter(l.logPath)
	if err != nil {
		l.err = err
		return err
	}
	if w.Size() == SizeNotSupported {
		_ = w.Close()
		l.err = ErrSizeNotSupported
		return l.err
	}
	w.SetLevel(l.level)

	old := l.writer
	l.writer = newSharedWriter(w)
	if old != nil {
		old.release()
	}

	l.cachedNow = l.env.NowMicros() / 1e6
	l.ctime = l.cachedNow
	l.nowAccessCount = 0
	l.err = nil
	return nil
}

// rollLogFile renames the live file to LOG.old.<unixSeconds>. Two rolls
// can land within the same second; the timestamp is bumped until a free
// name is found so no backup is ever overwritten.
func (l *AutoRollLogger) rollLogFile() {
	now := l.env.NowMicros() / 1e6
	var oldName string
	for {
		oldName = oldLogFileName(l.dir, now)
		if l.env.FileExists(oldName) != nil {
			break
		}
		now++
	}
	_ = l.env.RenameFile(l.logPath, oldName)
}

// logExpired reports whether the active file has outlived maxFileAge,
// using the counter-amortized clock sample. The sample can be up to
// nowRefreshEvery calls stale; set NowRefreshEvery to 1 to sample the
// clock on every check.
func (l *AutoRollLogger) logExpired() bool {
	if l.nowAccessCount >= l.nowRefreshEvery {
		l.cachedNow = l.env.NowMicros() / 1e6
		l.nowAccessCount = 0
	}
	l.nowAccessCount++
	return l.cachedNow >= l.ctime+uint64(l.maxFileAge)
}

// writeHeadersLocked replays retained headers, in insertion order, into
// the just-created incarnation. Callers must hold l.mu.
func (l *AutoRollLogger) writeHeadersLocked() {
	for _, h := range l.headers {
		l.writer.Logv(LevelHeader, "%s", h)
	}
}

// Logv is the hot path: evaluate the rotation triggers under the lock,
// roll if one fired, then write the line outside the lock against a
// pinned reference to the active writer.
func (l *AutoRollLogger) Logv(level int64, format string, args ...any) {
	l.mu.Lock()
	if l.writer == nil {
		l.mu.Unlock()
		return
	}

	if (l.maxFileAge > 0 && l.logExpired()) ||
		(l.maxFileSize > 0 && l.writer.Size() >= l.maxFileSize) {
		l.rollLogFile()
		if err := l.resetWriter(); err != nil {
			// Creating a new LOG file failed; there is no writer that can
			// safely take the line and reporting through the logger itself
			// would recurse. The line is dropped.
			l.mu.Unlock()
			return
		}
		l.writeHeadersLocked()
	}

	// Pin the current writer instance before releasing the mutex.
	w := l.writer
	w.acquire()
	l.mu.Unlock()

	// Another goroutine may swap in a new writer by now, but the acquired
	// reference keeps this incarnation open until the write finishes.
	// The write itself is not mutex protected to allow maximum
	// concurrency, thread safety is handled by the underlying writer.
	w.Logv(level, format, args...)
	w.release()
}

// LogHeader writes a banner line and retains it for replay at the top of
// every future incarnation. Header args are captured as a formatted
// string, no assumptions are made about their lifetime.
func (l *AutoRollLogger) LogHeader(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	if l.writer == nil {
		l.mu.Unlock()
		return
	}
	l.headers = append(l.headers, msg)
	w := l.writer
	w.acquire()
	l.mu.Unlock()

	w.Logv(LevelHeader, "%s", msg)
	w.release()
}

// Debugf logs a formatted message at debug level.
func (l *AutoRollLogger) Debugf(format string, args ...any) {
	l.Logv(LevelDebug, format, args...)
}

// Infof logs a formatted message at info level.
func (l *AutoRollLogger) Infof(format string, args ...any) {
	l.Logv(LevelInfo, format, args...)
}

// Warnf logs a formatted message at warning level.
func (l *AutoRollLogger) Warnf(format string, args ...any) {
	l.Logv(LevelWarn, format, args...)
}

// Errorf logs a formatted message at error level.
func (l *AutoRollLogger) Errorf(format string, args ...any) {
	l.Logv(LevelError, format, args...)
}

// Size returns the byte count of the current incarnation.
func (l *AutoRollLogger) Size() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer == nil {
		return SizeNotSupported
	}
	return l.writer.Size()
}

// SetLevel sets the minimum level on the active writer and on every
// writer created by future rolls.
func (l *AutoRollLogger) SetLevel(level int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	if l.writer != nil {
		l.writer.SetLevel(level)
	}
}

// Level returns the configured minimum level.
func (l *AutoRollLogger) Level() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Err returns the status of the last writer reset, nil when healthy.
func (l *AutoRollLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close releases the controller's reference to the active writer.
// In-flight writes finish against the incarnation they pinned; new
// writes are dropped.
func (l *AutoRollLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer != nil {
		l.writer.release()
		l.writer = nil
	}
	return nil
}
