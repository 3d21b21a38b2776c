package rollog

import (
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Writer is the minimal per-file logging primitive the rotation
// controller wraps. Implementations must be safe for concurrent use.
type Writer interface {
	// Logv writes one log line. A non-empty format is expanded
	// printf-style over args; an empty format renders args
	// space-separated. Lines below the configured level are dropped.
	Logv(level int64, format string, args ...any)

	// Size returns the number of bytes written to the current file,
	// or SizeNotSupported if the writer cannot report it.
	Size() int64

	// SetLevel sets the minimum level a line must have to be written.
	SetLevel(level int64)

	// Level returns the current minimum level.
	Level() int64

	// Close releases the underlying file resource.
	Close() error
}

// LineOptions controls how a file writer renders each line.
type LineOptions struct {
	ShowTimestamp   bool
	ShowLevel       bool
	TimestampFormat string
	MaxLineBytes    int64
}

// DefaultLineOptions returns the line rendering defaults.
func DefaultLineOptions() LineOptions {
	return LineOptions{
		ShowTimestamp:   true,
		ShowLevel:       true,
		TimestampFormat: time.RFC3339Nano,
		MaxLineBytes:    1024,
	}
}

// fileWriter appends serialized lines to a single open file and tracks
// the byte count itself, so Size never needs a stat call.
type fileWriter struct {
	mu    sync.Mutex
	file  *os.File
	ser   *serializer
	opts  LineOptions
	size  atomic.Int64
	level atomic.Int64
}

// newFileWriter opens (or creates) the file at path for appending.
// An existing file keeps accumulating, its current size seeds the counter.
func newFileWriter(path string, opts LineOptions) (*fileWriter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return nil, fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}

	w := &fileWriter{
		file: file,
		ser:  newSerializer(opts.TimestampFormat, opts.MaxLineBytes),
		opts: opts,
	}
	w.level.Store(LevelInfo)
	if fi, errStat := file.Stat(); errStat == nil {
		w.size.Store(fi.Size())
	}
	return w, nil
}

func (w *fileWriter) Logv(level int64, format string, args ...any) {
	if level < w.level.Load() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return
	}
	line := w.ser.serialize(w.opts.ShowTimestamp, w.opts.ShowLevel, time.Now(), level, format, args)
	n, err := w.file.Write(line)
	if err == nil {
		w.size.Add(int64(n))
	}
}

func (w *fileWriter) Size() int64 {
	return w.size.Load()
}

func (w *fileWriter) SetLevel(level int64) {
	w.level.Store(level)
}

func (w *fileWriter) Level() int64 {
	return w.level.Load()
}

func (w *fileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	file := w.file
	w.file = nil
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmtErrorf("failed to sync log file '%s': %w", file.Name(), err)
	}
	if err := file.Close(); err != nil {
		return fmtErrorf("failed to close log file '%s': %w", file.Name(), err)
	}
	return nil
}
