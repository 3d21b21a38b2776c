package rollog

import (
	"os"
	"time"
)

// Env abstracts the file system and clock primitives the logger depends on.
// Injecting it keeps the rotation logic testable with a controllable clock
// and lets embedders route file operations through their own storage layer.
type Env interface {
	// CreateDirIfMissing ensures the directory exists.
	CreateDirIfMissing(path string) error

	// FileExists returns nil if a file exists at path.
	FileExists(path string) error

	// RenameFile moves oldPath to newPath.
	RenameFile(oldPath, newPath string) error

	// NowMicros returns the current time in microseconds since the Unix epoch.
	NowMicros() uint64

	// NewWriter opens (or creates) a log file at path for appending.
	NewWriter(path string) (Writer, error)
}

// OSEnv is the production Env backed by the os package.
// Writers it creates serialize lines with the configured LineOptions.
type OSEnv struct {
	Line LineOptions
}

// NewOSEnv returns an Env over the local file system.
func NewOSEnv(opts LineOptions) *OSEnv {
	return &OSEnv{Line: opts}
}

func (e *OSEnv) CreateDirIfMissing(path string) error {
	if err := os.MkdirAll(path, logDirMode); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", path, err)
	}
	return nil
}

func (e *OSEnv) FileExists(path string) error {
	_, err := os.Stat(path)
	return err
}

func (e *OSEnv) RenameFile(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmtErrorf("failed to rename log file from '%s' to '%s': %w", oldPath, newPath, err)
	}
	return nil
}

func (e *OSEnv) NowMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}

func (e *OSEnv) NewWriter(path string) (Writer, error) {
	return newFileWriter(path, e.Line)
}
