package rollog

import (
	"path/filepath"
	"strconv"
)

// InfoLogFileName returns the path of the live log file inside dir.
func InfoLogFileName(dir string) string {
	return filepath.Join(dir, liveLogName)
}

// oldLogFileName returns the backup path for a roll stamped with the
// given unix-seconds timestamp.
func oldLogFileName(dir string, unixSeconds uint64) string {
	return filepath.Join(dir, liveLogName+oldLogInfix+strconv.FormatUint(unixSeconds, 10))
}

// CreateLogger builds the configured logger for a directory. With a size
// or age threshold set it returns an AutoRollLogger; with both zero it
// returns a plain file writer with no rotation lock on the write path,
// after renaming any previous run's live file aside once.
//
// A nil env selects the local file system.
func CreateLogger(cfg *Config, env Env) (Writer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if env == nil {
		env = NewOSEnv(cfg.lineOptions())
	}

	if cfg.MaxFileSize > 0 || cfg.MaxFileAgeSeconds > 0 {
		l, err := NewAutoRollLogger(env, cfg)
		if err != nil {
			return nil, err
		}
		return l, nil
	}

	if err := env.CreateDirIfMissing(cfg.Directory); err != nil {
		return nil, err
	}

	// No rotation: keep the previous run's file from being appended to
	// by moving it aside under a timestamped name.
	fname := InfoLogFileName(cfg.Directory)
	if env.FileExists(fname) == nil {
		now := env.NowMicros() / 1e6
		var oldName string
		for {
			oldName = oldLogFileName(cfg.Directory, now)
			if env.FileExists(oldName) != nil {
				break
			}
			now++
		}
		_ = env.RenameFile(fname, oldName)
	}

	w, err := env.NewWriter(fname)
	if err != nil {
		return nil, err
	}
	w.SetLevel(cfg.Level)
	return w, nil
}
