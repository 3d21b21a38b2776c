package rollog

import (
	"fmt"
	"strings"
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, "rollog: ") {
		format = "rollog: " + format
	}
	return fmt.Errorf(format, args...)
}

// Level converts level string to numeric constant.
func Level(levelStr string) (int64, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "header":
		return LevelHeader, nil
	default:
		return 0, fmtErrorf("invalid level string: '%s' (use debug, info, warn, error, header)", levelStr)
	}
}

// LevelName converts a numeric level to its display tag.
func LevelName(level int64) string {
	switch {
	case level >= LevelHeader:
		return "HEADER"
	case level >= LevelError:
		return "ERROR"
	case level >= LevelWarn:
		return "WARN"
	case level >= LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
