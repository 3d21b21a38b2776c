package rollog

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// serializer manages the buffered assembly of log lines.
// It is not safe for concurrent use, callers must serialize access.
type serializer struct {
	buf             []byte
	timestampFormat string
	maxLineBytes    int
}

// newSerializer creates a serializer instance.
func newSerializer(timestampFormat string, maxLineBytes int64) *serializer {
	return &serializer{
		buf:             make([]byte, 0, 1024),
		timestampFormat: timestampFormat,
		maxLineBytes:    int(maxLineBytes),
	}
}

// reset clears the serializer buffer for reuse.
func (s *serializer) reset() {
	s.buf = s.buf[:0]
}

// serialize assembles one log line. A non-empty format is expanded
// printf-style; an empty format renders args space-separated with typed
// fast paths. Lines longer than the configured cap are truncated, the
// caller is responsible for chopping longer messages into multiple lines.
func (s *serializer) serialize(showTimestamp, showLevel bool, now time.Time, level int64, format string, args []any) []byte {
	s.reset()

	if showTimestamp {
		s.buf = now.AppendFormat(s.buf, s.timestampFormat)
		s.buf = append(s.buf, ' ')
	}
	if showLevel {
		s.buf = append(s.buf, '[')
		s.buf = append(s.buf, LevelName(level)...)
		s.buf = append(s.buf, ']', ' ')
	}

	if format != "" {
		s.buf = fmt.Appendf(s.buf, format, args...)
	} else {
		needsSpace := false
		for _, arg := range args {
			if needsSpace {
				s.buf = append(s.buf, ' ')
			}
			s.writeValue(arg)
			needsSpace = true
		}
	}

	if s.maxLineBytes > 0 && len(s.buf) > s.maxLineBytes {
		s.buf = s.buf[:s.maxLineBytes]
	}
	s.buf = append(s.buf, '\n')
	return s.buf
}

// writeValue converts any value to its string representation,
// fallback to go-spew/spew for types that are not explicitly supported.
func (s *serializer) writeValue(v any) {
	switch val := v.(type) {
	case string:
		s.buf = append(s.buf, val...)
	case int:
		s.buf = strconv.AppendInt(s.buf, int64(val), 10)
	case int64:
		s.buf = strconv.AppendInt(s.buf, val, 10)
	case uint:
		s.buf = strconv.AppendUint(s.buf, uint64(val), 10)
	case uint64:
		s.buf = strconv.AppendUint(s.buf, val, 10)
	case float32:
		s.buf = strconv.AppendFloat(s.buf, float64(val), 'f', -1, 32)
	case float64:
		s.buf = strconv.AppendFloat(s.buf, val, 'f', -1, 64)
	case bool:
		s.buf = strconv.AppendBool(s.buf, val)
	case nil:
		s.buf = append(s.buf, "nil"...)
	case time.Time:
		s.buf = val.AppendFormat(s.buf, s.timestampFormat)
	case error:
		s.buf = append(s.buf, val.Error()...)
	case fmt.Stringer:
		s.buf = append(s.buf, val.String()...)
	case []byte:
		s.buf = hex.AppendEncode(s.buf, val) // prevent special character corruption
	default:
		// For all other types (structs, maps, pointers, arrays, etc.), delegate to spew.
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true, // Cleaner for logs
			DisableCapacities:       true, // Less noise
			SortKeys:                true, // Consistent map output
		}
		dumper.Fdump(&b, val)

		// Trim trailing new line added by spew
		s.buf = append(s.buf, bytes.TrimSpace(b.Bytes())...)
	}
}
