package rollog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rollConfig(dir string, maxSize, maxAge int64) *Config {
	cfg := DefaultConfig()
	cfg.Directory = dir
	cfg.MaxFileSize = maxSize
	cfg.MaxFileAgeSeconds = maxAge
	cfg.NowRefreshEvery = 1
	return cfg
}

func TestSizeTriggerRoll(t *testing.T) {
	env := newMemEnv()
	l, err := NewAutoRollLogger(env, rollConfig("/db", 100, 0))
	require.NoError(t, err)
	defer l.Close()

	// 40 bytes + newline per line; third write pushes the file past 100
	line := strings.Repeat("x", 40)
	for i := 0; i < 3; i++ {
		l.Infof("%s", line)
	}
	require.Len(t, env.paths(), 1, "no roll before the threshold is crossed")

	// The check runs before the write, so this one lands in a fresh file
	l.Infof("after-roll")

	paths := env.paths()
	require.Len(t, paths, 2)
	sort.Strings(paths)
	assert.Equal(t, "/db/LOG", paths[0])
	assert.True(t, strings.HasPrefix(paths[1], "/db/LOG.old."), "backup name: %s", paths[1])

	assert.Len(t, env.file(paths[1]).snapshot(), 3)
	assert.Equal(t, []string{"after-roll"}, env.file("/db/LOG").snapshot())
}

func TestBackupNamesNeverCollide(t *testing.T) {
	env := newMemEnv()
	// Every write beyond the first triggers a roll; the clock never moves
	l, err := NewAutoRollLogger(env, rollConfig("/db", 1, 0))
	require.NoError(t, err)
	defer l.Close()

	for i := 0; i < 4; i++ {
		l.Infof("line %d", i)
	}

	ts := env.NowMicros() / 1e6
	for i := uint64(0); i < 3; i++ {
		name := oldLogFileName("/db", ts+i)
		assert.NoError(t, env.FileExists(name), "expected backup %s", name)
	}
}

func TestHeaderReplay(t *testing.T) {
	env := newMemEnv()
	l, err := NewAutoRollLogger(env, rollConfig("/db", 60, 0))
	require.NoError(t, err)
	defer l.Close()

	l.LogHeader("header one %d", 1)
	l.LogHeader("header two %d", 2)

	// Force two rolls
	filler := strings.Repeat("y", 80)
	l.Infof("%s", filler)
	l.Infof("%s", filler)
	l.Infof("tail")

	lines := env.file("/db/LOG").snapshot()
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "header one 1", lines[0])
	assert.Equal(t, "header two 2", lines[1])
	assert.Equal(t, "tail", lines[2])

	// Every backup incarnation after the first also starts with the headers
	for _, p := range env.paths() {
		if p == "/db/LOG" || !strings.Contains(p, oldLogInfix) {
			continue
		}
		got := env.file(p).snapshot()
		if got[0] == "header one 1" {
			assert.Equal(t, "header two 2", got[1])
		}
	}
}

func TestHeaderRegisteredAfterRollStillReplays(t *testing.T) {
	env := newMemEnv()
	l, err := NewAutoRollLogger(env, rollConfig("/db", 30, 0))
	require.NoError(t, err)
	defer l.Close()

	l.LogHeader("early")
	l.Infof("%s", strings.Repeat("z", 40))
	l.Infof("force roll")
	l.LogHeader("late")
	l.Infof("%s", strings.Repeat("z", 40))
	l.Infof("force roll again")

	lines := env.file("/db/LOG").snapshot()
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, []string{"early", "late", "force roll again"}, lines[:3])
}

func TestTimeTriggerRoll(t *testing.T) {
	env := newMemEnv()
	l, err := NewAutoRollLogger(env, rollConfig("/db", 0, 10))
	require.NoError(t, err)
	defer l.Close()

	l.Infof("before expiry")
	require.Len(t, env.paths(), 1)

	env.advanceSeconds(10)
	l.Infof("after expiry")

	paths := env.paths()
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"after expiry"}, env.file("/db/LOG").snapshot())
}

func TestClockRefreshAmortized(t *testing.T) {
	env := newMemEnv()
	cfg := rollConfig("/db", 0, 5)
	cfg.NowRefreshEvery = 3
	l, err := NewAutoRollLogger(env, cfg)
	require.NoError(t, err)
	defer l.Close()

	env.advanceSeconds(60)

	// The expiry stays invisible until the counter forces a resample
	l.Infof("one")
	l.Infof("two")
	l.Infof("three")
	require.Len(t, env.paths(), 1, "stale sample must not trigger a roll")

	l.Infof("four")
	require.Len(t, env.paths(), 2)
	assert.Equal(t, []string{"four"}, env.file("/db/LOG").snapshot())
}

func TestFailedResetDropsLineThenRecovers(t *testing.T) {
	env := newMemEnv()
	l, err := NewAutoRollLogger(env, rollConfig("/db", 1, 0))
	require.NoError(t, err)
	defer l.Close()

	l.Infof("first")

	env.failNewWriter = true
	l.Infof("dropped") // roll fires, recreation fails, line is lost
	assert.Error(t, l.Err())

	var found bool
	for _, p := range env.paths() {
		if strings.Contains(p, oldLogInfix) {
			found = true
			assert.Equal(t, []string{"first"}, env.file(p).snapshot())
		}
	}
	assert.True(t, found, "live file should have been renamed aside")

	env.failNewWriter = false
	l.Infof("recovered")
	assert.NoError(t, l.Err())
	assert.Equal(t, []string{"recovered"}, env.file("/db/LOG").snapshot())
}

func TestConstructionFailures(t *testing.T) {
	t.Run("writer without size reporting", func(t *testing.T) {
		env := newMemEnv()
		env.sizeUnsupported = true
		_, err := NewAutoRollLogger(env, rollConfig("/db", 100, 0))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSizeNotSupported)
	})

	t.Run("directory creation failure", func(t *testing.T) {
		env := newMemEnv()
		env.failCreateDir = true
		_, err := NewAutoRollLogger(env, rollConfig("/db", 100, 0))
		assert.Error(t, err)
	})

	t.Run("writer open failure", func(t *testing.T) {
		env := newMemEnv()
		env.failNewWriter = true
		_, err := NewAutoRollLogger(env, rollConfig("/db", 100, 0))
		assert.Error(t, err)
	})
}

func TestSetLevelSurvivesRoll(t *testing.T) {
	env := newMemEnv()
	l, err := NewAutoRollLogger(env, rollConfig("/db", 30, 0))
	require.NoError(t, err)
	defer l.Close()

	l.SetLevel(LevelWarn)
	l.Infof("filtered out")
	l.Warnf("%s", strings.Repeat("w", 40))
	l.Warnf("post-roll warn")
	l.Debugf("still filtered")

	assert.Equal(t, []string{"post-roll warn"}, env.file("/db/LOG").snapshot())
	assert.Equal(t, LevelWarn, l.Level())
}

func TestCloseDropsSubsequentWrites(t *testing.T) {
	env := newMemEnv()
	l, err := NewAutoRollLogger(env, rollConfig("/db", 100, 0))
	require.NoError(t, err)

	l.Infof("kept")
	require.NoError(t, l.Close())
	l.Infof("ignored")
	l.LogHeader("ignored header")

	assert.Equal(t, []string{"kept"}, env.file("/db/LOG").snapshot())
}

// readAllLogLines gathers every line from LOG and LOG.old.* in dir.
func readAllLogLines(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var lines []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), liveLogName) {
			continue
		}
		f, err := os.Open(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		require.NoError(t, scanner.Err())
		f.Close()
	}
	return lines
}

func TestConcurrentWritesAcrossRolls(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewBuilder().
		Directory(tmpDir).
		MaxFileSize(2000).
		ShowTimestamp(false).
		ShowLevel(false).
		Build()
	require.NoError(t, err)

	const goroutines = 8
	const perGoroutine = 250

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				logger.Logv(LevelInfo, "g=%d seq=%d", g, i)
			}
		}(g)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	lines := readAllLogLines(t, tmpDir)
	require.Len(t, lines, goroutines*perGoroutine, "every line lands in exactly one incarnation")

	seen := make(map[string]int, len(lines))
	for _, line := range lines {
		seen[line]++
	}
	for g := 0; g < goroutines; g++ {
		for i := 0; i < perGoroutine; i++ {
			key := fmt.Sprintf("g=%d seq=%d", g, i)
			assert.Equal(t, 1, seen[key], "line %s", key)
		}
	}

	// More than one incarnation must exist with a 2KB cap and 2000 lines
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Greater(t, len(entries), 1)
}

func TestPerGoroutineOrderPreserved(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewBuilder().
		Directory(tmpDir).
		MaxFileSize(500).
		ShowTimestamp(false).
		ShowLevel(false).
		Build()
	require.NoError(t, err)

	const writes = 200
	for i := 0; i < writes; i++ {
		logger.Logv(LevelInfo, "seq=%d", i)
	}
	require.NoError(t, logger.Close())

	// Single-writer issue order survives rotation: sort incarnations
	// oldest-first and the sequence must be contiguous
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		// LOG sorts after every LOG.old.<ts> name
		if names[i] == liveLogName {
			return false
		}
		if names[j] == liveLogName {
			return true
		}
		return names[i] < names[j]
	})

	next := 0
	for _, name := range names {
		f, err := os.Open(filepath.Join(tmpDir, name))
		require.NoError(t, err)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			assert.Equal(t, fmt.Sprintf("seq=%d", next), scanner.Text())
			next++
		}
		f.Close()
	}
	assert.Equal(t, writes, next)
}
