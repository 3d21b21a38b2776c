package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/rollog"
)

const (
	numWorkers   = 50
	logsPerBurst = 500
	totalBursts  = 100
	maxMsgSize   = 512
)

const configFile = "stress_config.toml"

// Example TOML content for the stress run
var tomlContent = `
# Example stress_config.toml
[rollog]
  level = -4 # Debug
  directory = "./logs"
  max_file_size = 1000000 # Force frequent rotation (~1MB)
  max_file_age_seconds = 5
  now_refresh_every = 100
  show_timestamp = true
  show_level = true
  max_line_bytes = 1024
`

var levels = []int64{
	rollog.LevelDebug,
	rollog.LevelInfo,
	rollog.LevelWarn,
	rollog.LevelError,
}

func randomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

func main() {
	fmt.Println("--- rollog stress test ---")

	if err := os.WriteFile(configFile, []byte(tomlContent), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write config: %v\n", err)
		os.Exit(1)
	}
	_ = os.RemoveAll("./logs") // Clean previous run's files before starting

	cfg, err := rollog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := rollog.CreateLogger(cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if arl, ok := logger.(*rollog.AutoRollLogger); ok {
		arl.LogHeader("stress run started workers=%d bursts=%d", numWorkers, totalBursts)
	}

	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	var completed atomic.Int64

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for burstID := range burstChan {
				for seq := 0; seq < logsPerBurst; seq++ {
					level := levels[rand.Intn(len(levels))]
					logger.Logv(level, "bst=%d seq=%d %s", burstID, seq, randomMessage(rand.Intn(maxMsgSize)+10))
				}
				completed.Add(1)
			}
		}()
	}

	start := time.Now()
	for i := 1; i <= totalBursts; i++ {
		burstChan <- i
	}
	close(burstChan)
	wg.Wait()
	duration := time.Since(start)

	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "logger close error: %v\n", err)
	}

	total := completed.Load() * logsPerBurst
	fmt.Printf("wrote %d lines in %v (%.0f lines/sec)\n",
		total, duration.Round(time.Millisecond), float64(total)/duration.Seconds())
	fmt.Println("check ./logs for LOG and LOG.old.* rotation output")
}
