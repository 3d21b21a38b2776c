package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/rollog"
)

func main() {
	logger, err := rollog.NewAutoRollLogger(
		rollog.NewOSEnv(rollog.DefaultLineOptions()),
		&rollog.Config{
			Level:           rollog.LevelDebug,
			Directory:       "./logs",
			MaxFileSize:     4096, // Tiny cap to demonstrate rolling
			NowRefreshEvery: 1000,
			ShowTimestamp:   true,
			ShowLevel:       true,
			TimestampFormat: "2006-01-02T15:04:05.000",
			MaxLineBytes:    1024,
		})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	// Headers reappear at the top of every rotated file
	logger.LogHeader("build=%s pid=%d", "v1.2.3", os.Getpid())

	for i := 0; i < 200; i++ {
		logger.Infof("message %d", i)
	}
	logger.Warnf("done, check ./logs for LOG and LOG.old.* files")
}
