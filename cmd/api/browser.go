package main

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	"github.com/Lutefd/currency-converter/internal/logger"
)

const browserDelay = 1500 * time.Millisecond

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// openBrowserAfter gives the listener time to come up before opening url.
func openBrowserAfter(ctx context.Context, url string, delay time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	name, args := browserCommand(runtime.GOOS, url)
	if err := exec.CommandContext(ctx, name, args...).Start(); err != nil {
		logger.Errorf("failed to open browser at %s: %v", url, err)
		return
	}
	logger.Infof("opened browser at %s", url)
}
