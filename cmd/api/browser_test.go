package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos         string
		expectedName string
		expectedArgs []string
	}{
		{goos: "darwin", expectedName: "open", expectedArgs: []string{"http://localhost:8000/"}},
		{goos: "windows", expectedName: "rundll32", expectedArgs: []string{"url.dll,FileProtocolHandler", "http://localhost:8000/"}},
		{goos: "linux", expectedName: "xdg-open", expectedArgs: []string{"http://localhost:8000/"}},
		{goos: "freebsd", expectedName: "xdg-open", expectedArgs: []string{"http://localhost:8000/"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := browserCommand(tt.goos, "http://localhost:8000/")
			assert.Equal(t, tt.expectedName, name)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestOpenBrowserAfterCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		openBrowserAfter(ctx, "http://localhost:8000/", time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("openBrowserAfter ignored canceled context")
	}
}
