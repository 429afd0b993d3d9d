package logger

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/google/uuid"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger

	loggerBufferSize = 1000

	mu      sync.RWMutex
	logChan chan model.Log
	logRepo repository.LogRepository
	drained chan struct{}
)

func init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// InitLogger starts persisting every log line to repo in the background.
// Without it the package only writes to stdout and stderr.
func InitLogger(repo repository.LogRepository) {
	mu.Lock()
	defer mu.Unlock()

	logRepo = repo
	logChan = make(chan model.Log, loggerBufferSize)
	drained = make(chan struct{})
	go processLogs(logChan, repo, drained)
}

func processLogs(entries <-chan model.Log, repo repository.LogRepository, done chan<- struct{}) {
	defer close(done)
	for logEntry := range entries {
		if err := repo.SaveLog(context.Background(), logEntry); err != nil {
			ErrorLogger.Printf("failed to save log: %v", err)
		}
	}
}

func logAsync(level model.LogLevel, message string) {
	if level == model.LogLevelInfo {
		InfoLogger.Output(3, message)
	} else {
		ErrorLogger.Output(3, message)
	}

	mu.RLock()
	defer mu.RUnlock()
	if logChan == nil {
		return
	}

	logEntry := model.Log{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Source:    model.LogSourceApplication,
	}

	select {
	case logChan <- logEntry:
	default:
		ErrorLogger.Printf("log channel full. Dropping log: %v", logEntry)
	}
}

func Info(v ...interface{}) {
	logAsync(model.LogLevelInfo, fmt.Sprint(v...))
}

func Infof(format string, v ...interface{}) {
	logAsync(model.LogLevelInfo, fmt.Sprintf(format, v...))
}

func Error(v ...interface{}) {
	logAsync(model.LogLevelError, fmt.Sprint(v...))
}

func Errorf(format string, v ...interface{}) {
	logAsync(model.LogLevelError, fmt.Sprintf(format, v...))
}

// Shutdown stops accepting persisted logs, waits for the queue to drain and
// closes the repository. It is a no-op when InitLogger was never called.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	entries, repo, done := logChan, logRepo, drained
	logChan, logRepo, drained = nil, nil, nil
	mu.Unlock()

	if entries == nil {
		return nil
	}
	close(entries)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return repo.Close()
	}
}
