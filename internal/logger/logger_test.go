package logger_test

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) SaveLog(ctx context.Context, log model.Log) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockLogRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func shutdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, logger.Shutdown(ctx))
}

func TestLogger_Info(t *testing.T) {
	mockRepo := new(MockLogRepository)
	mockRepo.On("SaveLog", mock.Anything, mock.AnythingOfType("model.Log")).Return(nil)
	mockRepo.On("Close").Return(nil)
	logger.InitLogger(mockRepo)

	logger.Info("Test info message")
	shutdown(t)

	mockRepo.AssertCalled(t, "SaveLog", mock.Anything, mock.MatchedBy(func(log model.Log) bool {
		return log.Level == model.LogLevelInfo && log.Message == "Test info message" && log.Source == model.LogSourceApplication
	}))
}

func TestLogger_Errorf(t *testing.T) {
	mockRepo := new(MockLogRepository)
	mockRepo.On("SaveLog", mock.Anything, mock.AnythingOfType("model.Log")).Return(nil)
	mockRepo.On("Close").Return(nil)
	logger.InitLogger(mockRepo)

	logger.Errorf("rate fetch failed for %s", "USD")
	shutdown(t)

	mockRepo.AssertCalled(t, "SaveLog", mock.Anything, mock.MatchedBy(func(log model.Log) bool {
		return log.Level == model.LogLevelError && log.Message == "rate fetch failed for USD"
	}))
}

func TestLogger_WritesToStandardLoggers(t *testing.T) {
	var infoBuf, errBuf bytes.Buffer
	oldInfo, oldErr := logger.InfoLogger, logger.ErrorLogger
	logger.InfoLogger = log.New(&infoBuf, "", 0)
	logger.ErrorLogger = log.New(&errBuf, "", 0)
	defer func() { logger.InfoLogger, logger.ErrorLogger = oldInfo, oldErr }()

	logger.Infof("converted %d", 100)
	logger.Error("boom")

	assert.Contains(t, infoBuf.String(), "converted 100")
	assert.Contains(t, errBuf.String(), "boom")
}

func TestLogger_SaveFailureIsReported(t *testing.T) {
	var errBuf bytes.Buffer
	oldErr := logger.ErrorLogger
	logger.ErrorLogger = log.New(&errBuf, "", 0)
	defer func() { logger.ErrorLogger = oldErr }()

	mockRepo := new(MockLogRepository)
	mockRepo.On("SaveLog", mock.Anything, mock.Anything).Return(assert.AnError)
	mockRepo.On("Close").Return(nil)
	logger.InitLogger(mockRepo)

	logger.Info("will not be stored")
	shutdown(t)

	assert.Contains(t, errBuf.String(), "failed to save log")
}

func TestLogger_ShutdownWithoutInit(t *testing.T) {
	assert.NoError(t, logger.Shutdown(context.Background()))
}

func TestLogger_Shutdown(t *testing.T) {
	mockRepo := new(MockLogRepository)
	mockRepo.On("SaveLog", mock.Anything, mock.AnythingOfType("model.Log")).Return(nil)
	mockRepo.On("Close").Return(nil)
	logger.InitLogger(mockRepo)

	logger.Info("Test shutdown message")
	shutdown(t)

	mockRepo.AssertCalled(t, "Close")

	logger.Info("after shutdown")
	mockRepo.AssertNumberOfCalls(t, "SaveLog", 1)
}
