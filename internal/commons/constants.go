package commons

import "time"

const (
	DefaultHistoryFile    = "conversion_history.json"
	DefaultHistoryLimit   = 10
	DefaultRateLimitRPS   = 10
	DefaultProbeSchedule  = "@every 5m"
	AdminTokenHeader      = "X-Admin-Token"
	ServerIdleTimeout     = time.Minute
	ServerReadTimeout     = 10 * time.Second
	ServerWriteTimeout    = 30 * time.Second
	ServerShutdownTimeout = 10 * time.Second
	LoggerShutdownTimeout = 5 * time.Second
)

const (
	ErrorKindInvalidInput = "invalid_input"
	ErrorKindRateFetch    = "rate_fetch"
	ErrorKindHistoryRead  = "history_read"
	ErrorKindHistoryWrite = "history_write"
	ErrorKindUnauthorized = "unauthorized"
	ErrorKindRateLimited  = "rate_limited"
)
