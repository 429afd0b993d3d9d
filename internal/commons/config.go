package commons

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/worker"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	HistoryBackendFile     = "file"
	HistoryBackendRedis    = "redis"
	HistoryBackendPostgres = "postgres"
)

type Config struct {
	ServerPort      uint16
	RatesAPIURL     string
	RatesAPIKey     string
	RatesAPITimeout time.Duration
	HistoryBackend  string
	HistoryFile     string
	RedisAddr       string
	RedisPass       string
	PostgresConn    string
	PersistLogs     bool
	RateLimitRPS    float64
	ProbeSchedule   string
	AdminTokenHash  string
	OpenBrowser     bool
}

const (
	decimalBase = 10
	bitSize     = 16
)

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("server_port", "8000")
	v.SetDefault("rates_api_url", worker.DefaultRatesAPIURL)
	v.SetDefault("rates_api_timeout", worker.DefaultFetchTimeout.String())
	v.SetDefault("history_backend", HistoryBackendFile)
	v.SetDefault("history_file", DefaultHistoryFile)
	v.SetDefault("persist_logs", false)
	v.SetDefault("rate_limit_rps", strconv.Itoa(DefaultRateLimitRPS))
	v.SetDefault("probe_schedule", DefaultProbeSchedule)
	v.SetDefault("open_browser", false)
	return v
}

// LoadConfig reads the configuration from the environment. Every problem is
// reported before failing so a broken .env can be fixed in one go.
func LoadConfig() (Config, error) {
	v := newViper()
	var config Config
	var errors []string

	serverPort := v.GetString("server_port")
	parsedServerPort, err := strconv.ParseUint(serverPort, decimalBase, bitSize)
	if err != nil || parsedServerPort == 0 {
		errors = append(errors, fmt.Sprintf("invalid SERVER_PORT: %q", serverPort))
	} else {
		config.ServerPort = uint16(parsedServerPort)
	}

	config.RatesAPIURL = v.GetString("rates_api_url")
	if !strings.HasPrefix(config.RatesAPIURL, "http://") && !strings.HasPrefix(config.RatesAPIURL, "https://") {
		errors = append(errors, fmt.Sprintf("invalid RATES_API_URL: %q", config.RatesAPIURL))
	}
	config.RatesAPIKey = v.GetString("rates_api_key")

	timeout := v.GetString("rates_api_timeout")
	config.RatesAPITimeout, err = time.ParseDuration(timeout)
	if err != nil || config.RatesAPITimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid RATES_API_TIMEOUT: %q", timeout))
	}

	config.HistoryBackend = strings.ToLower(v.GetString("history_backend"))
	config.HistoryFile = v.GetString("history_file")
	config.RedisAddr = v.GetString("redis_addr")
	config.RedisPass = v.GetString("redis_password")
	config.PostgresConn = v.GetString("postgres_conn")

	switch config.HistoryBackend {
	case HistoryBackendFile:
		if config.HistoryFile == "" {
			errors = append(errors, "HISTORY_FILE is not set")
		}
	case HistoryBackendRedis:
		if config.RedisAddr == "" {
			errors = append(errors, "REDIS_ADDR is not set")
		}
	case HistoryBackendPostgres:
		if config.PostgresConn == "" {
			errors = append(errors, "POSTGRES_CONN is not set")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid HISTORY_BACKEND: %q", config.HistoryBackend))
	}

	config.PersistLogs = v.GetBool("persist_logs")
	if config.PersistLogs && config.PostgresConn == "" {
		errors = append(errors, "PERSIST_LOGS requires POSTGRES_CONN")
	}

	rps := v.GetString("rate_limit_rps")
	config.RateLimitRPS, err = strconv.ParseFloat(rps, 64)
	if err != nil || config.RateLimitRPS <= 0 {
		errors = append(errors, fmt.Sprintf("invalid RATE_LIMIT_RPS: %q", rps))
	}

	config.ProbeSchedule = v.GetString("probe_schedule")

	config.AdminTokenHash = v.GetString("admin_token_hash")
	if config.AdminTokenHash != "" {
		if _, err := bcrypt.Cost([]byte(config.AdminTokenHash)); err != nil {
			errors = append(errors, "ADMIN_TOKEN_HASH is not a bcrypt hash")
		}
	}

	config.OpenBrowser = v.GetBool("open_browser")

	if len(errors) > 0 {
		for _, err := range errors {
			logger.Errorf("configuration error: %s", err)
		}
		return Config{}, fmt.Errorf("configuration errors occurred: %s", strings.Join(errors, "; "))
	}

	return config, nil
}
