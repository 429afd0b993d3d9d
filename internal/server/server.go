package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/Lutefd/currency-converter/internal/service"
	"github.com/Lutefd/currency-converter/internal/worker"
)

type Server struct {
	port    int
	Router  http.Handler
	config  commons.Config
	history repository.HistoryRepository
	probe   *worker.UpstreamProbe
	httpSrv *http.Server
}

// NewServer wires the production dependencies described by config.
func NewServer(config commons.Config) (*Server, error) {
	if config.PersistLogs {
		logRepo, err := repository.NewPostgresLogRepository(config.PostgresConn, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize log repository: %w", err)
		}
		if err := logRepo.Migrate(context.Background()); err != nil {
			logRepo.Close()
			return nil, err
		}
		logger.InitLogger(logRepo)
	}

	history, err := OpenHistoryRepository(context.Background(), config)
	if err != nil {
		return nil, err
	}

	fetcher := NewRateFetcher(config)
	return New(config, fetcher, history)
}

func NewRateFetcher(config commons.Config) *worker.ExchangeRateAPIClient {
	return worker.NewExchangeRateAPIClient(config.RatesAPIURL,
		worker.WithAPIKey(config.RatesAPIKey),
		worker.WithTimeout(config.RatesAPITimeout),
	)
}

// New builds a server around already constructed dependencies. The server owns
// history and closes it on shutdown.
func New(config commons.Config, fetcher worker.RateFetcher, history repository.HistoryRepository) (*Server, error) {
	s := &Server{
		port:    int(config.ServerPort),
		config:  config,
		history: history,
	}

	if config.ProbeSchedule != "" {
		probe, err := worker.NewUpstreamProbe(fetcher, config.ProbeSchedule)
		if err != nil {
			return nil, err
		}
		s.probe = probe
	}

	s.registerRoutes(service.NewConversionService(fetcher, history))
	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	logger.Infof("starting server on port %d", s.port)
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Router,
		IdleTimeout:  commons.ServerIdleTimeout,
		ReadTimeout:  commons.ServerReadTimeout,
		WriteTimeout: commons.ServerWriteTimeout,
	}

	if s.probe != nil {
		s.probe.Start(ctx)
	}

	ch := make(chan error, 1)
	go func() {
		err := s.httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			ch <- fmt.Errorf("failed to start server: %w", err)
		}
		close(ch)
	}()

	select {
	case err := <-ch:
		s.closeHistory()
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), commons.ServerShutdownTimeout)
	defer cancel()

	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	s.closeHistory()
	return err
}

func (s *Server) closeHistory() {
	if err := s.history.Close(); err != nil {
		logger.Errorf("failed to close history store: %v", err)
	}
}
