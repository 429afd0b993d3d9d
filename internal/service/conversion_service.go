package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/Lutefd/currency-converter/internal/telemetry"
	"github.com/Lutefd/currency-converter/internal/worker"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ConversionService struct {
	fetcher  worker.RateFetcher
	history  repository.HistoryRepository
	validate *validator.Validate
	now      func() time.Time
	newID    func() uuid.UUID
}

type Option func(*ConversionService)

func WithClock(now func() time.Time) Option {
	return func(s *ConversionService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *ConversionService) {
		s.newID = newID
	}
}

func NewConversionService(fetcher worker.RateFetcher, history repository.HistoryRepository, opts ...Option) *ConversionService {
	validate := validator.New()
	if err := validate.RegisterValidation("supported_currency", func(fl validator.FieldLevel) bool {
		return model.Currency(fl.Field().String()).Supported()
	}); err != nil {
		panic(fmt.Sprintf("failed to register currency validation: %v", err))
	}

	s := &ConversionService{
		fetcher:  fetcher,
		history:  history,
		validate: validate,
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert fetches fresh rates for req.Source and converts req.Amount into
// req.Target. When the conversion succeeds but cannot be recorded, the result is
// still returned together with a *model.HistoryWriteError.
func (s *ConversionService) Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error) {
	if err := s.validateRequest(req); err != nil {
		telemetry.ConversionCounter.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	table, err := s.fetcher.FetchRates(ctx, req.Source)
	if err != nil {
		telemetry.ConversionCounter.WithLabelValues("rate_fetch_error").Inc()
		logger.Errorf("conversion %s->%s aborted: %v", req.Source, req.Target, err)
		return nil, err
	}

	rate, err := table.CrossRate(req.Source, req.Target)
	if err != nil {
		telemetry.ConversionCounter.WithLabelValues("rate_fetch_error").Inc()
		return nil, &model.RateFetchError{Kind: model.RateFetchParse, Base: req.Source, Err: err}
	}

	record := model.ConversionRecord{
		ID:              s.newID(),
		Timestamp:       s.now().UTC(),
		Source:          req.Source,
		Target:          req.Target,
		Amount:          req.Amount,
		ConvertedAmount: req.Amount * rate,
		RateUsed:        rate,
	}

	target, _ := model.LookupCurrency(req.Target)
	result := &model.ConversionResult{
		ConversionRecord: record,
		Display:          target.Format(record.ConvertedAmount),
		QuickRates:       quickRates(table, req.Source),
		RatesUpdatedAt:   table.UpdatedAt,
		Logged:           true,
	}

	if err := s.history.Append(ctx, record); err != nil {
		result.Logged = false
		telemetry.ConversionCounter.WithLabelValues("not_logged").Inc()
		logger.Errorf("conversion %s not logged: %v", record.ID, err)
		return result, &model.HistoryWriteError{Err: err}
	}

	telemetry.ConversionCounter.WithLabelValues("ok").Inc()
	logger.Infof("converted %v %s to %s %s at rate %v", record.Amount, record.Source, result.Display, record.Target, rate)
	return result, nil
}

func (s *ConversionService) validateRequest(req model.ConversionRequest) error {
	err := s.validate.Struct(req)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			if fieldErr.Tag() == "supported_currency" {
				return &model.UnsupportedCurrencyError{Code: fmt.Sprint(fieldErr.Value())}
			}
		}
		return &model.InvalidAmountError{Amount: req.Amount}
	}
	if err != nil {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return &model.InvalidAmountError{Amount: req.Amount}
	}
	return nil
}

func quickRates(table *model.RateTable, source model.Currency) map[model.Currency]float64 {
	rates := make(map[model.Currency]float64, len(model.PopularCurrencies))
	for _, c := range model.PopularCurrencies {
		if c == source {
			continue
		}
		if rate, err := table.CrossRate(source, c); err == nil {
			rates[c] = rate
		}
	}
	return rates
}

func (s *ConversionService) History(ctx context.Context, limit int) ([]model.ConversionRecord, error) {
	records, err := s.history.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return records, nil
}

func (s *ConversionService) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logger.Info("conversion history cleared")
	return nil
}

func (s *ConversionService) Currencies() []model.CurrencyInfo {
	return model.SupportedCurrencies()
}
