package service

import (
	"context"

	"github.com/Lutefd/currency-converter/internal/model"
)

type ConversionServiceInterface interface {
	Convert(ctx context.Context, req model.ConversionRequest) (*model.ConversionResult, error)
	History(ctx context.Context, limit int) ([]model.ConversionRecord, error)
	ClearHistory(ctx context.Context) error
	Currencies() []model.CurrencyInfo
}
