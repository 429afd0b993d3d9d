package worker

import (
	"context"

	"github.com/Lutefd/currency-converter/internal/model"
)

// RateFetcher retrieves a fresh rate table for base on every call.
type RateFetcher interface {
	FetchRates(ctx context.Context, base model.Currency) (*model.RateTable, error)
}
