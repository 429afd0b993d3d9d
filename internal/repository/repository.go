package repository

import (
	"context"

	"github.com/Lutefd/currency-converter/internal/model"
)

// HistoryRepository is an append-only list of conversion records.
type HistoryRepository interface {
	Append(ctx context.Context, record model.ConversionRecord) error
	// List returns the newest records first; limit <= 0 returns everything.
	List(ctx context.Context, limit int) ([]model.ConversionRecord, error)
	Clear(ctx context.Context) error
	Close() error
}

type LogRepository interface {
	SaveLog(ctx context.Context, log model.Log) error
	Close() error
}

func newestFirst(records []model.ConversionRecord, limit int) []model.ConversionRecord {
	n := len(records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.ConversionRecord, 0, n)
	for i := len(records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, records[i])
	}
	return out
}
