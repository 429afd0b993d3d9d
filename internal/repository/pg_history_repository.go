package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Lutefd/currency-converter/internal/model"
	_ "github.com/lib/pq"
)

type PostgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(connURL string, db *sql.DB) (*PostgresHistoryRepository, error) {
	if db == nil {
		var err error
		db, err = sql.Open("postgres", connURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresHistoryRepository{db: db}, nil
}

func (r *PostgresHistoryRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS conversion_history (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			source_currency CHAR(3) NOT NULL,
			target_currency CHAR(3) NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			converted_amount DOUBLE PRECISION NOT NULL,
			rate_used DOUBLE PRECISION NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create conversion_history table: %w", err)
	}
	return nil
}

func (r *PostgresHistoryRepository) Append(ctx context.Context, record model.ConversionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversion_history (id, timestamp, source_currency, target_currency, amount, converted_amount, rate_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, record.ID, record.Timestamp, string(record.Source), string(record.Target),
		record.Amount, record.ConvertedAmount, record.RateUsed)
	if err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

func (r *PostgresHistoryRepository) List(ctx context.Context, limit int) ([]model.ConversionRecord, error) {
	query := `SELECT id, timestamp, source_currency, target_currency, amount, converted_amount, rate_used
              FROM conversion_history ORDER BY timestamp DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := []model.ConversionRecord{}
	for rows.Next() {
		var (
			record         model.ConversionRecord
			source, target string
		)
		if err := rows.Scan(&record.ID, &record.Timestamp, &source, &target,
			&record.Amount, &record.ConvertedAmount, &record.RateUsed); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		record.Source = model.Currency(source)
		record.Target = model.Currency(target)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

func (r *PostgresHistoryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM conversion_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (r *PostgresHistoryRepository) Close() error {
	return r.db.Close()
}
