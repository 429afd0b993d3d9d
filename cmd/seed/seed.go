package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// seed prepares the postgres tables and copies an existing JSON history file
// into them, so a local install can move to the postgres backend.
type dependencies struct {
	loadConfig func() (commons.Config, error)
	openDB     func(driverName, dataSourceName string) (*sql.DB, error)
	loadEnv    func(...string) error
}

var defaultDeps = dependencies{
	loadConfig: commons.LoadConfig,
	openDB:     sql.Open,
	loadEnv:    godotenv.Load,
}

func main() {
	imported, err := run(context.Background(), defaultDeps)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Imported %d conversion records\n", imported)
}

func run(ctx context.Context, deps dependencies) (int, error) {
	if err := deps.loadEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("error loading .env file: %w", err)
	}

	config, err := deps.loadConfig()
	if err != nil {
		return 0, fmt.Errorf("error loading config: %w", err)
	}
	if config.PostgresConn == "" {
		return 0, errors.New("POSTGRES_CONN is not set")
	}

	db, err := deps.openDB("postgres", config.PostgresConn)
	if err != nil {
		return 0, fmt.Errorf("error opening database connection: %w", err)
	}

	history, err := repository.NewPostgresHistoryRepository(config.PostgresConn, db)
	if err != nil {
		db.Close()
		return 0, fmt.Errorf("error connecting to the database: %w", err)
	}
	defer history.Close()

	if err := history.Migrate(ctx); err != nil {
		return 0, err
	}
	logs, err := repository.NewPostgresLogRepository(config.PostgresConn, db)
	if err != nil {
		return 0, fmt.Errorf("error connecting to the database: %w", err)
	}
	if err := logs.Migrate(ctx); err != nil {
		return 0, err
	}

	return importHistory(ctx, repository.NewFileHistoryRepository(config.HistoryFile), history)
}

func importHistory(ctx context.Context, src, dst repository.HistoryRepository) (int, error) {
	records, err := src.List(ctx, 0)
	if err != nil {
		return 0, fmt.Errorf("error reading history file: %w", err)
	}

	// List is newest first; replay oldest first.
	for i := len(records) - 1; i >= 0; i-- {
		if err := dst.Append(ctx, records[i]); err != nil {
			return len(records) - 1 - i, fmt.Errorf("error importing record %s: %w", records[i].ID, err)
		}
	}
	return len(records), nil
}
