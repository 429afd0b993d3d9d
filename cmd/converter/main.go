package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/server"
	"github.com/Lutefd/currency-converter/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCommand(ctx, openService).Execute(); err != nil {
		os.Exit(1)
	}
}

func openService(ctx context.Context) (service.ConversionServiceInterface, func() error, error) {
	loadEnv(godotenv.Load)
	config, err := commons.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	history, err := server.OpenHistoryRepository(ctx, config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	return service.NewConversionService(server.NewRateFetcher(config), history), history.Close, nil
}

func loadEnv(load func(...string) error) {
	if err := load(".env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}
