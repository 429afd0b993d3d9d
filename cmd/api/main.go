package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lutefd/currency-converter/internal/commons"
	"github.com/Lutefd/currency-converter/internal/logger"
	"github.com/Lutefd/currency-converter/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	config, err := commons.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	srv, err := server.NewServer(config)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if config.OpenBrowser {
		go openBrowserAfter(ctx, fmt.Sprintf("http://localhost:%d/", config.ServerPort), browserDelay)
	}

	err = srv.Start(ctx)

	flushCtx, flushCancel := context.WithTimeout(context.Background(), commons.LoggerShutdownTimeout)
	defer flushCancel()
	if shutdownErr := logger.Shutdown(flushCtx); shutdownErr != nil {
		log.Printf("failed to flush logs: %v", shutdownErr)
	}

	if err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}
