package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suqingyao/oawesome/config"
	"github.com/suqingyao/oawesome/github"
	"github.com/suqingyao/oawesome/logger"
	"github.com/suqingyao/oawesome/server"
	"github.com/suqingyao/oawesome/service"
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	client, err := github.NewClient(cfg.GitHubToken, cfg.APIBaseURL, cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("Failed to create GitHub client: %v", err)
	}

	svc := service.NewService(client, cfg.BatchConcurrency)
	srv := server.NewServer(cfg.Addr, svc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case <-sigCh:
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
	}
}
