package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacantwell/kairos-backend/internal/journey/bootstrap"
	"github.com/jacantwell/kairos-backend/internal/shared/config"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
)

func main() {
	log := logger.NewLogger("journey-service")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(logger.Entry{Action: "config_load_failed", Message: err.Error()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	bootstrap.Run(ctx, cfg, log)
}
