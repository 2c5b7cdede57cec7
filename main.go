package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacantwell/kairos-backend/internal/shared/config"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"

	journeyboot "github.com/jacantwell/kairos-backend/internal/journey/bootstrap"
	proximityboot "github.com/jacantwell/kairos-backend/internal/proximity/bootstrap"
)

func main() {
	svc := flag.String("service", "journey", "journey|proximity|all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logger.NewLogger("bootstrap")
		log.Fatal(logger.Entry{Action: "config_load_failed", Message: err.Error()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	go func() { <-quit; cancel() }()

	switch *svc {
	case "journey":
		log := logger.NewLogger("journey-service")
		journeyboot.Run(ctx, cfg, log)

	case "proximity":
		log := logger.NewLogger("proximity-service")
		proximityboot.Run(ctx, cfg, log)

	case "all":
		journeyLog := logger.NewLogger("journey-service")
		proximityLog := logger.NewLogger("proximity-service")

		go journeyboot.Run(ctx, cfg, journeyLog)
		go proximityboot.Run(ctx, cfg, proximityLog)

		<-ctx.Done()

	default:
		log := logger.NewLogger("bootstrap")
		log.Fatal(logger.Entry{Action: "invalid_service", Message: *svc})
	}
}
