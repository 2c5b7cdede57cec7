package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacantwell/kairos-backend/internal/proximity/adapters/in/transport"
	"github.com/jacantwell/kairos-backend/internal/proximity/adapters/out/persistence"
	"github.com/jacantwell/kairos-backend/internal/proximity/application/usecase"
	"github.com/jacantwell/kairos-backend/internal/shared/auth"
	"github.com/jacantwell/kairos-backend/internal/shared/config"
	db_conn "github.com/jacantwell/kairos-backend/internal/shared/db"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
	"github.com/jacantwell/kairos-backend/internal/shared/observability"
)

// Run запускает Proximity Service
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "proximity_service_starting", Message: "initializing proximity service"})

	// 1. PostgreSQL (схему накатывает journey service)
	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	// 2. Метрики
	metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "metrics_init_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// 3. Репозиторий и use case
	positionReader := persistence.NewPositionPgReader(dbPool)
	getNeighborsUC := usecase.NewGetNeighborsUseCase(positionReader, cfg.Proximity, metrics, log)

	// 4. HTTP
	jwtService := auth.NewJWTService(cfg.JWT)
	httpHandler := transport.NewHTTPHandler(getNeighborsUC, log)
	authMiddleware := transport.AuthMiddleware(jwtService, log)

	mux := http.NewServeMux()
	httpHandler.RegisterRoutes(mux, authMiddleware)
	mux.Handle("GET /metrics", metrics.Handler())

	addr := fmt.Sprintf(":%d", cfg.Services.ProximityServicePort)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{
			Action:  "http_server_starting",
			Message: fmt.Sprintf("listening on %s", addr),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(logger.Entry{
				Action:  "http_server_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "proximity_service_stopping", Message: "shutting down proximity service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	log.Info(logger.Entry{Action: "proximity_service_stopped", Message: "proximity service stopped"})
}
