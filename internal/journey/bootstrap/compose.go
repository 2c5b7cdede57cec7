package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacantwell/kairos-backend/internal/journey/adapters/in/in_amqp"
	"github.com/jacantwell/kairos-backend/internal/journey/adapters/in/transport"
	"github.com/jacantwell/kairos-backend/internal/journey/adapters/out/messaging"
	"github.com/jacantwell/kairos-backend/internal/journey/adapters/out/persistence"
	"github.com/jacantwell/kairos-backend/internal/journey/application/usecase"
	"github.com/jacantwell/kairos-backend/internal/shared/auth"
	"github.com/jacantwell/kairos-backend/internal/shared/config"
	db_conn "github.com/jacantwell/kairos-backend/internal/shared/db"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
	"github.com/jacantwell/kairos-backend/internal/shared/mq"
	"github.com/jacantwell/kairos-backend/internal/shared/observability"
	"github.com/jacantwell/kairos-backend/internal/shared/user"
	"github.com/jacantwell/kairos-backend/internal/shared/ws"
)

// Run запускает Journey Service
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) {
	log.Info(logger.Entry{Action: "journey_service_starting", Message: "initializing journey service"})

	// 1. PostgreSQL
	dbPool, err := db_conn.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer db_conn.Close(dbPool, log)

	if err := db_conn.Migrate(ctx, dbPool, log); err != nil {
		log.Fatal(logger.Entry{
			Action:  "db_migration_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// 2. RabbitMQ
	mqConn, err := mq.NewRabbitMQ(ctx, cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_connection_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	defer mqConn.Close()

	if err := mq.SetupTopology(mqConn); err != nil {
		log.Fatal(logger.Entry{
			Action:  "rabbitmq_topology_setup_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// 3. Метрики
	metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal(logger.Entry{
			Action:  "metrics_init_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}

	// 4. Репозитории
	journeyRepo := persistence.NewJourneyPgRepository(dbPool)
	markerRepo := persistence.NewMarkerPgRepository(dbPool)
	posIndex := persistence.NewPositionPgIndex(dbPool)
	userRepo := user.NewPgRepository(dbPool)

	// 5. Publisher
	publisher := messaging.NewEventPublisher(mqConn, log)

	// 6. Use cases
	createJourneyUC := usecase.NewCreateJourneyUseCase(journeyRepo, publisher, log)
	getJourneyUC := usecase.NewGetJourneyUseCase(journeyRepo)
	listJourneysUC := usecase.NewListJourneysUseCase(journeyRepo)
	setActiveUC := usecase.NewSetActiveJourneyUseCase(journeyRepo, log)
	completeUC := usecase.NewCompleteJourneyUseCase(journeyRepo, log)
	deleteJourneyUC := usecase.NewDeleteJourneyUseCase(journeyRepo, posIndex, publisher, log)
	appendPlanUC := usecase.NewAppendPlanMarkerUseCase(journeyRepo, markerRepo, publisher, metrics, log)
	appendJourneyUC := usecase.NewAppendJourneyMarkerUseCase(journeyRepo, markerRepo, posIndex, publisher, metrics, log)
	insertJourneyUC := usecase.NewInsertJourneyMarkerUseCase(journeyRepo, markerRepo, posIndex, publisher, metrics, log)
	convertPlanUC := usecase.NewConvertNextPlanUseCase(journeyRepo, markerRepo, posIndex, publisher, metrics, log)
	getMarkersUC := usecase.NewGetMarkersUseCase(journeyRepo, markerRepo)

	// 7. JWT и WebSocket hub
	jwtService := auth.NewJWTService(cfg.JWT)
	hub := ws.NewHub(jwtService.ExtractUserID, log)
	go hub.Run(ctx)

	// 8. Консьюмер изменений позиции → push владельцу
	positionConsumer := in_amqp.NewPositionConsumer(mqConn, hub, log)
	go func() {
		if err := positionConsumer.Start(ctx); err != nil {
			log.Error(logger.Entry{
				Action:  "position_consumer_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
		}
	}()

	// 9. HTTP handlers и маршруты
	httpHandler := transport.NewHTTPHandler(
		createJourneyUC,
		getJourneyUC,
		listJourneysUC,
		setActiveUC,
		completeUC,
		deleteJourneyUC,
		appendPlanUC,
		appendJourneyUC,
		insertJourneyUC,
		convertPlanUC,
		getMarkersUC,
		log,
	)
	authHandler := transport.NewAuthHandler(userRepo, jwtService, log)
	authMiddleware := transport.AuthMiddleware(jwtService, log)

	mux := http.NewServeMux()
	httpHandler.RegisterRoutes(mux, authMiddleware)
	authHandler.RegisterRoutes(mux)
	mux.HandleFunc("GET /ws", hub.ServeWS)
	mux.Handle("GET /metrics", metrics.Handler())

	handler := transport.LoggingMiddleware(log)(transport.RequestIDMiddleware(mux))

	// 10. HTTP Server
	addr := fmt.Sprintf(":%d", cfg.Services.JourneyServicePort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
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
	log.Info(logger.Entry{Action: "journey_service_stopping", Message: "shutting down journey service"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{
			Action:  "http_server_shutdown_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	} else {
		log.Info(logger.Entry{Action: "http_server_stopped", Message: "http server stopped gracefully"})
	}

	log.Info(logger.Entry{Action: "journey_service_stopped", Message: "journey service stopped"})
}
