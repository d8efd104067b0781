package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/velvetlive/golang_services/internal/livestream_service/adapters/analytics"
	"github.com/velvetlive/golang_services/internal/livestream_service/adapters/chat"
	"github.com/velvetlive/golang_services/internal/livestream_service/adapters/scheduling"
	"github.com/velvetlive/golang_services/internal/livestream_service/adapters/videoplatform"
	"github.com/velvetlive/golang_services/internal/livestream_service/app"
	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
	lsRepo "github.com/velvetlive/golang_services/internal/livestream_service/repository/postgres"
	lsHTTP "github.com/velvetlive/golang_services/internal/livestream_service/transport/http"
	"github.com/velvetlive/golang_services/internal/platform/config"
	"github.com/velvetlive/golang_services/internal/platform/database"
	"github.com/velvetlive/golang_services/internal/platform/logger"
	"github.com/velvetlive/golang_services/internal/platform/messagebroker"
	"github.com/velvetlive/golang_services/internal/taskqueue"
)

const (
	serviceName     = "livestream-service"
	shutdownTimeout = 15 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)
	appLogger.Info("Livestream service starting...")

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Database connection pool initialized")

	natsClient, err := messagebroker.NewNATSClient(cfg.NATSUrl, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("NATS client connected", "url", cfg.NATSUrl)

	streamRepo := lsRepo.NewPgStreamRepository(dbPool, appLogger)

	dispatcher := taskqueue.NewDispatcher(taskqueue.Config{
		BaseURL:       cfg.TaskQueueBaseURL,
		APIKey:        cfg.TaskQueueAPIKey,
		Project:       cfg.TaskQueueProject,
		Location:      cfg.TaskQueueLocation,
		InvokerDomain: cfg.TaskQueueInvokerDomain,
	}, appLogger, nil)

	reportScheduler := scheduling.NewReportScheduler(
		dispatcher, appLogger,
		cfg.ReportQueueName, cfg.ReportTaskHandler,
		time.Duration(cfg.ReportTaskDelaySeconds)*time.Second,
	)

	// External collaborators: mock adapters stand in until the provider SDK
	// bindings land; the workflow only sees the domain ports.
	channelService := chat.NewMockChannelService(appLogger, false)
	videoController := videoplatform.NewMockVideoController(appLogger, false, false)
	analyticsProvider := analytics.NewMockAnalyticsProvider(appLogger, false, domain.ViewerMetrics{})

	finalizationService := app.NewFinalizationService(
		streamRepo, channelService, videoController, analyticsProvider, reportScheduler, appLogger,
	)
	appLogger.Info("FinalizationService initialized")

	validate := validator.New()
	streamHandler := lsHTTP.NewStreamHandler(finalizationService, appLogger, validate)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	streamHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.LivestreamServicePort),
		Handler: router,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	eventConsumer := app.NewEventConsumer(finalizationService, natsClient, appLogger)
	g.Go(func() error {
		return eventConsumer.StartConsuming(groupCtx)
	})

	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)

	g.Go(func() error {
		select {
		case sig := <-stopSignal:
			appLogger.Info("Received termination signal", "signal", sig.String())
		case <-groupCtx.Done():
			appLogger.Info("Group context done, initiating shutdown", "error", groupCtx.Err())
		}
		mainCancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	appLogger.Info("Livestream service is ready and running.")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Service group encountered an error during run", "error", err)
	}
	appLogger.Info("Livestream service shut down successfully.")
}
