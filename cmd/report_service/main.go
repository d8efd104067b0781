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

	lsRepo "github.com/velvetlive/golang_services/internal/livestream_service/repository/postgres"
	"github.com/velvetlive/golang_services/internal/platform/config"
	"github.com/velvetlive/golang_services/internal/platform/database"
	"github.com/velvetlive/golang_services/internal/platform/logger"
	"github.com/velvetlive/golang_services/internal/report_service/adapters/email"
	"github.com/velvetlive/golang_services/internal/report_service/adapters/identity"
	"github.com/velvetlive/golang_services/internal/report_service/adapters/paymentgateway"
	"github.com/velvetlive/golang_services/internal/report_service/adapters/storage"
	"github.com/velvetlive/golang_services/internal/report_service/app"
	rsRepo "github.com/velvetlive/golang_services/internal/report_service/repository/postgres"
	rsHTTP "github.com/velvetlive/golang_services/internal/report_service/transport/http"
)

const (
	serviceName     = "report-service"
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
	appLogger.Info("Report service starting...")

	if err := os.MkdirAll(cfg.ReportExportPath, 0750); err != nil {
		appLogger.Error("Failed to create report export directory during startup", "path", cfg.ReportExportPath, "error", err)
	}

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Database connection pool initialized")

	streamReader := lsRepo.NewPgStreamRepository(dbPool, appLogger)
	orderRepo := rsRepo.NewPgOrderRepository(dbPool, appLogger)
	profileRepo := rsRepo.NewPgBuyerProfileRepository(dbPool, appLogger)

	artifactStore, err := storage.NewMinioArtifactStore(storage.MinioConfig{
		Endpoint:      cfg.MinioEndpoint,
		AccessKey:     cfg.MinioAccessKey,
		SecretKey:     cfg.MinioSecretKey,
		UseSSL:        cfg.MinioUseSSL,
		Bucket:        cfg.MinioReportsBucket,
		PublicBaseURL: cfg.MinioPublicBaseURL,
	}, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize artifact store", "error", err)
		os.Exit(1)
	}
	if err := artifactStore.EnsureBucket(mainCtx); err != nil {
		appLogger.Error("Failed to ensure reports bucket", "error", err)
		os.Exit(1)
	}

	gateway := paymentgateway.NewRESTPaymentGatewayAdapter(appLogger, cfg.PaymentGatewayBaseURL, cfg.PaymentGatewayAPIKey, nil)
	identityDirectory := identity.NewRESTIdentityDirectoryAdapter(appLogger, cfg.IdentityDirectoryBaseURL, cfg.IdentityDirectoryAPIKey, nil)
	emailSender := email.NewRESTEmailSender(appLogger, email.SenderConfig{
		BaseURL:          cfg.EmailAPIBaseURL,
		APIKey:           cfg.EmailAPIKey,
		FromName:         cfg.EmailFromName,
		FromAddress:      cfg.EmailFromAddress,
		ReportTemplateID: cfg.EmailReportTemplateID,
	}, nil)

	aggregator := app.NewAggregator(orderRepo, profileRepo, gateway, appLogger)
	renderer := app.NewRenderer(artifactStore, appLogger, cfg.ReportExportPath)
	reportTaskService := app.NewReportTaskService(streamReader, aggregator, renderer, identityDirectory, emailSender, appLogger)
	appLogger.Info("ReportTaskService initialized")

	validate := validator.New()
	taskHandler := rsHTTP.NewTaskHandler(reportTaskService, appLogger, validate)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	taskHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ReportServicePort),
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

	appLogger.Info("Report service is ready and running.")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Service group encountered an error during run", "error", err)
	}
	appLogger.Info("Report service shut down successfully.")
}
