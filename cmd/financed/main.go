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

	"github.com/redis/go-redis/v9"

	"github.com/faiyaz92/pay-roll-sub001/internal/application/usecase"
	"github.com/faiyaz92/pay-roll-sub001/internal/infrastructure/cache"
	"github.com/faiyaz92/pay-roll-sub001/internal/infrastructure/clock"
	"github.com/faiyaz92/pay-roll-sub001/internal/infrastructure/config"
	"github.com/faiyaz92/pay-roll-sub001/internal/infrastructure/export"
	"github.com/faiyaz92/pay-roll-sub001/internal/infrastructure/kafka"
	pgRepo "github.com/faiyaz92/pay-roll-sub001/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/faiyaz92/pay-roll-sub001/internal/presentation/grpc"
	"github.com/faiyaz92/pay-roll-sub001/internal/presentation/rest"
	pkgkafka "github.com/faiyaz92/pay-roll-sub001/pkg/kafka"
	"github.com/faiyaz92/pay-roll-sub001/pkg/observability"
	pkgpostgres "github.com/faiyaz92/pay-roll-sub001/pkg/postgres"
	"github.com/faiyaz92/pay-roll-sub001/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fleet-finance exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})
	logger.Info("starting fleet-finance",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Telemetry. Tracing is optional; metrics back the /metrics endpoint.
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()

	// Database connection.
	dbCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns),
	}
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()
	pool, err := pkgpostgres.NewPool(dbCtx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	schema, migErr := pkgpostgres.RunMigrations(dbCfg.DSN(), cfg.MigrationsPath)
	if migErr != nil {
		logger.Warn("migration warning", "error", migErr, "dirty", schema.Dirty)
	} else {
		logger.Info("schema migrated", "version", schema.Version)
	}

	// Redis for prepayment quotes.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	quotes := cache.NewQuoteStore(rdb, cfg.Redis.QuoteTTL)

	// Kafka.
	kafkaCfg := pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLEnabled(),
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	}
	producer, err := pkgkafka.NewProducer(kafkaCfg)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()
	publisher := kafka.NewEventPublisher(producer, cfg.Kafka.EventsTopic, logger)

	// Wire infrastructure adapters.
	loanRepo := pgRepo.NewLoanRepo(pool)
	financialsRepo := pgRepo.NewFinancialsRepo(pool)
	clk := clock.SystemClock{}
	renderer := export.NewWorkbookRenderer()

	// Wire use cases.
	createLoanUC := usecase.NewCreateLoanUseCase(loanRepo, publisher, clk)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo, loanRepo, clk)
	payInstallmentUC := usecase.NewRecordInstallmentPaymentUseCase(loanRepo, publisher, clk)
	previewUC := usecase.NewPreviewPrepaymentUseCase(loanRepo, quotes, clk, cfg.Redis.QuoteTTL)
	confirmUC := usecase.NewConfirmPrepaymentUseCase(loanRepo, quotes, publisher, clk)
	registerUC := usecase.NewRegisterVehicleFinancialsUseCase(financialsRepo, clk)
	activityUC := usecase.NewRecordActivityUseCase(financialsRepo)
	projectUC := usecase.NewProjectFinancialsUseCase(loanRepo, financialsRepo, clk, cfg.AverageWindowMonth)
	exportScheduleUC := usecase.NewExportScheduleUseCase(loanRepo, renderer)
	exportProjectionUC := usecase.NewExportProjectionUseCase(projectUC, renderer)

	// gRPC server.
	handler := grpcPresentation.NewFleetFinanceHandler(grpcPresentation.UseCases{
		CreateLoan:                createLoanUC,
		GetLoan:                   getLoanUC,
		RecordInstallmentPayment:  payInstallmentUC,
		PreviewPrepayment:         previewUC,
		ConfirmPrepayment:         confirmUC,
		RegisterVehicleFinancials: registerUC,
		RecordActivity:            activityUC,
		ProjectFinancials:         projectUC,
	}, logger)
	grpcServer, err := grpcPresentation.NewServer(handler, logger, grpcPresentation.ServerOptions{
		TLS: tlsutil.ServerFiles{
			CertFile:     cfg.TLS.CertFile,
			KeyFile:      cfg.TLS.KeyFile,
			ClientCAFile: cfg.TLS.ClientCAFile,
		},
		Reflection: cfg.GRPCReflection,
	})
	if err != nil {
		return err
	}

	// HTTP server: probes, metrics and spreadsheet exports.
	mux := http.NewServeMux()
	rest.NewHealthHandler(cfg.ServiceName, map[string]rest.Check{
		"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
		"redis":    quotes.Ping,
	}, logger).RegisterRoutes(mux)
	rest.NewExportHandler(exportScheduleUC, exportProjectionUC, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers and the activity consumer.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	if cfg.Kafka.ConsumeEnabled {
		activities := kafka.NewActivityHandler(activityUC, logger)
		consumer, err := pkgkafka.NewConsumer(kafkaCfg, cfg.Kafka.ActivityTopic, activities.Handle, logger)
		if err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil {
				errCh <- fmt.Errorf("activity consumer error: %w", err)
			}
		}()
	}

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}
	cancel()

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("fleet-finance stopped")
	return nil
}
