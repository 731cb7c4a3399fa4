package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "github.com/simaogato/pricelist-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/pricelist-backend/internal/adapter/http"
	"github.com/simaogato/pricelist-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/pricelist-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/pricelist-backend/internal/config"
	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/simaogato/pricelist-backend/internal/metrics"
	"github.com/simaogato/pricelist-backend/internal/usecase/pricelist"
	"github.com/simaogato/pricelist-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel)
	m := metrics.New()

	// 1. Setup Database
	repo, closeDB, err := openRepository(cfg, log)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer closeDB()

	// 2. Initialize Service (Use Case) and load the last snapshot
	priceListService := pricelist.NewPriceListService(repo, logrus.NewEntry(log), m)
	priceListService.Location = cfg.Location
	if err := priceListService.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load price list: %v", err)
	}

	// 3. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger.Component(log, "grpc")),
			grpcadapter.MetricsInterceptor(m),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterPriceListServiceServer(grpcServer, grpcadapter.NewServer(priceListService))
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	// The price list service is JSON-coded (content-subtype "json") and is left out of reflection
	grpcadapter.RegisterReflection(grpcServer)

	grpcAddr := ":" + cfg.GRPCPort
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", grpcAddr, err)
	}

	go func() {
		log.Infof("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 4. Start HTTP ops server (/healthz, /metrics)
	httpServer := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: httpadapter.NewRouter(&httpadapter.Deps{
			Log:     logger.Component(log, "http"),
			Metrics: m,
			Records: func() int { return priceListService.Snapshot().Ledger.Len() },
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Infof("HTTP ops server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, grpcServer, healthServer, httpServer)
}

// openRepository selects Postgres when it is configured and SQLite otherwise
func openRepository(cfg *config.Config, log *logrus.Logger) (domain.SnapshotRepository, func(), error) {
	if cfg.UsePostgres() {
		db, err := postgres.NewDB(cfg.PostgresConnStr)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info("Using Postgres snapshot store")
		return postgres.NewSnapshotRepository(db), func() { db.Close() }, nil
	}

	db, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("Using SQLite snapshot store at %s", cfg.SQLitePath)
	return sqlite.NewSnapshotRepository(db), func() { db.Close() }, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(log *logrus.Logger, grpcServer *grpclib.Server, healthServer *health.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Infof("Received signal: %v. Shutting down gracefully...", sig)

	healthServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown")
	}

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")
}
