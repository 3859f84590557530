package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/dentaldash-api/internal/calsync"
	"github.com/harentsoaR/dentaldash-api/internal/config"
	"github.com/harentsoaR/dentaldash-api/internal/handlers"
	"github.com/harentsoaR/dentaldash-api/internal/scheduling"
	"github.com/harentsoaR/dentaldash-api/internal/services"
	"github.com/harentsoaR/dentaldash-api/internal/store"
	"github.com/harentsoaR/dentaldash-api/internal/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "dentaldash-api")
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, found, err := config.Load()
	if err != nil {
		return err
	}
	if !found {
		logger.Info("No .env file found, relying on environment variables.")
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is NOT SET, logins will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Ledger store ---
	var st store.Store
	switch cfg.StoreDriver {
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()
		m := store.NewMongo(client.Database(cfg.MongoDatabase))
		if err := m.EnsureIndexes(connectCtx); err != nil {
			return err
		}
		st = m
		logger.Info("Successfully connected to MongoDB", "database", cfg.MongoDatabase)
	default:
		st = store.NewMemory()
		logger.Info("using in-memory store, data is lost on restart")
	}

	// --- Scheduling and calendar sync ---
	policy, err := scheduling.NewPolicy(cfg.SchedulingPolicy, cfg.Grid)
	if err != nil {
		return err
	}

	var source calsync.Source = calsync.Simulated{Latency: cfg.SyncLatency}
	if cfg.SyncICSURL != "" {
		source = calsync.NewICS(cfg.SyncICSURL, cfg.SyncTimeout)
	}
	syncer := calsync.NewSyncer(st, calsync.Config{
		Source:  source,
		Policy:  policy,
		Timeout: cfg.SyncTimeout,
		Logger:  logger,
	})
	if cfg.SyncSchedule != "" {
		sched, err := calsync.NewScheduler(cfg.SyncSchedule, syncer, logger)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// --- Handlers ---
	h := handlers.NewHandler(handlers.Deps{
		Store:           st,
		Grid:            cfg.Grid,
		Policy:          policy,
		Syncer:          syncer,
		NotificationSvc: services.NewNotificationService(cfg.TextbeltKey, logger),
		Tokens:          utils.NewTokens(cfg.JWTSecret, 0),
		BcryptCost:      cfg.BcryptCost,
		Logger:          logger,
	})

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
	}))
	h.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "store", cfg.StoreDriver, "sync", source.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
