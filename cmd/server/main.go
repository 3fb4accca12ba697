package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"safepay/config"
	"safepay/internal/classifier"
	"safepay/internal/database"
	"safepay/internal/logging"
	"safepay/internal/repository"
	"safepay/internal/repository/docstore"
	"safepay/internal/repository/memstore"
	"safepay/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Server.Env, cfg.Log.Level)
	slog.SetDefault(log)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	engine, stopRouter := router.Setup(cfg, store, newClassifier(cfg, log), log)
	defer stopRouter()
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info("server listening", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
		return
	}
	log.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on exit")
		return memstore.New(), func() {}, nil
	case config.DriverFirestore:
		client, err := database.NewFirestore(ctx, &cfg.Firebase)
		if err != nil {
			return nil, nil, err
		}
		return docstore.New(client), func() { _ = client.Close() }, nil
	default:
		db, err := database.NewDB(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormStore(db), closeDB, nil
	}
}

// newClassifier uses the remote scoring service when one is configured and
// the local rule scorer otherwise.
func newClassifier(cfg *config.Config, log *slog.Logger) classifier.Classifier {
	if cfg.Classifier.URL == "" {
		log.Info("no CLASSIFIER_URL set, using rule-based classifier")
		return classifier.NewRuleClassifier()
	}
	remote := classifier.NewHTTPClassifier(cfg.Classifier.URL, cfg.Classifier.Timeout)
	if cfg.Classifier.Fallback {
		return classifier.NewFallback(remote, log)
	}
	return remote
}
