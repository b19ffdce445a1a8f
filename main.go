package main

import (
	"context"
	"errors"
	"geohash-service/api"
	"geohash-service/cache"
	"geohash-service/config"
	"geohash-service/geoindex"
	"geohash-service/logger"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
)

func main() {
	envErr := loadEnvFile(".env")

	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal(err)
	}
	cfg := config.Cfg
	lg := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		lg.Warn("dotenv_load_failed", "file", ".env", "err", envErr)
	}

	idx, err := geoindex.New(cfg.Index.Technique, geoindex.Options{
		Precision:       cfg.Index.Precision,
		SearchCellLimit: cfg.Index.SearchCellLimit,
	})
	if err != nil {
		log.Fatal(err)
	}

	server := &api.Server{
		Index:          idx,
		IndexPrecision: cfg.Index.Precision,
		MatchPrecision: cfg.Matching.Precision,
		MaxRegionCells: cfg.Geohash.MaxRegionCells,
		Logger:         lg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Redis
	if cfg.Redis.Enabled {
		rc, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			lg.Warn("region_cache_disabled", "addr", cfg.Redis.Addr, "err", err)
		} else {
			defer rc.Close()
			server.Cache = rc
			lg.Info("region_cache_enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.CombinedLoggingHandler(os.Stdout, api.RegisterRoutes(server)),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Error("shutdown_failed", "err", err)
		}
	}()

	lg.Info("server_started", "addr", cfg.Server.Addr, "technique", cfg.Index.Technique, "precision", cfg.Index.Precision)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Error("server_failed", "err", err)
		os.Exit(1)
	}
	lg.Info("server_stopped")
}

// loadEnvFile applies a .env file if there is one.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
