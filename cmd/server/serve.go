package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geofence-bknd/internal/database"
	"geofence-bknd/internal/places"
	"geofence-bknd/internal/realtime"
	"geofence-bknd/internal/routes"
	"geofence-bknd/internal/sms"
	"geofence-bknd/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// memoryDSN selects the in-process store instead of Postgres.
const memoryDSN = "memory"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		var st store.Store
		if cfg.DatabaseURL == memoryDSN {
			logr.Warn("using in-memory store, data is lost on exit")
			st = store.NewMemory()
		} else {
			db, err := database.New(cfg.DatabaseURL, cfg)
			if err != nil {
				logr.Error("failed to connect to database", zap.Error(err))
				return err
			}
			defer db.Close()
			st = store.NewPostgres(db)
		}

		var cache places.Cache
		if rdb := places.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
			defer rdb.Close()
			cache = places.NewRedisCache(rdb, cfg.PlacesCacheTTL)
			logr.Info("places cache enabled", zap.String("redis", cfg.RedisAddr))
		}

		r := routes.NewRouter(routes.Deps{
			Store:    st,
			Registry: realtime.NewRegistry(logr),
			SMS: sms.NewTwilio(sms.TwilioOptions{
				AccountSID: cfg.TwilioSID,
				AuthToken:  cfg.TwilioAuthToken,
				BaseURL:    cfg.TwilioBaseURL,
				RatePerSec: cfg.SMSRatePerSec,
			}),
			Places: places.NewClient(places.Options{
				APIKey:   cfg.GeoapifyAPIKey,
				BaseURL:  cfg.GeoapifyBaseURL,
				Category: cfg.PlacesCategory,
				RadiusM:  cfg.PlacesRadiusM,
				Limit:    cfg.PlacesLimit,
			}, cache, logr),
		}, cfg, logr)

		server := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			logr.Info("server started", zap.String("port", cfg.Port))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logr.Fatal("server failed", zap.Error(err))
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logr.Info("shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logr.Error("server forced to shutdown", zap.Error(err))
			return err
		}

		logr.Info("server exited gracefully")
		return nil
	},
}
