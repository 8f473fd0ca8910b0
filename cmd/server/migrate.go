package main

import (
	"context"
	"time"

	"geofence-bknd/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the PostGIS extension, tables, constraints and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.New(cfg.DatabaseURL, cfg)
		if err != nil {
			logr.Error("failed to connect to database", zap.Error(err))
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if err := database.Migrate(ctx, db); err != nil {
			logr.Error("migration failed", zap.Error(err))
			return err
		}
		logr.Info("migration complete")
		return nil
	},
}
