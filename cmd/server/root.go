package main

import (
	"os"

	"geofence-bknd/internal/config"
	"geofence-bknd/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg  *config.Config
	logr *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geofence-bknd",
	Short: "Geofence evaluation and emergency alert backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logr = logger.New(cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logr.Sync()
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
