package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/analoghub/backend/internal/infrastructure/storage"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stale scratch files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		maxAge := cfg.Storage.MaxAge
		if cmd.Flags().Changed("max-age") {
			maxAge, _ = cmd.Flags().GetDuration("max-age")
		}

		store, err := storage.New(cfg.Storage.Dir)
		if err != nil {
			return err
		}
		_, err = store.Sweep(maxAge, time.Now())
		return err
	},
}

func init() {
	sweepCmd.Flags().Duration("max-age", time.Hour, "remove entries last modified longer ago than this")
	rootCmd.AddCommand(sweepCmd)
}
