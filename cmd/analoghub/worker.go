package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/analoghub/backend/internal/app"
	"github.com/analoghub/backend/internal/delivery/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run queued batch jobs and the scheduled storage sweep",
	Long: `worker consumes ingestion and resolution jobs enqueued by the API and
enqueues a scratch storage sweep on the configured cron schedule. It stops
on SIGINT or SIGTERM once running jobs finish.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(context.Background(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		scheduler, err := worker.NewScheduler(a.RedisOpt(), cfg.Worker.SweepCron)
		if err != nil {
			return err
		}
		if err := scheduler.Start(); err != nil {
			return err
		}
		defer scheduler.Shutdown()

		log.Printf("[WORKER] Starting with concurrency %d, sweep at %q", cfg.Worker.Concurrency, cfg.Worker.SweepCron)
		server := worker.NewServer(a.RedisOpt(), cfg.Worker.Concurrency)
		return server.Run(worker.NewMux(a.Processor()))
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
