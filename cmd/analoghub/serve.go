package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/analoghub/backend/internal/app"
	httpDelivery "github.com/analoghub/backend/internal/delivery/http"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Run the HTTP API. Requires an auth secret key (auth.secret_key or ANALOGHUB_AUTH_SECRET_KEY) for signing tokens.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log.Printf("Starting AnalogHub Backend %s", version)
		log.Printf("Environment: %s", cfg.Server.Environment)
		log.Printf("Port: %s", cfg.Server.Port)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.OpenStores(ctx); err != nil {
			return err
		}
		handler, err := a.Handler()
		if err != nil {
			return err
		}

		server := &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
			Handler: httpDelivery.SetupRouter(cfg, handler),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("Server listening on %s", server.Addr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
