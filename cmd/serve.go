package main

import (
	"Nutrition-Tracker/cmd/config"
	"Nutrition-Tracker/internal/utils"
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := config.ConnectDB()
			if err != nil {
				return err
			}

			app, err := config.NewApp(ctx, db)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- app.Listen(":" + utils.GetConfig("APP_PORT"))
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				utils.Log.Info("shutting down")
				return app.ShutdownWithContext(context.Background())
			}
		},
	}
}
