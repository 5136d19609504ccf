package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tasklane/adapter/api"
)

var (
	serveAddr       string
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API on HTTP_ADDR (default 0.0.0.0:3000).

When OUTBOX_PROCESSOR_ENABLED is true the outbox relay runs in the same
process. SIGINT or SIGTERM drains in-flight requests and closes the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		cfg := app.Container.Config

		serverCfg := api.DefaultServerConfig()
		serverCfg.Addr = cfg.HTTPAddr
		if serveAddr != "" {
			serverCfg.Addr = serveAddr
		}
		if cfg.HTTPReadTimeout > 0 {
			serverCfg.ReadTimeout = cfg.HTTPReadTimeout
		}
		if cfg.HTTPWriteTimeout > 0 {
			serverCfg.WriteTimeout = cfg.HTTPWriteTimeout
		}

		app.Container.StartOutboxProcessor(ctx)

		server := api.NewServer(serverCfg, app.Container)
		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		Logger().Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	rootCmd.AddCommand(serveCmd)
}
