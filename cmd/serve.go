package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/api"
	"github.com/parkerlabs/radar/internal/clock/system"
	"github.com/parkerlabs/radar/internal/metrics"
	"github.com/parkerlabs/radar/internal/store"
)

// newServeCmd exposes the read-only HTTP API over the persisted store.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only signals API and metrics",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			metrics.Init()

			signals := store.OpenSignals(cfg.SignalsPath(), logger)
			server := api.NewServer(signals, cfg.Pipeline.Threshold, system.New(), logger)

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			logger.Info("serving signals API", zap.String("addr", addr), zap.Int("signals", signals.Len()))
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("serve api: %w", err)
			}
			return nil
		},
	}
}
