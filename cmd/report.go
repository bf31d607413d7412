package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parkerlabs/radar/internal/clock/system"
	"github.com/parkerlabs/radar/internal/report"
	"github.com/parkerlabs/radar/internal/store"
)

// newReportCmd regenerates the Markdown digest from the persisted store
// without running the pipeline.
func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Regenerate the Markdown digest from the signal store",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			signals := store.OpenSignals(cfg.SignalsPath(), logger)
			if err := report.Write(cfg.ReportPath(), signals.All(), cfg.Pipeline.Threshold, system.New().Now()); err != nil {
				return err
			}
			fmt.Printf("Report written: %s (%d signals)\n", cfg.ReportPath(), signals.Len())
			return nil
		},
	}
}
