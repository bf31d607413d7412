package cmd

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/archive"
	"github.com/parkerlabs/radar/internal/clock/system"
	"github.com/parkerlabs/radar/internal/config"
	"github.com/parkerlabs/radar/internal/feed"
	"github.com/parkerlabs/radar/internal/metrics"
	"github.com/parkerlabs/radar/internal/notify"
	"github.com/parkerlabs/radar/internal/radar"
	"github.com/parkerlabs/radar/internal/runner"
	"github.com/parkerlabs/radar/internal/store"
	"github.com/parkerlabs/radar/internal/watchlist"
)

type runFlags struct {
	region       string
	subRegion    string
	organization string
	maxItems     int
	sinceDays    int
	threshold    int
	limit        int
}

// newRunCmd creates and configures the 'run' subcommand, which executes one
// full ingestion pass over the watchlist.
func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one ingestion pass over the watchlist",
		Long: `Resolves the watchlist from the roster, queries the news engines per
district, scores and classifies every fresh item, deduplicates into the
signal store, and appends qualifying signals to the intake queue.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.region, "region", "", "only watch districts in this region (e.g. Ohio)")
	cmd.Flags().StringVar(&flags.subRegion, "county", "", "only watch districts in this county")
	cmd.Flags().StringVar(&flags.organization, "district", "", "run for a single district name (exact match)")
	cmd.Flags().IntVar(&flags.maxItems, "max-items", 0, "max feed items per engine per district")
	cmd.Flags().IntVar(&flags.sinceDays, "since-days", 0, "only include items newer than N days")
	cmd.Flags().IntVar(&flags.threshold, "threshold", -1, "signal score required for intake handoff")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "limit the number of watchlist districts")
	return cmd
}

func runPipeline(cmd *cobra.Command, flags runFlags) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	applyRunFlags(&cfg, flags)
	metrics.Init()

	ctx := cmd.Context()
	clock := system.New()

	roster := watchlist.Load(cfg.Roster.Path, logger)
	seeds := watchlist.LoadSeeds(cfg.Roster.Path)
	feedClient := feed.New(feed.Config{
		UserAgent: cfg.Pipeline.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	}, clock)

	stores := &runner.Stores{
		Signals: store.OpenSignals(cfg.SignalsPath(), logger),
		Intake:  store.OpenIntake(cfg.IntakePath(), logger),
	}

	archiver, err := buildArchiver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	stores.Archiver = archiver

	notifier, cleanup, err := buildNotifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}
	stores.Notifier = notifier

	r := runner.New(roster, seeds, feedClient, stores, clock, logger,
		runner.NewRunLog(cfg.RunLogPath()),
		runner.Config{
			MaxItemsPerEngine: cfg.Pipeline.MaxItemsPerEngine,
			FreshnessDays:     cfg.Pipeline.FreshnessDays,
			Threshold:         cfg.Pipeline.Threshold,
			ReportPath:        cfg.ReportPath(),
			ArchivePrefix:     cfg.Archive.Prefix,
		},
	)

	summary, err := r.Run(ctx, radar.WatchFilter{
		Region:       flags.region,
		SubRegion:    flags.subRegion,
		Organization: flags.organization,
		Limit:        cfg.Pipeline.WatchlistLimit,
	})
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	fmt.Printf("Radar finished. New signals: %d\n", len(summary.NewSignals))
	fmt.Printf("- Store:  %s\n- Intake: %s\n- Report: %s\n",
		cfg.SignalsPath(), cfg.IntakePath(), cfg.ReportPath())
	return nil
}

// applyRunFlags lets CLI flags override the corresponding config knobs for
// this run only.
func applyRunFlags(cfg *config.Config, flags runFlags) {
	if flags.maxItems > 0 {
		cfg.Pipeline.MaxItemsPerEngine = flags.maxItems
	}
	if flags.sinceDays > 0 {
		cfg.Pipeline.FreshnessDays = flags.sinceDays
	}
	if flags.threshold >= 0 {
		cfg.Pipeline.Threshold = flags.threshold
	}
	if flags.limit > 0 {
		cfg.Pipeline.WatchlistLimit = flags.limit
	}
}

func buildArchiver(ctx context.Context, cfg config.Config, logger *zap.Logger) (radar.Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	switch cfg.Archive.Backend {
	case "fs":
		logger.Info("archiving feed snapshots to filesystem", zap.String("dir", cfg.Archive.Dir))
		return archive.NewFS(archive.FSConfig{BaseDir: cfg.Archive.Dir})
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create storage client: %w", err)
		}
		logger.Info("archiving feed snapshots to GCS", zap.String("bucket", cfg.Archive.GCSBucket))
		return archive.NewGCS(client, archive.GCSConfig{Bucket: cfg.Archive.GCSBucket})
	default:
		return nil, fmt.Errorf("unknown archive backend: %s", cfg.Archive.Backend)
	}
}

func buildNotifier(ctx context.Context, cfg config.Config, logger *zap.Logger) (radar.Publisher, func(), error) {
	if !cfg.Notify.Enabled {
		return nil, nil, nil
	}
	client, err := pubsub.NewClient(ctx, cfg.Notify.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("create pubsub client: %w", err)
	}
	publisher, err := notify.NewPubSub(client, cfg.Notify.Topic)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("publishing intake handoffs", zap.String("topic", cfg.Notify.Topic))
	cleanup := func() {
		publisher.Stop()
		_ = client.Close()
	}
	return publisher, cleanup, nil
}
