// Package runner drives one ingestion run: resolve the watchlist, fetch and
// parse feeds per target, classify and score each fresh item, deduplicate
// into the signal store, gate handoffs into the intake queue, then persist
// and regenerate the report.
package runner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/metrics"
	"github.com/parkerlabs/radar/internal/radar"
	"github.com/parkerlabs/radar/internal/report"
)

// Config controls one run.
type Config struct {
	MaxItemsPerEngine int
	FreshnessDays     int
	Threshold         int
	ReportPath        string
	ArchivePrefix     string
}

// summaryTopN bounds the per-run top-signals summary.
const summaryTopN = 5

// Runner executes the ingestion pipeline. Targets are processed strictly
// sequentially; per-item failures never abort the run.
type Runner struct {
	watchlist radar.Watchlist
	bias      radar.BiasResolver
	feed      radar.FeedSource
	scorer    *radar.Scorer
	stores    *Stores
	cfg       Config
	clock     radar.Clock
	logger    *zap.Logger
	runlog    *RunLog
}

// Stores groups the persistence collaborators of a run.
type Stores struct {
	Signals  SignalStore
	Intake   radar.IntakeQueue
	Archiver radar.Archiver  // optional
	Notifier radar.Publisher // optional
}

// SignalStore is the store surface the runner needs, including migration.
type SignalStore interface {
	radar.SignalStore
	Migrate(scorer *radar.Scorer, fit radar.FitSource) int
}

// Summary reports what one run did.
type Summary struct {
	RunID         string
	Targets       int
	NewSignals    []radar.Signal
	TriggerCounts map[radar.Trigger]int
	Top           []radar.Signal
	FetchFailures int
	Migrated      int
}

// New constructs a Runner.
func New(
	watchlist radar.Watchlist,
	bias radar.BiasResolver,
	feed radar.FeedSource,
	stores *Stores,
	clock radar.Clock,
	logger *zap.Logger,
	runlog *RunLog,
	cfg Config,
) *Runner {
	if cfg.MaxItemsPerEngine <= 0 {
		cfg.MaxItemsPerEngine = 6
	}
	if cfg.FreshnessDays <= 0 {
		cfg.FreshnessDays = 120
	}
	return &Runner{
		watchlist: watchlist,
		bias:      bias,
		feed:      feed,
		scorer:    radar.NewScorer(clock),
		stores:    stores,
		cfg:       cfg,
		clock:     clock,
		logger:    logger,
		runlog:    runlog,
	}
}

// Run executes one full pipeline pass. It always terminates and always
// persists whatever it safely computed.
func (r *Runner) Run(ctx context.Context, filter radar.WatchFilter) (Summary, error) {
	started := r.clock.Now()
	summary := Summary{
		RunID:         uuid.NewString(),
		TriggerCounts: map[radar.Trigger]int{},
	}
	logger := r.logger.With(zap.String("run_id", summary.RunID))

	// Backfill records written by older schema versions before anything else
	// touches the collection; persist immediately so the migration sticks
	// even if the rest of the run adds nothing.
	summary.Migrated = r.stores.Signals.Migrate(r.scorer, r.watchlist)
	if summary.Migrated > 0 {
		metrics.ObserveMigrated(summary.Migrated)
		r.runlog.Append("Migrated %d signals to current schema", summary.Migrated)
		if err := r.stores.Signals.Persist(); err != nil {
			return summary, fmt.Errorf("persist migrated store: %w", err)
		}
	}

	targets := r.watchlist.Targets(filter)
	summary.Targets = len(targets)
	if len(targets) == 0 {
		logger.Info("effective watchlist is empty, run is a no-op")
	}

	cutoff := started.AddDate(0, 0, -r.cfg.FreshnessDays)
	for _, target := range targets {
		r.processTarget(ctx, target, cutoff, &summary, logger)
	}

	if err := r.persistAndReport(&summary); err != nil {
		return summary, err
	}

	r.logRunSummary(&summary)
	metrics.ObserveRunDuration(r.clock.Now().Sub(started))
	metrics.SetStoreSize(r.stores.Signals.Len())
	logger.Info("run finished",
		zap.Int("targets", summary.Targets),
		zap.Int("new_signals", len(summary.NewSignals)),
		zap.Int("fetch_failures", summary.FetchFailures),
		zap.Int("migrated", summary.Migrated),
	)
	return summary, nil
}

func (r *Runner) processTarget(
	ctx context.Context,
	target radar.WatchTarget,
	cutoff time.Time,
	summary *Summary,
	logger *zap.Logger,
) {
	for _, query := range radar.BuildQueries(target, r.bias) {
		result, err := r.feed.FetchItems(ctx, query.URL)
		if err != nil {
			summary.FetchFailures++
			metrics.ObserveFetchFailure(query.Engine)
			r.runlog.Append("Fetch error for %s [%s]: %v", target.Organization, query.Engine, err)
			logger.Warn("feed fetch failed",
				zap.String("organization", target.Organization),
				zap.String("engine", query.Engine),
				zap.Error(err),
			)
			continue
		}

		r.archiveSnapshot(ctx, target, query.Engine, summary.RunID, result.Raw, logger)

		items := result.Items
		if len(items) > r.cfg.MaxItemsPerEngine {
			items = items[:r.cfg.MaxItemsPerEngine]
		}
		for _, item := range items {
			if item.Published.Before(cutoff) {
				continue
			}
			r.ingestItem(ctx, target, item, summary, logger)
		}
	}
}

func (r *Runner) ingestItem(
	ctx context.Context,
	target radar.WatchTarget,
	item radar.CandidateItem,
	summary *Summary,
	logger *zap.Logger,
) {
	published := item.Published.UTC().Format(time.RFC3339)
	trigger := radar.Classify(item.Title + " " + item.Link)
	score, breakdown := r.scorer.Score(target.FitRating, item.Title, item.Link, published)

	sig := radar.Signal{
		ID:           radar.Fingerprint(target.Region, target.Organization, item.Title, item.Link),
		Region:       target.Region,
		Organization: target.Organization,
		SubRegion:    target.SubRegion,
		Title:        item.Title,
		Link:         item.Link,
		Published:    published,
		Trigger:      trigger,
		Score:        score,
		Breakdown:    &breakdown,
		CreatedAt:    r.clock.Now().Format(time.RFC3339),
	}

	// Membership covers both previously persisted signals and signals added
	// earlier in this run, so an item seen by two engines lands once.
	if !r.stores.Signals.UpsertIfNew(sig) {
		return
	}

	summary.NewSignals = append(summary.NewSignals, sig)
	summary.TriggerCounts[trigger]++
	metrics.ObserveSignal(string(trigger))

	if score >= r.cfg.Threshold {
		rec := radar.IntakeRecordFor(sig)
		r.stores.Intake.Append(rec)
		metrics.ObserveIntakeHandoff()
		r.notifyHandoff(ctx, rec, logger)
	}
}

func (r *Runner) archiveSnapshot(
	ctx context.Context,
	target radar.WatchTarget,
	engine, runID string,
	raw []byte,
	logger *zap.Logger,
) {
	if r.stores.Archiver == nil || len(raw) == 0 {
		return
	}
	path := fmt.Sprintf("%s/%s/%s/%s-%s.xml",
		r.cfg.ArchivePrefix,
		radar.Slugify(target.Region),
		radar.Slugify(target.Organization),
		runID, engine,
	)
	if _, err := r.stores.Archiver.Store(ctx, path, "application/rss+xml", raw); err != nil {
		logger.Warn("snapshot archive failed", zap.String("path", path), zap.Error(err))
	}
}

func (r *Runner) notifyHandoff(ctx context.Context, rec radar.IntakeRecord, logger *zap.Logger) {
	if r.stores.Notifier == nil {
		return
	}
	if _, err := r.stores.Notifier.Publish(ctx, rec); err != nil {
		logger.Warn("handoff publish failed",
			zap.String("organization", rec.Organization),
			zap.Error(err),
		)
	}
}

func (r *Runner) persistAndReport(summary *Summary) error {
	if err := r.stores.Signals.Persist(); err != nil {
		return fmt.Errorf("persist signal store: %w", err)
	}
	if err := r.stores.Intake.Persist(); err != nil {
		return fmt.Errorf("persist intake queue: %w", err)
	}
	if r.cfg.ReportPath != "" {
		if err := report.Write(r.cfg.ReportPath, r.stores.Signals.All(), r.cfg.Threshold, r.clock.Now()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

// logRunSummary appends per-trigger counts and the top new signals by score
// (ties broken by encounter order) to the diagnostic log.
func (r *Runner) logRunSummary(summary *Summary) {
	if len(summary.NewSignals) == 0 {
		return
	}
	top := append([]radar.Signal(nil), summary.NewSignals...)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Score > top[j].Score
	})
	if len(top) > summaryTopN {
		top = top[:summaryTopN]
	}
	summary.Top = top

	triggers := make([]string, 0, len(summary.TriggerCounts))
	for t := range summary.TriggerCounts {
		triggers = append(triggers, string(t))
	}
	sort.Strings(triggers)

	r.runlog.Append("— Trigger counts this run —")
	for _, t := range triggers {
		r.runlog.Append("  %s: %d", t, summary.TriggerCounts[radar.Trigger(t)])
	}
	r.runlog.Append("— Top %d signals this run —", len(top))
	for _, s := range top {
		r.runlog.Append("  [%d] %s — %s", s.Score, s.Organization, s.Title)
	}
}
