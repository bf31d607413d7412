package radar

import (
	"context"
	"time"
)

// Watchlist supplies the ordered watch targets for a run and fit ratings for
// individual (region, organization) pairs.
type Watchlist interface {
	Targets(filter WatchFilter) []WatchTarget
	FitRating(region, organization string) int
}

// FitSource looks up the externally supplied fit rating for a target.
// Unknown targets report the neutral default of 50.
type FitSource interface {
	FitRating(region, organization string) int
}

// BiasResolver yields the search-engine site-bias clause for a region.
type BiasResolver interface {
	SiteBiasClause(region string) string
}

// FeedSource retrieves one feed URL and parses it into candidate items.
type FeedSource interface {
	FetchItems(ctx context.Context, url string) (FeedResult, error)
}

// SignalStore owns the persisted, deduplicated collection of signals.
type SignalStore interface {
	All() []Signal
	Len() int
	UpsertIfNew(sig Signal) bool
	Persist() error
}

// IntakeQueue is the append-only collection of signals that cleared the
// handoff threshold.
type IntakeQueue interface {
	Append(rec IntakeRecord)
	Persist() error
}

// Archiver stores a raw feed snapshot and returns its URI.
type Archiver interface {
	Store(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes intake handoff events to a downstream topic.
type Publisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
