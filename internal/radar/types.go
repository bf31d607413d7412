// Package radar defines the core types and interfaces for the signal pipeline.
// It includes the domain records (watch targets, candidate items, signals),
// the trigger classifier, the relevance scorer, and the query builder.
package radar

import "time"

// Trigger is the semantic bucket a signal's text is classified into.
type Trigger string

// Trigger values, in classification priority order. Other is the fallback.
const (
	TriggerFunding     Trigger = "Funding & Facilities"
	TriggerPolicy      Trigger = "Policy & Strategy"
	TriggerPeople      Trigger = "People Moves"
	TriggerPrograms    Trigger = "Programs & Press"
	TriggerProcurement Trigger = "Procurement"
	TriggerOther       Trigger = "Other"
)

// WatchTarget is one organization the pipeline monitors. Targets are supplied
// by the roster and are read-only to the pipeline.
type WatchTarget struct {
	Organization string
	Region       string
	SubRegion    string
	FitRating    int // externally supplied suitability, 0-100
}

// CandidateItem is one parsed feed entry. Candidates are ephemeral: they are
// produced per fetch and never persisted directly.
type CandidateItem struct {
	Title     string
	Link      string
	Published time.Time
}

// Breakdown holds the five sub-scores that sum to a signal's total score.
// The JSON keys match the persisted document shared with sibling tools.
type Breakdown struct {
	Recency int `json:"recency"`
	Budget  int `json:"budget"`
	Subject int `json:"stem"`
	Fit     int `json:"fit"`
	Source  int `json:"source"`
}

// Total returns the sum of the five sub-scores.
func (b Breakdown) Total() int {
	return b.Recency + b.Budget + b.Subject + b.Fit + b.Source
}

// Signal is the persisted unit of work product: one scored, classified news
// item about a watch target. A signal is immutable after creation except for
// schema backfill, which only fills missing Trigger/Breakdown fields.
//
// JSON field names follow the on-disk document contract (the store is shared
// by path with the roster tooling, which predates this service).
type Signal struct {
	ID           string     `json:"id"`
	Region       string     `json:"state"`
	Organization string     `json:"district"`
	SubRegion    string     `json:"source_county,omitempty"`
	Title        string     `json:"title"`
	Link         string     `json:"link"`
	Published    string     `json:"published"`
	Trigger      Trigger    `json:"trigger,omitempty"`
	Score        int        `json:"score"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
	CreatedAt    string     `json:"created_at"`
}

// IntakeRecord is the lighter projection of a Signal handed to downstream
// triage. It carries no id and no breakdown.
type IntakeRecord struct {
	Region       string  `json:"state"`
	Organization string  `json:"district"`
	SubRegion    string  `json:"source_county,omitempty"`
	Title        string  `json:"title"`
	Link         string  `json:"link"`
	Trigger      Trigger `json:"trigger"`
	Score        int     `json:"score"`
	Published    string  `json:"published"`
	CreatedAt    string  `json:"created_at"`
}

// IntakeRecordFor projects a signal into its intake form.
func IntakeRecordFor(sig Signal) IntakeRecord {
	return IntakeRecord{
		Region:       sig.Region,
		Organization: sig.Organization,
		SubRegion:    sig.SubRegion,
		Title:        sig.Title,
		Link:         sig.Link,
		Trigger:      sig.Trigger,
		Score:        sig.Score,
		Published:    sig.Published,
		CreatedAt:    sig.CreatedAt,
	}
}

// EngineQuery is one (engine, request URL) pair produced by the query builder.
type EngineQuery struct {
	Engine string
	URL    string
}

// FeedResult is the outcome of one feed retrieval: the raw document plus the
// candidate items parsed from it.
type FeedResult struct {
	Raw   []byte
	Items []CandidateItem
}

// WatchFilter narrows the effective watchlist for a run. Zero value means the
// whole roster.
type WatchFilter struct {
	Region       string
	SubRegion    string
	Organization string
	Limit        int
}
