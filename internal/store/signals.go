package store

import (
	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/radar"
)

type signalDoc struct {
	Signals []radar.Signal `json:"signals"`
}

// Signals is the persisted, deduplicated collection of every signal ever
// seen. There is exactly one writer per run; the store is not safe for
// concurrent use.
type Signals struct {
	path   string
	doc    signalDoc
	index  map[string]struct{}
	dirty  bool
	logger *zap.Logger
}

// OpenSignals loads the signal store at path, starting from an empty
// collection when the document is absent or unreadable.
func OpenSignals(path string, logger *zap.Logger) *Signals {
	s := &Signals{
		path:   path,
		index:  map[string]struct{}{},
		logger: logger,
	}
	var doc signalDoc
	if loadDoc(path, &doc) {
		s.doc = doc
	} else {
		logger.Info("signal store starting empty", zap.String("path", path))
	}
	for _, sig := range s.doc.Signals {
		s.index[sig.ID] = struct{}{}
	}
	return s
}

// All returns the stored signals in insertion order.
func (s *Signals) All() []radar.Signal {
	return s.doc.Signals
}

// Len reports the store cardinality.
func (s *Signals) Len() int {
	return len(s.doc.Signals)
}

// Contains reports whether an id is already present, counting signals added
// earlier in the same run as well as previously persisted ones.
func (s *Signals) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// UpsertIfNew appends the signal unless its id is already present. It reports
// whether the signal was inserted; duplicates are silently dropped.
func (s *Signals) UpsertIfNew(sig radar.Signal) bool {
	if s.Contains(sig.ID) {
		return false
	}
	s.doc.Signals = append(s.doc.Signals, sig)
	s.index[sig.ID] = struct{}{}
	s.dirty = true
	return true
}

// Migrate backfills Trigger and Breakdown on signals written before those
// fields existed, re-deriving them from each signal's own stored fields. It
// never rewrites a pre-existing value: id, score, and every populated field
// are left byte-identical. Returns the number of migrated signals.
func (s *Signals) Migrate(scorer *radar.Scorer, fit radar.FitSource) int {
	migrated := 0
	for i := range s.doc.Signals {
		sig := &s.doc.Signals[i]
		changed := false
		if sig.Trigger == "" {
			sig.Trigger = radar.Classify(sig.Title + " " + sig.Link)
			changed = true
		}
		if sig.Breakdown == nil {
			_, br := scorer.Score(
				fit.FitRating(sig.Region, sig.Organization),
				sig.Title, sig.Link, sig.Published,
			)
			sig.Breakdown = &br
			changed = true
		}
		if changed {
			migrated++
			s.dirty = true
		}
	}
	return migrated
}

// Dirty reports whether the in-memory collection diverges from disk.
func (s *Signals) Dirty() bool {
	return s.dirty
}

// Persist writes the collection to its canonical path.
func (s *Signals) Persist() error {
	if err := writeDoc(s.path, s.doc); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
