package store

import (
	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/radar"
)

type intakeDoc struct {
	ToScout []radar.IntakeRecord `json:"to_scout"`
}

// Intake is the append-only queue of signals that cleared the handoff
// threshold. It never deduplicates: the signal store's dedup guarantees each
// qualifying signal is appended at most once, at first creation.
type Intake struct {
	path  string
	doc   intakeDoc
	dirty bool
}

// OpenIntake loads the intake queue at path, starting empty when the document
// is absent or unreadable.
func OpenIntake(path string, logger *zap.Logger) *Intake {
	q := &Intake{path: path}
	var doc intakeDoc
	if loadDoc(path, &doc) {
		q.doc = doc
	} else {
		logger.Info("intake queue starting empty", zap.String("path", path))
	}
	return q
}

// Append adds a record to the end of the queue.
func (q *Intake) Append(rec radar.IntakeRecord) {
	q.doc.ToScout = append(q.doc.ToScout, rec)
	q.dirty = true
}

// All returns the queued records in append order.
func (q *Intake) All() []radar.IntakeRecord {
	return q.doc.ToScout
}

// Len reports the queue length.
func (q *Intake) Len() int {
	return len(q.doc.ToScout)
}

// Persist writes the queue to its canonical path.
func (q *Intake) Persist() error {
	if err := writeDoc(q.path, q.doc); err != nil {
		return err
	}
	q.dirty = false
	return nil
}
