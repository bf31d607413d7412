package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunLog is the append-only, line-oriented diagnostic log: fetch failures,
// migration events, and per-run summaries. It is write-only; nothing in the
// pipeline reads it back.
type RunLog struct {
	path string
}

// NewRunLog creates a run log at path.
func NewRunLog(path string) *RunLog {
	return &RunLog{path: path}
}

// Append writes one timestamped line. Logging failures are swallowed: the
// diagnostic log must never take the pipeline down.
func (l *RunLog) Append(format string, args ...any) {
	if l == nil || l.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] %s\n", ts, fmt.Sprintf(format, args...))
}
