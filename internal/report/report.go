// Package report renders the signal store as a human-readable Markdown
// digest. Rendering is a pure function of store content.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parkerlabs/radar/internal/radar"
)

// maxEntries bounds the digest to the most recent signals.
const maxEntries = 500

// Render lists signals sorted by creation time descending, each with its
// organization, region, title, trigger, score, and breakdown.
func Render(signals []radar.Signal, threshold int, now time.Time) string {
	sorted := append([]radar.Signal(nil), signals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	if len(sorted) > maxEntries {
		sorted = sorted[:maxEntries]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Radar Report — %s\n", now.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "_Threshold for handoff: %d_\n\n", threshold)
	for _, s := range sorted {
		published := s.Published
		if len(published) > 16 {
			published = published[:16]
		}
		fmt.Fprintf(&b, "- **%s (%s)** — %s  \n", s.Organization, s.Region, s.Title)
		var br radar.Breakdown
		if s.Breakdown != nil {
			br = *s.Breakdown
		}
		fmt.Fprintf(&b, "  - %s • score **%d** (r%d, b%d, s%d, f%d, c%d) • %s  \n",
			triggerLabel(s.Trigger), s.Score,
			br.Recency, br.Budget, br.Subject, br.Fit, br.Source,
			published)
		fmt.Fprintf(&b, "  - %s\n", s.Link)
	}
	return b.String()
}

func triggerLabel(t radar.Trigger) string {
	if t == "" {
		return "?"
	}
	return string(t)
}

// Write regenerates the report document wholesale at path.
func Write(path string, signals []radar.Signal, threshold int, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Render(signals, threshold, now)), 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
