// Package watchlist reads the external roster and seed documents that feed
// the pipeline: watch targets, fit ratings, and per-region site biases.
package watchlist

import (
	"encoding/json"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/parkerlabs/radar/internal/radar"
)

// defaultFitRating is assumed for targets the roster does not know.
const defaultFitRating = 50

type rosterDoc struct {
	States map[string]rosterState `json:"states"`
}

type rosterState struct {
	Districts []rosterDistrict `json:"districts"`
}

type rosterDistrict struct {
	District       string   `json:"district"`
	FitScore       *int     `json:"fit_score"`
	SourceCounty   string   `json:"source_county"`
	SourceCounties []string `json:"source_counties"`
}

// subRegion falls back to the first listed county when the primary is absent.
func (d rosterDistrict) subRegion() string {
	if d.SourceCounty != "" {
		return d.SourceCounty
	}
	if len(d.SourceCounties) > 0 {
		return d.SourceCounties[0]
	}
	return ""
}

func (d rosterDistrict) matchesSubRegion(sub string) bool {
	if d.SourceCounty == sub {
		return true
	}
	for _, c := range d.SourceCounties {
		if c == sub {
			return true
		}
	}
	return false
}

func (d rosterDistrict) fitRating() int {
	if d.FitScore == nil {
		return defaultFitRating
	}
	return *d.FitScore
}

// Roster is the read-only watchlist provider backed by the roster document.
// A missing or unreadable document yields an empty roster, never an error:
// the run then completes as a no-op.
type Roster struct {
	doc rosterDoc
}

// Load reads the roster document at path.
func Load(path string, logger *zap.Logger) *Roster {
	r := &Roster{doc: rosterDoc{States: map[string]rosterState{}}}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("roster unavailable, watchlist is empty", zap.String("path", path), zap.Error(err))
		return r
	}
	var doc rosterDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("roster unreadable, watchlist is empty", zap.String("path", path), zap.Error(err))
		return r
	}
	if doc.States != nil {
		r.doc = doc
	}
	return r
}

// Targets returns the effective watchlist for a run. A filter naming an
// organization directly bypasses the roster and yields that single target.
func (r *Roster) Targets(filter radar.WatchFilter) []radar.WatchTarget {
	if filter.Organization != "" {
		return []radar.WatchTarget{{
			Organization: filter.Organization,
			Region:       filter.Region,
			SubRegion:    filter.SubRegion,
			FitRating:    r.FitRating(filter.Region, filter.Organization),
		}}
	}

	var out []radar.WatchTarget
	appendState := func(region string, st rosterState) {
		for _, d := range st.Districts {
			if d.District == "" {
				continue
			}
			if filter.SubRegion != "" && !d.matchesSubRegion(filter.SubRegion) {
				continue
			}
			out = append(out, radar.WatchTarget{
				Organization: d.District,
				Region:       region,
				SubRegion:    d.subRegion(),
				FitRating:    d.fitRating(),
			})
		}
	}

	if filter.Region != "" {
		appendState(filter.Region, r.doc.States[filter.Region])
	} else {
		// Deterministic order across runs: region name, then roster order.
		regions := make([]string, 0, len(r.doc.States))
		for region := range r.doc.States {
			regions = append(regions, region)
		}
		sort.Strings(regions)
		for _, region := range regions {
			appendState(region, r.doc.States[region])
		}
	}

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

// FitRating looks up the fit rating by exact organization name within a
// region. Unknown targets report the neutral default.
func (r *Roster) FitRating(region, organization string) int {
	for _, d := range r.doc.States[region].Districts {
		if d.District == organization {
			return d.fitRating()
		}
	}
	return defaultFitRating
}
