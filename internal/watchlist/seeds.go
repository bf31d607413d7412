package watchlist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// genericBias is always present in the site-bias clause, ahead of any
// region-specific suffixes.
var genericBias = []string{"site:.k12.us", "site:.gov", "site:.edu"}

// builtinAbbreviations backs the abbreviation fallback when the seeds file is
// missing or invalid.
var builtinAbbreviations = map[string]string{
	"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR",
	"California": "CA", "Colorado": "CO", "Connecticut": "CT", "Delaware": "DE",
	"Florida": "FL", "Georgia": "GA", "Hawaii": "HI", "Idaho": "ID",
	"Illinois": "IL", "Indiana": "IN", "Iowa": "IA", "Kansas": "KS",
	"Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
	"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN",
	"Mississippi": "MS", "Missouri": "MO", "Montana": "MT", "Nebraska": "NE",
	"Nevada": "NV", "New Hampshire": "NH", "New Jersey": "NJ",
	"New Mexico": "NM", "New York": "NY", "North Carolina": "NC",
	"North Dakota": "ND", "Ohio": "OH", "Oklahoma": "OK", "Oregon": "OR",
	"Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
	"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT",
	"Vermont": "VT", "Virginia": "VA", "Washington": "WA",
	"West Virginia": "WV", "Wisconsin": "WI", "Wyoming": "WY",
	"District of Columbia": "DC",
}

// Seeds resolves per-region site biases from the seed documents kept beside
// the roster. Missing seed files degrade to built-in fallbacks.
type Seeds struct {
	bias map[string][]string
	abbr map[string]string
}

// LoadSeeds reads site_bias.json and state_abbr.json from the "seeds"
// directory next to the roster document.
func LoadSeeds(rosterPath string) *Seeds {
	dir := filepath.Join(filepath.Dir(rosterPath), "seeds")

	s := &Seeds{
		bias: map[string][]string{},
		abbr: builtinAbbreviations,
	}

	var bias map[string][]string
	if readSeedJSON(filepath.Join(dir, "site_bias.json"), &bias) && bias != nil {
		s.bias = bias
	}
	var abbr map[string]string
	if readSeedJSON(filepath.Join(dir, "state_abbr.json"), &abbr) && len(abbr) > 0 {
		s.abbr = abbr
	}
	return s
}

func readSeedJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SiteBiasClause builds the "site:..." disjunction for a region: the generic
// suffixes plus either the region's explicit biases or, when none exist, a
// .k12.<abbr>.us suffix derived from the region abbreviation.
func (s *Seeds) SiteBiasClause(region string) string {
	parts := append([]string(nil), genericBias...)

	if region != "" {
		if suffixes, ok := s.bias[region]; ok {
			for _, suffix := range suffixes {
				parts = append(parts, "site:"+strings.TrimPrefix(suffix, "site:"))
			}
		} else if abbr, ok := s.abbr[region]; ok {
			parts = append(parts, fmt.Sprintf("site:.k12.%s.us", strings.ToLower(abbr)))
		}
	}

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return strings.Join(out, " OR ")
}
