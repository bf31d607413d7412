package radar

import (
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Per-factor maxima. The five factors sum to at most 100.
const (
	maxRecency = 25
	maxBudget  = 20
	maxSubject = 20
	maxFit     = 20
	maxSource  = 15
)

var (
	financeRe = regexp.MustCompile(`(?i)\b(levy|bond|millage|budget|appropriation)\b`)
	procureRe = regexp.MustCompile(`(?i)\b(rfp|request for proposal|bid|solicitation|quote)\b`)
	moneyRe   = regexp.MustCompile(`(?i)\$\s?\d|million|m\b`)

	roboticsRe = regexp.MustCompile(`(?i)\brobot(ic|ics)\b`)
	stemRe     = regexp.MustCompile(`(?i)\bstem\b`)
	engRe      = regexp.MustCompile(`(?i)\b(engineering|makerspace|cte|career technical education)\b`)

	blogHostRe = regexp.MustCompile(`\b(blog|medium|substack)\b`)
)

// highTrustMarkers identify government, education, and K-12 district domains.
var highTrustMarkers = []string{".k12.", ".gov", ".edu"}

// newsHints identify domains of known news outlets.
var newsHints = []string{
	"news", "chronicle", "gazette", "press", "daily", "times", "dispatch",
	"beacon", "abc", "nbc", "cbs", "fox", "mlive", "freep",
}

// Scorer computes the five-factor relevance score for candidate items.
// Identical inputs always produce identical output for a fixed clock.
type Scorer struct {
	clock Clock
}

// NewScorer builds a Scorer that measures recency against the given clock.
func NewScorer(clock Clock) *Scorer {
	return &Scorer{clock: clock}
}

// Score computes the total relevance score and its breakdown for one
// candidate. The five sub-scores are independent and order-insensitive; each
// is clamped to its own maximum before summing, so the total is 0-100.
func (s *Scorer) Score(fitRating int, title, link, published string) (int, Breakdown) {
	text := title + " " + link
	br := Breakdown{
		Recency: s.scoreRecency(published),
		Budget:  scoreBudget(text),
		Subject: scoreSubject(text),
		Fit:     scoreFit(fitRating),
		Source:  scoreSource(link),
	}
	return br.Total(), br
}

// scoreRecency buckets the item's age in days. Unparseable timestamps score 0.
func (s *Scorer) scoreRecency(published string) int {
	dt, ok := ParseTimestamp(published)
	if !ok {
		return 0
	}
	days := int(s.clock.Now().Sub(dt).Hours() / 24)
	switch {
	case days <= 3:
		return maxRecency
	case days <= 7:
		return 20
	case days <= 30:
		return 12
	case days <= 90:
		return 6
	default:
		return 0
	}
}

func scoreBudget(text string) int {
	score := 0
	if financeRe.MatchString(text) {
		score += 12
	}
	if procureRe.MatchString(text) {
		score += 8
	}
	if moneyRe.MatchString(text) {
		score += 6
	}
	return min(score, maxBudget)
}

func scoreSubject(text string) int {
	score := 0
	if roboticsRe.MatchString(text) {
		score += 12
	}
	if stemRe.MatchString(text) {
		score += 8
	}
	if engRe.MatchString(text) {
		score += 6
	}
	return min(score, maxSubject)
}

// scoreFit rescales the external 0-100 fit rating linearly onto 0-20.
func scoreFit(rating int) int {
	clamped := min(max(rating, 0), 100)
	return int(math.Round(float64(clamped) * maxFit / 100.0))
}

// scoreSource rates the link's domain: full trust for government/education/
// K-12 suffixes, 12 for known news outlets, 4 for generic blogging platforms,
// 8 as the neutral default, 0 when no domain parses.
func scoreSource(link string) int {
	dom := domainOf(link)
	if dom == "" {
		return 0
	}
	for _, marker := range highTrustMarkers {
		if strings.Contains(dom, marker) {
			return maxSource
		}
	}
	for _, hint := range newsHints {
		if strings.Contains(dom, hint) {
			return 12
		}
	}
	if blogHostRe.MatchString(dom) {
		return 4
	}
	return 8
}

func domainOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// ParseTimestamp parses the ISO-8601 timestamps carried by persisted signals,
// with or without an offset.
func ParseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if dt, err := time.Parse(time.RFC3339, value); err == nil {
		return dt.UTC(), true
	}
	// Offset-less timestamps written by older versions of the store.
	if dt, err := time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(value, "Z")); err == nil {
		return dt.UTC(), true
	}
	return time.Time{}, false
}
