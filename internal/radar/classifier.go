package radar

import "regexp"

// triggerRule pairs a trigger with the pattern that routes text into it.
type triggerRule struct {
	trigger Trigger
	pattern *regexp.Regexp
}

// triggerRules is evaluated in order and the first match wins. The order is a
// deliberate tie-break policy: a title matching both "bond" and "robotics"
// routes to Funding & Facilities, not Programs & Press.
var triggerRules = []triggerRule{
	{TriggerFunding, regexp.MustCompile(`(?i)\b(levy|bond|millage|capital|facility|facilities|construction|maker(space)?)\b`)},
	{TriggerPolicy, regexp.MustCompile(`(?i)\b(strategic plan|curriculum|policy|computer science requirement|plan)\b`)},
	{TriggerPeople, regexp.MustCompile(`(?i)\b(superintendent|cte director|stem coordinator|hired|appoint(ed|ment))\b`)},
	{TriggerPrograms, regexp.MustCompile(`(?i)\b(robotics|vex|first robotics|stem night|engineering|makerspace|duckbowl)\b`)},
	{TriggerProcurement, regexp.MustCompile(`(?i)\b(rfp|request for proposal|quote|bid|solicitation|purchase)\b`)},
}

// Classify maps free text (title plus link) to a trigger. It is total: text
// matching no rule classifies as Other.
func Classify(text string) Trigger {
	for _, rule := range triggerRules {
		if rule.pattern.MatchString(text) {
			return rule.trigger
		}
	}
	return TriggerOther
}

// Triggers returns every trigger the classifier can produce, in priority
// order, with the Other fallback last.
func Triggers() []Trigger {
	out := make([]Trigger, 0, len(triggerRules)+1)
	for _, rule := range triggerRules {
		out = append(out, rule.trigger)
	}
	return append(out, TriggerOther)
}
