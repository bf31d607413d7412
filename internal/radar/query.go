package radar

import (
	"fmt"
	"net/url"
	"strings"
)

// queryTerms is the fixed disjunction of domain-relevant keywords embedded in
// every search query.
var queryTerms = []string{
	"robotics", "STEM", "engineering", "makerspace", "CTE",
	`"career technical education"`, "levy", "bond", "budget", "millage",
	"RFP", `"request for proposal"`, "grant",
}

// Engine names for the RSS backends queried per target.
const (
	EngineGoogleNews = "gnews"
	EngineBingNews   = "bing"
)

// BuildQueries turns one watch target into the (engine, request URL) pairs to
// fetch. The query quotes the organization name exactly, adds the keyword
// disjunction, a region disjunction, and the region's site-bias clause.
func BuildQueries(target WatchTarget, bias BiasResolver) []EngineQuery {
	name := fmt.Sprintf("%q", target.Organization)
	tail := fmt.Sprintf("(%q OR %s)", target.Region, name)
	terms := strings.Join(queryTerms, " OR ")
	query := fmt.Sprintf("%s (%s) %s (%s)", name, terms, tail, bias.SiteBiasClause(target.Region))

	gnews := url.Values{
		"q":    {query},
		"hl":   {"en-US"},
		"gl":   {"US"},
		"ceid": {"US:en"},
	}
	return []EngineQuery{
		{Engine: EngineGoogleNews, URL: "https://news.google.com/rss/search?" + gnews.Encode()},
		{Engine: EngineBingNews, URL: "https://www.bing.com/news/search?q=" + url.QueryEscape(query) + "&format=rss"},
	}
}
