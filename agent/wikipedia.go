package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

const wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

// WikipediaOptions configure the Wikipedia agent.
type WikipediaOptions struct {
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
}

// WikipediaAgent looks up general-knowledge summaries for terms extracted
// from the goal (and the SpaceX mission name when present). No credential
// is required.
type WikipediaAgent struct {
	opts WikipediaOptions
}

// NewWikipediaAgent constructs the agent with optional overrides.
func NewWikipediaAgent(optFns ...func(o *WikipediaOptions)) *WikipediaAgent {
	opts := WikipediaOptions{
		BaseURL: wikipediaAPIURL,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WikipediaAgent{opts: opts}
}

// Name implements core.Agent.
func (a *WikipediaAgent) Name() string { return core.AgentWikipedia }

// Process implements core.Agent.
func (a *WikipediaAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()
	key := core.DataKey(a.Name())

	terms := extractWikipediaTerms(result)

	results := map[string]any{}
	for _, term := range terms {
		entry, err := a.lookup(ctx, term)
		if err != nil {
			results[term] = core.ErrorData(fmt.Errorf("error fetching Wikipedia data for %q: %w", term, err))
			continue
		}
		results[term] = entry
	}

	result.Set(key, map[string]any{
		"results":      results,
		"search_terms": terms,
	})

	a.opts.Logger.Info("wikipedia lookups completed", "terms", len(terms))

	return result
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			FullURL string `json:"fullurl"`
		} `json:"pages"`
	} `json:"query"`
}

// lookup searches for the term and returns the summary of the top hit.
func (a *WikipediaAgent) lookup(ctx context.Context, term string) (map[string]any, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", term)
	params.Set("srlimit", "3")
	params.Set("format", "json")

	var search wikiSearchResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL, params, &search); err != nil {
		return nil, err
	}
	if len(search.Query.Search) == 0 {
		return nil, fmt.Errorf("no Wikipedia results found for %q", term)
	}

	title := search.Query.Search[0].Title

	params = url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|info")
	params.Set("titles", title)
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("exsentences", "5")
	params.Set("inprop", "url")
	params.Set("format", "json")

	var extract wikiExtractResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL, params, &extract); err != nil {
		return nil, err
	}

	for _, page := range extract.Query.Pages {
		if page.Extract == "" {
			continue
		}
		return map[string]any{
			"title":   page.Title,
			"summary": page.Extract,
			"url":     page.FullURL,
		}, nil
	}

	return nil, fmt.Errorf("no summary available for %q", title)
}

var wordRe = regexp.MustCompile(`\b\w+\b`)

// wikipediaStopWords are filtered out before frequency ranking.
var wikipediaStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "because": true, "as": true, "what": true, "when": true,
	"where": true, "how": true, "why": true, "which": true, "who": true,
	"whom": true, "this": true, "that": true, "these": true, "those": true,
	"then": true, "just": true, "so": true, "than": true, "such": true,
	"both": true, "through": true, "about": true, "for": true, "is": true,
	"of": true, "while": true, "during": true, "to": true, "from": true,
	"in": true, "out": true, "on": true, "off": true, "over": true,
	"under": true, "again": true, "further": true, "once": true, "here": true,
	"there": true, "all": true, "any": true, "each": true, "few": true,
	"more": true, "most": true, "other": true, "some": true, "no": true,
	"nor": true, "not": true, "only": true, "own": true, "same": true,
	"too": true, "very": true, "s": true, "t": true, "can": true,
	"will": true, "don": true, "should": true, "now": true, "find": true,
	"get": true, "make": true, "know": true, "take": true, "see": true,
	"come": true, "go": true, "do": true, "be": true, "have": true,
	"may": true, "would": true, "could": true, "shall": true, "might": true,
	"must": true, "need": true, "try": true, "want": true, "use": true,
	"work": true, "seem": true, "like": true, "ask": true, "show": true,
	"tell": true,
}

// extractWikipediaTerms ranks the goal's content words by frequency and adds
// the full goal (when short) plus the SpaceX mission name when available.
func extractWikipediaTerms(c core.Context) []string {
	var terms []string

	goal := c.Goal()
	if goal != "" {
		words := wordRe.FindAllString(strings.ToLower(goal), -1)
		counts := map[string]int{}
		var order []string
		for _, w := range words {
			if wikipediaStopWords[w] || len(w) <= 2 {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
		// Stable rank: frequency descending, first-seen order breaking ties.
		sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
		if len(order) > 3 {
			order = order[:3]
		}
		terms = append(terms, order...)

		if len(strings.Fields(goal)) <= 6 {
			terms = append(terms, goal)
		}
	}

	if c.HasData(core.DataKey(core.AgentSpaceX)) {
		spacex := c.GetMap(core.DataKey(core.AgentSpaceX))
		if mission, _ := spacex["mission_name"].(string); mission != "" && mission != "Unknown" {
			terms = append(terms, mission)
		}
	}

	if len(terms) == 0 {
		terms = append(terms, "general knowledge")
	}

	return terms
}
