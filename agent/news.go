package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

const newsAPIURL = "https://newsapi.org/v2"

// NewsOptions configure the news agent.
type NewsOptions struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
	Now     func() time.Time
}

// NewsAgent searches NewsAPI for articles relevant to the goal and to data
// earlier agents placed in the Context (SpaceX mission, launch-site weather).
// Without an API key it serves deterministic mock articles.
type NewsAgent struct {
	opts NewsOptions
}

// NewNewsAgent constructs the agent with optional overrides.
func NewNewsAgent(optFns ...func(o *NewsOptions)) *NewsAgent {
	opts := NewsOptions{
		BaseURL: newsAPIURL,
		Logger:  logging.NoOpLogger{},
		Now:     time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &NewsAgent{opts: opts}
}

// Name implements core.Agent.
func (a *NewsAgent) Name() string { return core.AgentNews }

// Process implements core.Agent.
func (a *NewsAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()
	key := core.DataKey(a.Name())

	queries := a.searchQueries(result)

	var all []map[string]any
	var lookupErr error
	for _, q := range queries {
		articles, err := a.search(ctx, q)
		if err != nil {
			lookupErr = err
			continue
		}
		all = append(all, articles...)
	}

	if len(all) == 0 && lookupErr != nil {
		a.opts.Logger.Warn("news lookup failed", "error", lookupErr)
		result.Set(key, core.ErrorData(fmt.Errorf("failed to get news data: %w", lookupErr)))
		return result
	}

	// Deduplicate by title, keep the five most relevant.
	seen := map[string]bool{}
	var unique []map[string]any
	for _, art := range all {
		title, _ := art["title"].(string)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		unique = append(unique, art)
		if len(unique) == 5 {
			break
		}
	}

	result.Set(key, map[string]any{
		"articles":    unique,
		"query_terms": queries,
	})

	a.opts.Logger.Info("news articles found", "count", len(unique))

	return result
}

// searchQueries derives search terms from the goal and earlier agent output.
func (a *NewsAgent) searchQueries(c core.Context) []string {
	var queries []string

	spacexKey := core.DataKey(core.AgentSpaceX)
	if c.HasData(spacexKey) {
		spacex := c.GetMap(spacexKey)
		if mission, _ := spacex["mission_name"].(string); mission != "" && mission != "Unknown" {
			queries = append(queries, "SpaceX "+mission+" launch")
		}
		queries = append(queries, "SpaceX upcoming launch")
		if site, ok := spacex["launch_site"].(map[string]any); ok {
			if name, _ := site["name"].(string); name != "" && name != "Unknown" {
				queries = append(queries, "SpaceX "+name)
			}
		}

		weatherKey := core.DataKey(core.AgentWeather)
		if c.HasData(weatherKey) {
			weather := c.GetMap(weatherKey)
			if condition, _ := weather["weather_condition"].(string); condition != "" {
				if site, ok := spacex["launch_site"].(map[string]any); ok {
					if loc, _ := site["location"].(string); loc != "" && loc != "Unknown" {
						queries = append(queries, condition+" weather "+loc)
					}
				}
			}
			if assessment, ok := weather["launch_assessment"].(map[string]any); ok {
				if favorable, _ := assessment["favorable"].(bool); !favorable {
					queries = append(queries, "rocket launch weather delay")
				}
			}
		}

		queries = append(queries, "space launch conditions")
		return queries
	}

	// No upstream context: search for the goal itself.
	if goal := c.Goal(); goal != "" {
		queries = append(queries, goal)
	}
	return queries
}

type newsAPIResponse struct {
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (a *NewsAgent) search(ctx context.Context, query string) ([]map[string]any, error) {
	if a.opts.APIKey == "" {
		return a.mockArticles(query), nil
	}

	end := a.opts.Now().UTC()
	start := end.AddDate(0, 0, -7)

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", start.Format("2006-01-02"))
	params.Set("to", end.Format("2006-01-02"))
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("apiKey", a.opts.APIKey)

	var data newsAPIResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/everything", params, &data); err != nil {
		return nil, err
	}

	articles := make([]map[string]any, 0, len(data.Articles))
	for _, art := range data.Articles {
		articles = append(articles, map[string]any{
			"title":        art.Title,
			"source":       art.Source.Name,
			"published_at": art.PublishedAt,
			"url":          art.URL,
			"description":  art.Description,
		})
	}
	return articles, nil
}

func (a *NewsAgent) mockArticles(query string) []map[string]any {
	now := a.opts.Now().UTC().Format(time.RFC3339)
	return []map[string]any{
		{
			"title":        "Latest updates on " + query,
			"source":       "Space News",
			"published_at": now,
			"url":          "https://example.com/mock-article-1",
			"description":  "This is a mock article about " + query + " for testing purposes.",
		},
		{
			"title":        "Analysis: " + query + " implications",
			"source":       "Launch Times",
			"published_at": now,
			"url":          "https://example.com/mock-article-2",
			"description":  "A detailed analysis of " + query + " and its implications for future missions.",
		},
	}
}
