package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

const omdbAPIURL = "https://www.omdbapi.com/"

// movieDataKey deviates from the DataKey convention for compatibility with
// the summary formatting: the movies capability writes singular "movie_data".
const movieDataKey = "movie_data"

// MoviesOptions configure the movies agent.
type MoviesOptions struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
}

// MoviesAgent searches OMDb for movie and TV information matching the goal.
// Without an API key it serves deterministic mock data.
type MoviesAgent struct {
	opts MoviesOptions
}

// NewMoviesAgent constructs the agent with optional overrides.
func NewMoviesAgent(optFns ...func(o *MoviesOptions)) *MoviesAgent {
	opts := MoviesOptions{
		BaseURL: omdbAPIURL,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &MoviesAgent{opts: opts}
}

// Name implements core.Agent.
func (a *MoviesAgent) Name() string { return core.AgentMovies }

// Process implements core.Agent.
func (a *MoviesAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()

	terms := extractMovieTerms(result.Goal())

	results := map[string]any{}
	for _, term := range terms {
		info, err := a.search(ctx, term)
		if err != nil {
			results[term] = core.ErrorData(err)
			continue
		}
		results[term] = info
	}

	result.Set(movieDataKey, map[string]any{
		"results":      results,
		"search_terms": terms,
	})

	a.opts.Logger.Info("movie lookups completed", "terms", len(terms))

	return result
}

var quotedTitleRe = regexp.MustCompile(`"([^"]+)"`)

var movieKeywords = []string{
	"movie", "film", "cinema", "actor", "actress", "director",
	"tv show", "television", "series", "episode", "season",
	"watch", "streaming", "netflix", "hulu", "amazon prime",
	"disney+", "hbo", "box office", "imdb", "rating", "review",
	"plot", "cast", "character", "genre", "award", "oscar", "emmy",
}

// extractMovieTerms prefers quoted titles; otherwise it strips question
// scaffolding from the goal and searches for the remainder.
func extractMovieTerms(goal string) []string {
	var terms []string

	lower := strings.ToLower(goal)
	matched := false
	for _, kw := range movieKeywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}

	if matched {
		for _, m := range quotedTitleRe.FindAllStringSubmatch(goal, -1) {
			terms = append(terms, m[1])
		}
		if len(terms) == 0 {
			cleaned := lower
			for _, w := range []string{"what", "when", "where", "who", "how", "why", "is", "are", "was", "were", "movie", "film", "show", "about"} {
				cleaned = strings.ReplaceAll(cleaned, " "+w+" ", " ")
			}
			terms = append(terms, strings.TrimSpace(cleaned))
		}
	}

	if len(terms) == 0 {
		terms = append(terms, "popular movies")
	}

	return terms
}

type omdbSearchResponse struct {
	Response string `json:"Response"`
	Search   []struct {
		IMDBID string `json:"imdbID"`
	} `json:"Search"`
}

type omdbDetailResponse struct {
	Response   string `json:"Response"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Awards     string `json:"Awards"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
	BoxOffice  string `json:"BoxOffice"`
	Production string `json:"Production"`
}

func (a *MoviesAgent) search(ctx context.Context, query string) (map[string]any, error) {
	if a.opts.APIKey == "" {
		return a.mockMovie(query), nil
	}

	params := url.Values{}
	params.Set("s", query)
	params.Set("apikey", a.opts.APIKey)
	params.Set("type", "movie")
	params.Set("r", "json")

	var search omdbSearchResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL, params, &search); err != nil {
		return nil, err
	}
	if search.Response != "True" || len(search.Search) == 0 {
		return nil, fmt.Errorf("no movie information found for %q", query)
	}

	params = url.Values{}
	params.Set("i", search.Search[0].IMDBID)
	params.Set("apikey", a.opts.APIKey)
	params.Set("plot", "full")
	params.Set("r", "json")

	var detail omdbDetailResponse
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL, params, &detail); err != nil {
		return nil, err
	}
	if detail.Response != "True" {
		return nil, fmt.Errorf("no movie information found for %q", query)
	}

	return map[string]any{
		"title":       detail.Title,
		"year":        detail.Year,
		"rated":       detail.Rated,
		"released":    detail.Released,
		"runtime":     detail.Runtime,
		"genre":       detail.Genre,
		"director":    detail.Director,
		"actors":      detail.Actors,
		"plot":        detail.Plot,
		"awards":      detail.Awards,
		"poster":      detail.Poster,
		"imdb_rating": detail.IMDBRating,
		"box_office":  detail.BoxOffice,
		"production":  detail.Production,
	}, nil
}

func (a *MoviesAgent) mockMovie(query string) map[string]any {
	if strings.Contains(strings.ToLower(query), "popular") {
		return map[string]any{
			"title":       "The Avengers",
			"year":        "2012",
			"rated":       "PG-13",
			"released":    "04 May 2012",
			"runtime":     "143 min",
			"genre":       "Action, Adventure, Sci-Fi",
			"director":    "Joss Whedon",
			"actors":      "Robert Downey Jr., Chris Evans, Scarlett Johansson",
			"plot":        "Earth's mightiest heroes must come together and learn to fight as a team.",
			"imdb_rating": "8.0",
			"note":        "This is mock data for testing purposes",
		}
	}
	return map[string]any{
		"title":       "Mock Movie: " + query,
		"year":        "2023",
		"rated":       "PG-13",
		"runtime":     "120 min",
		"genre":       "Drama, Comedy",
		"director":    "Mock Director",
		"actors":      "Actor One, Actor Two, Actor Three",
		"plot":        "This is a mock plot for a movie about " + query + ".",
		"imdb_rating": "7.5",
		"note":        "This is mock data for testing purposes",
	}
}
