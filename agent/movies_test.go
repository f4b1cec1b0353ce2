package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalmesh/goalmesh/core"
)

func TestExtractMovieTerms(t *testing.T) {
	t.Run("prefers quoted titles", func(t *testing.T) {
		terms := extractMovieTerms(`Tell me about the movie "Interstellar"`)
		assert.Equal(t, []string{"Interstellar"}, terms)
	})

	t.Run("strips question scaffolding", func(t *testing.T) {
		terms := extractMovieTerms("what is the movie inception about")
		require.Len(t, terms, 1)
		assert.Contains(t, terms[0], "inception")
	})

	t.Run("defaults to popular movies", func(t *testing.T) {
		assert.Equal(t, []string{"popular movies"}, extractMovieTerms("how tall is the eiffel tower"))
	})
}

func TestMoviesAgent_ProcessMockWithoutAPIKey(t *testing.T) {
	agent := NewMoviesAgent()

	out := agent.Process(context.Background(), core.NewContext("recommend popular movies"))

	require.True(t, out.HasData("movie_data"))
	results := out.GetMap("movie_data")["results"].(map[string]any)
	entry := results["popular movies"].(map[string]any)
	assert.Equal(t, "The Avengers", entry["title"])
	assert.Equal(t, "This is mock data for testing purposes", entry["note"])
}

func TestMoviesAgent_Process(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("s") != "" {
			json.NewEncoder(w).Encode(map[string]any{
				"Response": "True",
				"Search":   []map[string]any{{"imdbID": "tt0816692"}},
			})
			return
		}
		assert.Equal(t, "tt0816692", q.Get("i"))
		json.NewEncoder(w).Encode(map[string]any{
			"Response":   "True",
			"Title":      "Interstellar",
			"Year":       "2014",
			"Genre":      "Adventure, Drama, Sci-Fi",
			"Director":   "Christopher Nolan",
			"imdbRating": "8.7",
		})
	}))
	defer srv.Close()

	agent := NewMoviesAgent(func(o *MoviesOptions) {
		o.APIKey = "key"
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	out := agent.Process(context.Background(), core.NewContext(`Tell me about the movie "Interstellar"`))

	results := out.GetMap("movie_data")["results"].(map[string]any)
	entry := results["Interstellar"].(map[string]any)
	assert.Equal(t, "Interstellar", entry["title"])
	assert.Equal(t, "Christopher Nolan", entry["director"])
	assert.Equal(t, "8.7", entry["imdb_rating"])
}

func TestMoviesAgent_ProcessNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"Response": "False"})
	}))
	defer srv.Close()

	agent := NewMoviesAgent(func(o *MoviesOptions) {
		o.APIKey = "key"
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	out := agent.Process(context.Background(), core.NewContext(`Tell me about the movie "Nope Not Real"`))

	results := out.GetMap("movie_data")["results"].(map[string]any)
	entry := results["Nope Not Real"].(map[string]any)
	assert.Contains(t, entry["error"], "no movie information found")
}
