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

func TestSpaceXAgent_Process(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/launches/upcoming", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"name":          "Starlink 6-99",
				"date_utc":      "2026-09-15T14:30:00.000Z",
				"launchpad":     "pad-1",
				"rocket":        "falcon9",
				"details":       "Batch of Starlink satellites.",
				"flight_number": 301,
			},
			{
				"name":      "CRS-40",
				"date_utc":  "2026-10-01T09:00:00.000Z",
				"launchpad": "pad-1",
			},
		})
	})
	mux.HandleFunc("/launchpads/pad-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"name":      "KSC LC 39A",
			"locality":  "Cape Canaveral",
			"region":    "Florida",
			"latitude":  28.6080585,
			"longitude": -80.6039558,
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	agent := NewSpaceXAgent(func(o *SpaceXOptions) {
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	in := core.NewContext("When is the next SpaceX launch?")
	out := agent.Process(context.Background(), in)

	require.True(t, out.HasData("spacex_data"))
	data := out.GetMap("spacex_data")
	assert.Equal(t, "Starlink 6-99", data["mission_name"])
	assert.Equal(t, "2026-09-15 14:30:00 UTC", data["launch_date"])

	site, ok := data["launch_site"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "KSC LC 39A", site["name"])
	assert.Equal(t, "Cape Canaveral", site["location"])
	assert.InDelta(t, 28.6080585, site["latitude"], 1e-9)

	// Input context survives untouched.
	assert.Equal(t, "When is the next SpaceX launch?", out.Goal())
	assert.False(t, in.HasData("spacex_data"))
}

func TestSpaceXAgent_ProcessAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	agent := NewSpaceXAgent(func(o *SpaceXOptions) {
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	out := agent.Process(context.Background(), core.NewContext("next launch"))

	require.Contains(t, out, "spacex_data")
	assert.False(t, out.HasData("spacex_data"))
	data := out.GetMap("spacex_data")
	assert.Contains(t, data["error"], "failed to get SpaceX data")
}

func TestSpaceXAgent_ProcessNoUpcomingLaunches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	agent := NewSpaceXAgent(func(o *SpaceXOptions) {
		o.BaseURL = srv.URL
		o.Client = srv.Client()
	})

	out := agent.Process(context.Background(), core.NewContext("next launch"))
	assert.Equal(t, "no upcoming launches found", out.GetMap("spacex_data")["error"])
}
