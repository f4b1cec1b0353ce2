package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

const spacexAPIURL = "https://api.spacexdata.com/v4"

// SpaceXOptions configure the SpaceX agent.
type SpaceXOptions struct {
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
}

// SpaceXAgent fetches the next upcoming launch from the r/SpaceX v4 API,
// including launch-pad location details later agents depend on (the weather
// agent reads the site coordinates from spacex_data).
type SpaceXAgent struct {
	opts SpaceXOptions
}

// NewSpaceXAgent constructs the agent with optional overrides.
func NewSpaceXAgent(optFns ...func(o *SpaceXOptions)) *SpaceXAgent {
	opts := SpaceXOptions{
		BaseURL: spacexAPIURL,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &SpaceXAgent{opts: opts}
}

// Name implements core.Agent.
func (a *SpaceXAgent) Name() string { return core.AgentSpaceX }

type spacexLaunch struct {
	Name         string `json:"name"`
	DateUTC      string `json:"date_utc"`
	Launchpad    string `json:"launchpad"`
	Rocket       string `json:"rocket"`
	Details      string `json:"details"`
	FlightNumber int    `json:"flight_number"`
}

type spacexLaunchpad struct {
	Name      string  `json:"name"`
	Locality  string  `json:"locality"`
	Region    string  `json:"region"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Process implements core.Agent.
func (a *SpaceXAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()

	launch, pad, err := a.nextLaunch(ctx)
	if err != nil {
		a.opts.Logger.Warn("spacex lookup failed", "error", err)
		result.Set(core.DataKey(a.Name()), core.ErrorData(err))
		return result
	}

	launchDate := "Unknown"
	if launch.DateUTC != "" {
		if t, perr := time.Parse(time.RFC3339, launch.DateUTC); perr == nil {
			launchDate = t.UTC().Format("2006-01-02 15:04:05 UTC")
		}
	}

	details := launch.Details
	if details == "" {
		details = "No details available"
	}

	result.Set(core.DataKey(a.Name()), map[string]any{
		"mission_name": launch.Name,
		"launch_date":  launchDate,
		"launch_site": map[string]any{
			"name":      pad.Name,
			"location":  pad.Locality,
			"region":    pad.Region,
			"latitude":  pad.Latitude,
			"longitude": pad.Longitude,
		},
		"rocket":        launch.Rocket,
		"details":       details,
		"flight_number": launch.FlightNumber,
	})

	a.opts.Logger.Info("spacex found next launch", "mission", launch.Name, "date", launchDate)

	return result
}

// nextLaunch returns the soonest upcoming launch and its launchpad.
func (a *SpaceXAgent) nextLaunch(ctx context.Context) (*spacexLaunch, *spacexLaunchpad, error) {
	var launches []spacexLaunch
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/launches/upcoming", nil, &launches); err != nil {
		return nil, nil, fmt.Errorf("failed to get SpaceX data: %w", err)
	}
	if len(launches) == 0 {
		return nil, nil, errors.New("no upcoming launches found")
	}

	sort.Slice(launches, func(i, j int) bool { return launches[i].DateUTC < launches[j].DateUTC })
	next := launches[0]

	pad := &spacexLaunchpad{Name: "Unknown", Locality: "Unknown", Region: "Unknown"}
	if next.Launchpad != "" {
		fetched := new(spacexLaunchpad)
		if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/launchpads/"+next.Launchpad, nil, fetched); err == nil {
			pad = fetched
		}
	}

	return &next, pad, nil
}
