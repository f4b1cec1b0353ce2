package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goalmesh/goalmesh/core"
	"github.com/goalmesh/goalmesh/logging"
)

const openWeatherAPIURL = "https://api.openweathermap.org/data/2.5"

// Winds above ~8.3 m/s (30 km/h) are treated as a launch concern.
const maxFavorableWind = 8.3

// WeatherOptions configure the weather agent.
type WeatherOptions struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
	Now     func() time.Time
}

// WeatherAgent fetches OpenWeatherMap conditions for the launch site recorded
// by the SpaceX agent and assesses whether they are favorable for a launch.
// It depends on spacex_data being present in the Context; plan ordering is
// what establishes that dependency.
type WeatherAgent struct {
	opts WeatherOptions
}

// NewWeatherAgent constructs the agent with optional overrides.
func NewWeatherAgent(optFns ...func(o *WeatherOptions)) *WeatherAgent {
	opts := WeatherOptions{
		BaseURL: openWeatherAPIURL,
		Logger:  logging.NoOpLogger{},
		Now:     time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WeatherAgent{opts: opts}
}

// Name implements core.Agent.
func (a *WeatherAgent) Name() string { return core.AgentWeather }

// Process implements core.Agent.
func (a *WeatherAgent) Process(ctx context.Context, in core.Context) core.Context {
	result := in.Clone()
	key := core.DataKey(a.Name())

	if !result.HasData(core.DataKey(core.AgentSpaceX)) {
		result.Set(key, core.ErrorData(errors.New("no SpaceX launch data available")))
		return result
	}

	spacex := result.GetMap(core.DataKey(core.AgentSpaceX))
	site, _ := spacex["launch_site"].(map[string]any)
	lat, latOK := toFloat(site["latitude"])
	lon, lonOK := toFloat(site["longitude"])
	if !latOK || !lonOK || (lat == 0 && lon == 0) {
		result.Set(key, core.ErrorData(errors.New("launch site coordinates not available")))
		return result
	}

	if a.opts.APIKey == "" {
		result.Set(key, core.ErrorData(errors.New("OPENWEATHER_API_KEY not set")))
		return result
	}

	weather, err := a.lookup(ctx, lat, lon, spacex)
	if err != nil {
		a.opts.Logger.Warn("weather lookup failed", "error", err)
		result.Set(key, core.ErrorData(fmt.Errorf("failed to get weather data: %w", err)))
		return result
	}

	weather["launch_assessment"] = assessLaunchConditions(weather)
	result.Set(key, weather)

	a.opts.Logger.Info("weather data retrieved", "site", site["name"])

	return result
}

// lookup picks forecast vs current conditions based on how far out the launch is.
func (a *WeatherAgent) lookup(ctx context.Context, lat, lon float64, spacex map[string]any) (map[string]any, error) {
	launchDate, _ := spacex["launch_date"].(string)
	if launchDate != "" && launchDate != "Unknown" {
		if t, err := time.Parse("2006-01-02 15:04:05 UTC", launchDate); err == nil {
			daysUntil := int(t.Sub(a.opts.Now().UTC()).Hours() / 24)
			if daysUntil >= 0 && daysUntil <= 5 {
				return a.forecast(ctx, lat, lon, daysUntil)
			}
			w, err := a.current(ctx, lat, lon)
			if err == nil {
				w["note"] = "Launch date is more than 5 days away, showing current weather only"
			}
			return w, err
		}
		w, err := a.current(ctx, lat, lon)
		if err == nil {
			w["note"] = "Could not parse launch date, showing current weather only"
		}
		return w, err
	}

	w, err := a.current(ctx, lat, lon)
	if err == nil {
		w["note"] = "No launch date available, showing current weather only"
	}
	return w, err
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmCurrent struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Weather    []owmCondition        `json:"weather"`
	Clouds     struct{ All float64 } `json:"clouds"`
	Visibility float64               `json:"visibility"`
	DT         int64                 `json:"dt"`
}

func (a *WeatherAgent) current(ctx context.Context, lat, lon float64) (map[string]any, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", a.opts.APIKey)
	params.Set("units", "metric")

	var data owmCurrent
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/weather", params, &data); err != nil {
		return nil, err
	}

	condition := owmCondition{}
	if len(data.Weather) > 0 {
		condition = data.Weather[0]
	}

	return map[string]any{
		"type":                "current",
		"temperature":         data.Main.Temp,
		"feels_like":          data.Main.FeelsLike,
		"humidity":            data.Main.Humidity,
		"pressure":            data.Main.Pressure,
		"wind_speed":          data.Wind.Speed,
		"wind_direction":      data.Wind.Deg,
		"weather_condition":   condition.Main,
		"weather_description": condition.Description,
		"clouds":              data.Clouds.All,
		"visibility":          data.Visibility,
		"timestamp":           time.Unix(data.DT, 0).UTC().Format("2006-01-02 15:04:05 UTC"),
	}, nil
}

type owmForecast struct {
	List []struct {
		DT   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []owmCondition        `json:"weather"`
		Clouds  struct{ All float64 } `json:"clouds"`
		POP     float64               `json:"pop"`
	} `json:"list"`
}

func (a *WeatherAgent) forecast(ctx context.Context, lat, lon float64, daysAhead int) (map[string]any, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("appid", a.opts.APIKey)
	params.Set("units", "metric")

	var data owmForecast
	if err := getJSON(ctx, a.opts.Client, a.opts.BaseURL+"/forecast", params, &data); err != nil {
		return nil, err
	}

	targetDate := a.opts.Now().UTC().AddDate(0, 0, daysAhead).Format("2006-01-02")

	var (
		temps      []float64
		maxWind    float64
		conditions = map[string]int{}
		detailed   []map[string]any
	)
	entries := 0
	for _, item := range data.List {
		ts := time.Unix(item.DT, 0).UTC()
		if ts.Format("2006-01-02") != targetDate {
			continue
		}
		entries++
		temps = append(temps, item.Main.Temp)
		if item.Wind.Speed > maxWind {
			maxWind = item.Wind.Speed
		}
		condition := owmCondition{}
		if len(item.Weather) > 0 {
			condition = item.Weather[0]
		}
		conditions[condition.Main]++
		if len(detailed) < 3 {
			detailed = append(detailed, map[string]any{
				"time":                      ts.Format("15:04 UTC"),
				"temperature":               item.Main.Temp,
				"weather_condition":         condition.Main,
				"weather_description":       condition.Description,
				"wind_speed":                item.Wind.Speed,
				"clouds":                    item.Clouds.All,
				"precipitation_probability": item.POP * 100,
			})
		}
	}

	if entries == 0 {
		return nil, fmt.Errorf("no forecast available for %d days ahead", daysAhead)
	}

	var avgTemp float64
	for _, t := range temps {
		avgTemp += t
	}
	avgTemp /= float64(len(temps))

	mostCommon := ""
	best := 0
	for cond, n := range conditions {
		if n > best {
			best = n
			mostCommon = cond
		}
	}

	return map[string]any{
		"type":              "forecast",
		"forecast_date":     targetDate,
		"days_ahead":        daysAhead,
		"avg_temperature":   avgTemp,
		"max_wind_speed":    maxWind,
		"weather_condition": mostCommon,
		"forecast_entries":  entries,
		"detailed_forecast": detailed,
	}, nil
}

// assessLaunchConditions applies the wind / condition / visibility rules used
// to judge whether the launch may be delayed.
func assessLaunchConditions(weather map[string]any) map[string]any {
	assessment := map[string]any{
		"favorable": true,
		"concerns":  []string{},
		"summary":   "",
	}
	var concerns []string

	var windSpeed float64
	var visibility float64
	condition, _ := weather["weather_condition"].(string)

	if weather["type"] == "current" {
		windSpeed, _ = toFloat(weather["wind_speed"])
		visibility, _ = toFloat(weather["visibility"])
	} else {
		windSpeed, _ = toFloat(weather["max_wind_speed"])
	}

	if windSpeed > maxFavorableWind {
		concerns = append(concerns, fmt.Sprintf("High winds (%.1f m/s)", windSpeed))
	}

	unfavorable := []string{"thunderstorm", "rain", "snow", "tornado", "hurricane", "storm"}
	for _, bad := range unfavorable {
		if condition != "" && strings.Contains(strings.ToLower(condition), bad) {
			concerns = append(concerns, "Unfavorable weather condition: "+condition)
			break
		}
	}

	if visibility > 0 && visibility < 10000 {
		concerns = append(concerns, fmt.Sprintf("Low visibility (%.1f km)", visibility/1000))
	}

	if len(concerns) == 0 {
		assessment["summary"] = "Weather conditions appear favorable for launch"
	} else {
		assessment["favorable"] = false
		assessment["concerns"] = concerns
		assessment["summary"] = "Weather conditions may cause launch delays: " + strings.Join(concerns, ", ")
	}

	return assessment
}

// toFloat coerces the numeric types JSON decoding and agents produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
