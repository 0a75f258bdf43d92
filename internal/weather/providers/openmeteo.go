package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/senalert/alerte-chaleur/internal/weather"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// Open-Meteo is asked for times in the serving region's civil timezone.
	// Africa/Dakar is UTC year-round, so local timestamps parse as UTC.
	timezone = "Africa/Dakar"

	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,wind_direction_10m"
	hourlyFields  = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m"
	dailyFields   = "temperature_2m_max,temperature_2m_min,weather_code,wind_speed_10m_max"

	maxForecastDays = 16
)

// OpenMeteoProvider implements weather.Provider against the Open-Meteo
// forecast API. Open-Meteo requires no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the provider. baseURL may be empty to use the
// public API; tests point it at a local server. rps/burst bound outbound
// request rate (disabled when rps <= 0).
func NewOpenMeteoProvider(client *http.Client, baseURL string, rps float64, burst int) *OpenMeteoProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	var limiter *rate.Limiter
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			Limiter: limiter,
		},
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchCurrent returns the current conditions for a location.
func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentConditions, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(loc.Lat))
	values.Set("longitude", formatCoord(loc.Lon))
	values.Set("current", currentFields)
	values.Set("timezone", timezone)

	resp, err := p.get(ctx, values)
	if err != nil {
		return weather.CurrentConditions{}, &weather.ProviderError{City: loc.Name, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			Time                string   `json:"time"`
			Temperature         *float64 `json:"temperature_2m"`
			Humidity            *float64 `json:"relative_humidity_2m"`
			ApparentTemperature *float64 `json:"apparent_temperature"`
			WeatherCode         *int     `json:"weather_code"`
			WindSpeed           *float64 `json:"wind_speed_10m"`
			WindDirection       *float64 `json:"wind_direction_10m"`
		} `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, &weather.ProviderError{City: loc.Name, Err: err}
	}

	return weather.CurrentConditions{
		ForecastPoint: weather.ForecastPoint{
			Time:                parseLocalTime(payload.Current.Time),
			Temperature:         payload.Current.Temperature,
			Humidity:            payload.Current.Humidity,
			ApparentTemperature: payload.Current.ApparentTemperature,
			WeatherCode:         payload.Current.WeatherCode,
			WindSpeed:           payload.Current.WindSpeed,
		},
		WindDirection: payload.Current.WindDirection,
	}, nil
}

// FetchForecast returns the hourly and daily forecast for a location.
// days is clamped to 1..16.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location, days int) (weather.ForecastData, error) {
	if days < 1 {
		days = 1
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	values := url.Values{}
	values.Set("latitude", formatCoord(loc.Lat))
	values.Set("longitude", formatCoord(loc.Lon))
	values.Set("hourly", hourlyFields)
	values.Set("daily", dailyFields)
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("timezone", timezone)

	resp, err := p.get(ctx, values)
	if err != nil {
		return weather.ForecastData{}, &weather.ProviderError{City: loc.Name, Err: err}
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly struct {
			Time                []string   `json:"time"`
			Temperature         []*float64 `json:"temperature_2m"`
			Humidity            []*float64 `json:"relative_humidity_2m"`
			ApparentTemperature []*float64 `json:"apparent_temperature"`
			WeatherCode         []*int     `json:"weather_code"`
			WindSpeed           []*float64 `json:"wind_speed_10m"`
		} `json:"hourly"`
		Daily struct {
			Time           []string   `json:"time"`
			TemperatureMax []*float64 `json:"temperature_2m_max"`
			TemperatureMin []*float64 `json:"temperature_2m_min"`
			WeatherCode    []*int     `json:"weather_code"`
			WindSpeedMax   []*float64 `json:"wind_speed_10m_max"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastData{}, &weather.ProviderError{City: loc.Name, Err: err}
	}

	data := weather.ForecastData{Location: loc}

	for i, ts := range payload.Hourly.Time {
		data.Hourly = append(data.Hourly, weather.ForecastPoint{
			Time:                parseLocalTime(ts),
			Temperature:         floatAt(payload.Hourly.Temperature, i),
			Humidity:            floatAt(payload.Hourly.Humidity, i),
			ApparentTemperature: floatAt(payload.Hourly.ApparentTemperature, i),
			WeatherCode:         intAt(payload.Hourly.WeatherCode, i),
			WindSpeed:           floatAt(payload.Hourly.WindSpeed, i),
		})
	}

	for i, ts := range payload.Daily.Time {
		data.Daily = append(data.Daily, weather.DailyPoint{
			Date:           parseLocalTime(ts),
			TemperatureMax: floatAt(payload.Daily.TemperatureMax, i),
			TemperatureMin: floatAt(payload.Daily.TemperatureMin, i),
			WeatherCode:    intAt(payload.Daily.WeatherCode, i),
			WindSpeedMax:   floatAt(payload.Daily.WindSpeedMax, i),
		})
	}

	return data, nil
}

func (p *OpenMeteoProvider) get(ctx context.Context, values url.Values) (*http.Response, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
	return doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// parseLocalTime parses Open-Meteo timestamps, which arrive without a zone
// designator in the requested timezone. Dakar local time is UTC. Daily
// entries carry a bare date.
func parseLocalTime(s string) time.Time {
	layouts := []string{"2006-01-02T15:04", time.RFC3339, "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

func floatAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func intAt(values []*int, i int) *int {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
