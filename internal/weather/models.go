package weather

import (
	"fmt"
	"time"
)

// Location is a named place with fixed coordinates for which we serve weather.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"latitude"`
	Lon  float64 `json:"longitude"`
}

// ForecastPoint is one hourly reading normalized from the provider.
// Numeric fields are pointers because Open-Meteo may return null for any of
// them; a missing value is never coerced to zero.
type ForecastPoint struct {
	Time                time.Time `json:"time"` // always UTC
	Temperature         *float64  `json:"temperature"`
	Humidity            *float64  `json:"humidity"`
	ApparentTemperature *float64  `json:"apparentTemperature"`
	WeatherCode         *int      `json:"weatherCode"`
	WindSpeed           *float64  `json:"windSpeed"`
}

// CurrentConditions is a current-weather snapshot. It carries the same fields
// as an hourly point plus wind direction, which the hourly feed omits.
type CurrentConditions struct {
	ForecastPoint
	WindDirection *float64 `json:"windDirection"`
}

// DailyPoint is one daily aggregate from the provider.
type DailyPoint struct {
	Date           time.Time `json:"date"`
	TemperatureMax *float64  `json:"temperatureMax"`
	TemperatureMin *float64  `json:"temperatureMin"`
	WeatherCode    *int      `json:"weatherCode"`
	WindSpeedMax   *float64  `json:"windSpeedMax"`
}

// ForecastData bundles the hourly and daily series for a location.
// Hourly entries are ordered by Time ascending.
type ForecastData struct {
	Location Location        `json:"location"`
	Hourly   []ForecastPoint `json:"hourly"`
	Daily    []DailyPoint    `json:"daily"`
}

// LocationNotSupportedError is returned before any network call when a
// requested city is not in the supported-locations table.
type LocationNotSupportedError struct {
	City string
}

func (e *LocationNotSupportedError) Error() string {
	return fmt.Sprintf("ville non supportée: %s", e.City)
}

// ProviderError wraps a weather-provider failure with the city it concerns,
// so batch operations can report per-city failures.
type ProviderError struct {
	City string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("weather provider failed for %s: %v", e.City, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
