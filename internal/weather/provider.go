package weather

import "context"

// Provider abstracts the weather data source. Implementations must return
// hourly forecast points in ascending time order and wrap failures in
// *ProviderError carrying the city name.
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, loc Location) (CurrentConditions, error)
	FetchForecast(ctx context.Context, loc Location, days int) (ForecastData, error)
}
