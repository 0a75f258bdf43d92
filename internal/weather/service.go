package weather

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/senalert/alerte-chaleur/internal/notify"
	"github.com/senalert/alerte-chaleur/internal/store"
)

// CurrentCache is the optional read-through cache for current conditions.
type CurrentCache interface {
	Get(ctx context.Context, city string, v interface{}) bool
	Set(ctx context.Context, city string, v interface{})
}

// AlertPublisher is the optional sink for raised-alert events.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, ev notify.AlertEvent) error
}

// ServiceOptions holds the optional collaborators of a Service.
type ServiceOptions struct {
	Cache       CurrentCache
	Publisher   AlertPublisher
	WindowHours int // detector scan horizon; DefaultWindowHours when <= 0
}

// Service orchestrates the provider, the risk classifier, the heat-wave
// detector, and the persistence stores.
type Service struct {
	provider    Provider
	alerts      store.AlertStore
	history     store.HistoryStore
	cache       CurrentCache
	publisher   AlertPublisher
	windowHours int
}

// NewService creates a new Service.
func NewService(provider Provider, alerts store.AlertStore, history store.HistoryStore, opts ServiceOptions) *Service {
	windowHours := opts.WindowHours
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}
	return &Service{
		provider:    provider,
		alerts:      alerts,
		history:     history,
		cache:       opts.Cache,
		publisher:   opts.Publisher,
		windowHours: windowHours,
	}
}

// CurrentReport is a current-conditions snapshot decorated with its WMO
// description and heat-risk assessment.
type CurrentReport struct {
	CurrentConditions
	WeatherDescription WeatherCodeInfo `json:"weatherDescription"`
	HeatRisk           RiskAssessment  `json:"heatRisk"`
}

// CityWeather is the full current-weather response for one city.
type CityWeather struct {
	City      string        `json:"city"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Current   CurrentReport `json:"current"`
}

// HourlyReport is one decorated hourly forecast entry.
type HourlyReport struct {
	ForecastPoint
	WeatherDescription WeatherCodeInfo `json:"weatherDescription"`
	HeatRisk           RiskAssessment  `json:"heatRisk"`
}

// DailyReport is one decorated daily forecast entry. Its risk is derived
// from the daily maximum temperature.
type DailyReport struct {
	DailyPoint
	WeatherDescription WeatherCodeInfo `json:"weatherDescription"`
	HeatRisk           RiskAssessment  `json:"heatRisk"`
}

// ForecastReport is the full forecast response for one city.
type ForecastReport struct {
	City      string         `json:"city"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Hourly    []HourlyReport `json:"hourly"`
	Daily     []DailyReport  `json:"daily"`
}

// CityResult is one settled entry of a batch fetch: either data or an error,
// never both.
type CityResult struct {
	City    string       `json:"city"`
	Success bool         `json:"success"`
	Data    *CityWeather `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// BatchSummary counts outcomes of a batch fetch.
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// UpdateFailure is one failed city in an update run.
type UpdateFailure struct {
	City  string `json:"city"`
	Error string `json:"error"`
}

// UpdateSummary reports the outcome of a full refresh across all cities.
type UpdateSummary struct {
	Successful []string        `json:"successfulCities"`
	Failed     []UpdateFailure `json:"failedCities"`
}

// CurrentWeather returns current conditions for a supported city, serving
// from the cache when possible and appending a history snapshot on fresh
// fetches.
func (s *Service) CurrentWeather(ctx context.Context, city string) (*CityWeather, error) {
	return s.currentWeather(ctx, city, true)
}

func (s *Service) currentWeather(ctx context.Context, city string, useCache bool) (*CityWeather, error) {
	loc, ok := LookupCity(city)
	if !ok {
		return nil, &LocationNotSupportedError{City: city}
	}

	if useCache && s.cache != nil {
		var cached CityWeather
		if s.cache.Get(ctx, loc.Name, &cached) {
			return &cached, nil
		}
	}

	current, err := s.provider.FetchCurrent(ctx, loc)
	if err != nil {
		return nil, err
	}

	report := &CityWeather{
		City:      loc.Name,
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		Current: CurrentReport{
			CurrentConditions:  current,
			WeatherDescription: DescribeWeatherCode(current.WeatherCode),
			HeatRisk:           ClassifyHeatRiskReading(current.Temperature, current.ApparentTemperature),
		},
	}

	// Write-through to history is best effort; the read already succeeded.
	if err := s.history.SaveSnapshot(ctx, snapshotRecord(loc, report.Current)); err != nil {
		log.Printf("weather: history write failed for %s: %v", loc.Name, err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, loc.Name, report)
	}

	return report, nil
}

// Forecast returns the hourly and daily forecast for a supported city, each
// point decorated with its weather description and heat-risk assessment.
func (s *Service) Forecast(ctx context.Context, city string, days int) (*ForecastReport, error) {
	loc, ok := LookupCity(city)
	if !ok {
		return nil, &LocationNotSupportedError{City: city}
	}

	data, err := s.provider.FetchForecast(ctx, loc, days)
	if err != nil {
		return nil, err
	}

	report := &ForecastReport{
		City:      loc.Name,
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		Hourly:    make([]HourlyReport, 0, len(data.Hourly)),
		Daily:     make([]DailyReport, 0, len(data.Daily)),
	}

	for _, p := range data.Hourly {
		report.Hourly = append(report.Hourly, HourlyReport{
			ForecastPoint:      p,
			WeatherDescription: DescribeWeatherCode(p.WeatherCode),
			HeatRisk:           ClassifyHeatRiskReading(p.Temperature, p.ApparentTemperature),
		})
	}

	for _, d := range data.Daily {
		report.Daily = append(report.Daily, DailyReport{
			DailyPoint:         d,
			WeatherDescription: DescribeWeatherCode(d.WeatherCode),
			HeatRisk:           ClassifyHeatRiskReading(d.TemperatureMax, d.TemperatureMax),
		})
	}

	return report, nil
}

// AllCitiesWeather fetches current conditions for every supported city
// concurrently. Each city settles independently; one failure never aborts
// the siblings.
func (s *Service) AllCitiesWeather(ctx context.Context) ([]CityResult, BatchSummary) {
	cities := SupportedCities()
	results := make([]CityResult, len(cities))

	var wg sync.WaitGroup
	for i, loc := range cities {
		i, loc := i, loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			data, err := s.CurrentWeather(ctx, loc.Name)
			if err != nil {
				results[i] = CityResult{City: loc.Name, Error: err.Error()}
				return
			}
			results[i] = CityResult{City: loc.Name, Success: true, Data: data}
		}()
	}
	wg.Wait()

	summary := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	return results, summary
}

// HeatWaveAlerts runs heat-wave detection over the next three days of hourly
// forecast for a city, persists the candidates, publishes alert events, and
// returns the candidates. Persistence and publish failures are logged per
// item and never abort the run.
func (s *Service) HeatWaveAlerts(ctx context.Context, city string) ([]AlertCandidate, error) {
	loc, ok := LookupCity(city)
	if !ok {
		return nil, &LocationNotSupportedError{City: city}
	}

	data, err := s.provider.FetchForecast(ctx, loc, 3)
	if err != nil {
		return nil, err
	}

	candidates, err := DetectHeatAlerts(loc.Name, data.Hourly, s.windowHours)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		if err := s.alerts.UpsertAlert(ctx, alertRecord(c)); err != nil {
			log.Printf("weather: failed to persist %s alert for %s: %v", c.Type, loc.Name, err)
		}

		if s.publisher != nil {
			ev := notify.AlertEvent{
				City:            c.City,
				Type:            string(c.Type),
				Severity:        string(c.Severity),
				Message:         c.Message,
				PeakTemperature: c.PeakTemperature,
				StartTime:       c.EffectiveStart(),
				RaisedAt:        time.Now().UTC(),
			}
			if err := s.publisher.PublishAlert(ctx, ev); err != nil {
				log.Printf("weather: failed to publish %s alert for %s: %v", c.Type, loc.Name, err)
			}
		}
	}

	return candidates, nil
}

// ActiveAlerts returns persisted active alerts, optionally filtered by city.
func (s *Service) ActiveAlerts(ctx context.Context, city string) ([]store.AlertRecord, error) {
	return s.alerts.ActiveAlerts(ctx, city)
}

// History returns persisted weather snapshots with the total count for
// pagination. An empty city matches all cities.
func (s *Service) History(ctx context.Context, city string, limit, offset int) ([]store.WeatherRecord, int, error) {
	return s.history.History(ctx, city, limit, offset)
}

// Cities returns the supported locations.
func (s *Service) Cities() []Location {
	return SupportedCities()
}

// UpdateAll refreshes current conditions for every supported city, bypassing
// the cache, and runs alert generation for cities whose current risk is
// already dangereux or worse. Cities settle independently.
func (s *Service) UpdateAll(ctx context.Context) UpdateSummary {
	cities := SupportedCities()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		summary UpdateSummary
	)
	for _, loc := range cities {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			data, err := s.currentWeather(ctx, loc.Name, false)
			if err != nil {
				mu.Lock()
				summary.Failed = append(summary.Failed, UpdateFailure{City: loc.Name, Error: err.Error()})
				mu.Unlock()
				return
			}

			if data.Current.HeatRisk.Level >= RiskDangereux {
				if _, err := s.HeatWaveAlerts(ctx, loc.Name); err != nil {
					log.Printf("weather: alert generation failed for %s: %v", loc.Name, err)
				}
			}

			mu.Lock()
			summary.Successful = append(summary.Successful, loc.Name)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Strings(summary.Successful)
	sort.Slice(summary.Failed, func(i, j int) bool { return summary.Failed[i].City < summary.Failed[j].City })
	return summary
}

func snapshotRecord(loc Location, cur CurrentReport) *store.WeatherRecord {
	return &store.WeatherRecord{
		City:                loc.Name,
		Latitude:            loc.Lat,
		Longitude:           loc.Lon,
		Temperature:         cur.Temperature,
		Humidity:            cur.Humidity,
		ApparentTemperature: cur.ApparentTemperature,
		WeatherCode:         cur.WeatherCode,
		WeatherDescription:  cur.WeatherDescription.Description,
		WindSpeed:           cur.WindSpeed,
		WindDirection:       cur.WindDirection,
		HeatRiskLevel:       cur.HeatRisk.Level.Code(),
		Timestamp:           cur.Time,
	}
}

func alertRecord(c AlertCandidate) *store.AlertRecord {
	rec := &store.AlertRecord{
		Type:            string(c.Type),
		Severity:        string(c.Severity),
		City:            c.City,
		Title:           c.Message,
		Message:         c.Message,
		Recommendations: c.Recommendations,
		StartTime:       c.EffectiveStart(),
		IsActive:        true,
		Metadata: store.AlertMetadata{
			Temperature:   c.PeakTemperature,
			DurationHours: c.DurationHours,
			Source:        "Open-Meteo API",
		},
	}
	if c.Type == AlertTypeHeatWave && c.StartTime != nil {
		end := c.StartTime.Add(time.Duration(c.DurationHours) * time.Hour)
		rec.EndTime = &end
	}
	return rec
}
