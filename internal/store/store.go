package store

import (
	"context"
	"time"
)

// AlertMetadata is the free-form payload persisted alongside an alert.
type AlertMetadata struct {
	Temperature   float64 `json:"temperature"`
	DurationHours int     `json:"durationHours,omitempty"`
	Source        string  `json:"source"`
}

// AlertRecord is a persisted heat alert.
type AlertRecord struct {
	ID              string        `json:"id"`
	Type            string        `json:"type"`
	Severity        string        `json:"severity"`
	City            string        `json:"city"`
	Title           string        `json:"title"`
	Message         string        `json:"message"`
	Recommendations []string      `json:"recommendations"`
	StartTime       time.Time     `json:"startTime"`
	EndTime         *time.Time    `json:"endTime,omitempty"`
	IsActive        bool          `json:"isActive"`
	Metadata        AlertMetadata `json:"metadata"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// WeatherRecord is one persisted current-conditions snapshot.
type WeatherRecord struct {
	ID                  string    `json:"id"`
	City                string    `json:"city"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	Temperature         *float64  `json:"temperature"`
	Humidity            *float64  `json:"humidity"`
	ApparentTemperature *float64  `json:"apparentTemperature"`
	WeatherCode         *int      `json:"weatherCode"`
	WeatherDescription  string    `json:"weatherDescription"`
	WindSpeed           *float64  `json:"windSpeed"`
	WindDirection       *float64  `json:"windDirection"`
	HeatRiskLevel       string    `json:"heatRiskLevel"`
	Timestamp           time.Time `json:"timestamp"`
	CreatedAt           time.Time `json:"createdAt"`
}

// AlertStore persists heat alerts. UpsertAlert merges a new candidate into a
// still-active alert of the same city and type instead of inserting a
// duplicate; detection runs hand over fresh candidates and never dedupe
// themselves.
type AlertStore interface {
	UpsertAlert(ctx context.Context, rec *AlertRecord) error
	// ActiveAlerts returns active alerts, newest first. An empty city
	// matches all cities.
	ActiveAlerts(ctx context.Context, city string) ([]AlertRecord, error)
}

// HistoryStore persists fetched weather snapshots for later retrieval.
type HistoryStore interface {
	SaveSnapshot(ctx context.Context, rec *WeatherRecord) error
	// History returns snapshots newest first plus the total count for
	// pagination. An empty city matches all cities.
	History(ctx context.Context, city string, limit, offset int) ([]WeatherRecord, int, error)
}
