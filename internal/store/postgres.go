package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Postgres implements AlertStore and HistoryStore on PostgreSQL.
type Postgres struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id UUID PRIMARY KEY,
	type TEXT NOT NULL,
	severity TEXT NOT NULL,
	city TEXT NOT NULL,
	title TEXT NOT NULL,
	message TEXT NOT NULL,
	recommendations JSONB NOT NULL DEFAULT '[]',
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_alerts_active_city ON alerts (is_active, city);

CREATE TABLE IF NOT EXISTS weather_history (
	id UUID PRIMARY KEY,
	city TEXT NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	temperature DOUBLE PRECISION,
	humidity DOUBLE PRECISION,
	apparent_temperature DOUBLE PRECISION,
	weather_code INTEGER,
	weather_description TEXT NOT NULL DEFAULT '',
	wind_speed DOUBLE PRECISION,
	wind_direction DOUBLE PRECISION,
	heat_risk_level TEXT NOT NULL DEFAULT '',
	timestamp TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_weather_history_city_ts ON weather_history (city, timestamp DESC);
`

// ConnectPostgres opens a connection pool, verifies it, and bootstraps the
// schema.
func ConnectPostgres(connectionString string) (*Postgres, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

// Close closes the underlying connection pool.
func (p *Postgres) Close() error { return p.db.Close() }

// UpsertAlert updates the still-active alert with the same city and type in
// place, or inserts a new row when none exists.
func (p *Postgres) UpsertAlert(ctx context.Context, rec *AlertRecord) error {
	recommendations, err := json.Marshal(rec.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	update := `
		UPDATE alerts
		SET severity = $1, title = $2, message = $3, recommendations = $4,
		    start_time = $5, end_time = $6, metadata = $7, updated_at = NOW()
		WHERE city = $8 AND type = $9 AND is_active = TRUE
		RETURNING id
	`
	err = p.db.QueryRowContext(ctx, update,
		rec.Severity, rec.Title, rec.Message, recommendations,
		rec.StartTime, rec.EndTime, metadata,
		rec.City, rec.Type,
	).Scan(&rec.ID)
	if err == nil {
		rec.IsActive = true
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to update alert: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	insert := `
		INSERT INTO alerts (
			id, type, severity, city, title, message, recommendations,
			start_time, end_time, is_active, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, $10)
	`
	if _, err := p.db.ExecContext(ctx, insert,
		rec.ID, rec.Type, rec.Severity, rec.City, rec.Title, rec.Message,
		recommendations, rec.StartTime, rec.EndTime, metadata,
	); err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	rec.IsActive = true
	return nil
}

// ActiveAlerts returns active alerts newest first, optionally filtered by city.
func (p *Postgres) ActiveAlerts(ctx context.Context, city string) ([]AlertRecord, error) {
	query := `
		SELECT id, type, severity, city, title, message, recommendations,
		       start_time, end_time, is_active, metadata, created_at, updated_at
		FROM alerts
		WHERE is_active = TRUE AND ($1 = '' OR city = $1)
		ORDER BY created_at DESC
	`
	rows, err := p.db.QueryContext(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []AlertRecord
	for rows.Next() {
		var (
			rec             AlertRecord
			recommendations []byte
			metadata        []byte
		)
		if err := rows.Scan(
			&rec.ID, &rec.Type, &rec.Severity, &rec.City, &rec.Title,
			&rec.Message, &recommendations, &rec.StartTime, &rec.EndTime,
			&rec.IsActive, &metadata, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		if err := json.Unmarshal(recommendations, &rec.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations: %w", err)
		}
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		alerts = append(alerts, rec)
	}
	return alerts, rows.Err()
}

// SaveSnapshot inserts one weather snapshot.
func (p *Postgres) SaveSnapshot(ctx context.Context, rec *WeatherRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO weather_history (
			id, city, latitude, longitude, temperature, humidity,
			apparent_temperature, weather_code, weather_description,
			wind_speed, wind_direction, heat_risk_level, timestamp, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := p.db.ExecContext(ctx, query,
		rec.ID, rec.City, rec.Latitude, rec.Longitude, rec.Temperature,
		rec.Humidity, rec.ApparentTemperature, rec.WeatherCode,
		rec.WeatherDescription, rec.WindSpeed, rec.WindDirection,
		rec.HeatRiskLevel, rec.Timestamp, rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// History returns snapshots newest first plus the total count for pagination.
func (p *Postgres) History(ctx context.Context, city string, limit, offset int) ([]WeatherRecord, int, error) {
	var total int
	count := `SELECT COUNT(*) FROM weather_history WHERE ($1 = '' OR city = $1)`
	if err := p.db.QueryRowContext(ctx, count, city).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	query := `
		SELECT id, city, latitude, longitude, temperature, humidity,
		       apparent_temperature, weather_code, weather_description,
		       wind_speed, wind_direction, heat_risk_level, timestamp, created_at
		FROM weather_history
		WHERE ($1 = '' OR city = $1)
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := p.db.QueryContext(ctx, query, city, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []WeatherRecord
	for rows.Next() {
		var rec WeatherRecord
		if err := rows.Scan(
			&rec.ID, &rec.City, &rec.Latitude, &rec.Longitude,
			&rec.Temperature, &rec.Humidity, &rec.ApparentTemperature,
			&rec.WeatherCode, &rec.WeatherDescription, &rec.WindSpeed,
			&rec.WindDirection, &rec.HeatRiskLevel, &rec.Timestamp,
			&rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}
