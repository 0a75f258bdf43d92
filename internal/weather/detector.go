package weather

import (
	"errors"
	"fmt"
	"time"
)

// AlertType identifies the kind of heat alert a detection run produced.
type AlertType string

const (
	AlertTypeHeatWave           AlertType = "heat_wave"
	AlertTypeExtremeTemperature AlertType = "extreme_temperature"
)

// AlertSeverity grades an alert. Danger is reserved for peaks at or above
// the dangereux bound.
type AlertSeverity string

const (
	SeverityWarning AlertSeverity = "warning"
	SeverityDanger  AlertSeverity = "danger"
)

const (
	// DefaultWindowHours bounds the detector scan to the next three days.
	DefaultWindowHours = 72

	// heatWaveThresholdC is the hot threshold for sustained-wave detection.
	// It is deliberately the très_inconfortable risk bound, not the
	// dangereux one.
	heatWaveThresholdC = 35.0

	// minHeatWaveHours is the minimum consecutive hot hours for a wave.
	minHeatWaveHours = 6

	extremeThresholdC = 42.0
	dangerThresholdC  = 40.0
)

// ErrUnorderedSeries reports an hourly series whose timestamps are not in
// non-decreasing order. Callers must supply provider output as-is, which is
// already ordered; this is a defensive check.
var ErrUnorderedSeries = errors.New("hourly series is not in ascending time order")

// AlertCandidate is a transient alert produced by one detection run. It is
// never mutated after creation; persistence and deduplication against
// previously active alerts belong to the alert store.
type AlertCandidate struct {
	Type            AlertType     `json:"type"`
	Severity        AlertSeverity `json:"severity"`
	City            string        `json:"city"`
	StartTime       *time.Time    `json:"startTime,omitempty"`
	DurationHours   int           `json:"durationHours,omitempty"`
	ObservedTime    *time.Time    `json:"observedTime,omitempty"`
	PeakTemperature float64       `json:"peakTemperature"`
	Message         string        `json:"message"`
	Recommendations []string      `json:"recommendations"`
}

// EffectiveStart is the instant the alert takes effect: the window start for
// waves, the observed hour for spikes.
func (c AlertCandidate) EffectiveStart() time.Time {
	if c.StartTime != nil {
		return *c.StartTime
	}
	if c.ObservedTime != nil {
		return *c.ObservedTime
	}
	return time.Time{}
}

// DetectHeatAlerts scans an ordered hourly series and emits alert candidates
// for sustained heat waves and extreme-temperature spikes. Only the first
// windowHours points are considered (DefaultWindowHours when <= 0). Missing
// temperatures never meet a threshold and break a running streak. The two
// passes are independent; a series can yield both a wave and a spike covering
// overlapping hours.
func DetectHeatAlerts(city string, hourly []ForecastPoint, windowHours int) ([]AlertCandidate, error) {
	if windowHours <= 0 {
		windowHours = DefaultWindowHours
	}
	if len(hourly) > windowHours {
		hourly = hourly[:windowHours]
	}

	for i := 1; i < len(hourly); i++ {
		if hourly[i].Time.Before(hourly[i-1].Time) {
			return nil, ErrUnorderedSeries
		}
	}

	var alerts []AlertCandidate

	// Pass 1: sustained heat waves. A run still open when the horizon ends
	// emits nothing; only a sub-threshold point closes a run.
	var (
		run      int
		runStart time.Time
		peak     float64
	)
	for _, p := range hourly {
		if p.Temperature != nil && *p.Temperature >= heatWaveThresholdC {
			if run == 0 {
				runStart = p.Time
				peak = *p.Temperature
			} else if *p.Temperature > peak {
				peak = *p.Temperature
			}
			run++
			continue
		}

		if run >= minHeatWaveHours {
			severity := SeverityWarning
			if peak >= dangerThresholdC {
				severity = SeverityDanger
			}
			start := runStart
			alerts = append(alerts, AlertCandidate{
				Type:            AlertTypeHeatWave,
				Severity:        severity,
				City:            city,
				StartTime:       &start,
				DurationHours:   run,
				PeakTemperature: peak,
				Message:         fmt.Sprintf("Vague de chaleur prévue à %s", city),
				Recommendations: ClassifyHeatRisk(peak).Recommendations,
			})
		}
		run = 0
	}

	// Pass 2: extreme spike. Exactly one candidate, for the first qualifying
	// hour, no matter how many hours exceed the threshold.
	for _, p := range hourly {
		if p.Temperature == nil || *p.Temperature < extremeThresholdC {
			continue
		}
		observed := p.Time
		alerts = append(alerts, AlertCandidate{
			Type:            AlertTypeExtremeTemperature,
			Severity:        SeverityDanger,
			City:            city,
			ObservedTime:    &observed,
			PeakTemperature: *p.Temperature,
			Message:         fmt.Sprintf("Température extrême prévue à %s", city),
			Recommendations: ClassifyHeatRisk(*p.Temperature).Recommendations,
		})
		break
	}

	return alerts, nil
}
