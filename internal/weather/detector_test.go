package weather

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var seriesStart = time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 { return &v }

// hourlySeries builds an hourly series starting at seriesStart; a nil entry
// is a missing temperature.
func hourlySeries(temps ...*float64) []ForecastPoint {
	points := make([]ForecastPoint, len(temps))
	for i, temp := range temps {
		points[i] = ForecastPoint{
			Time:        seriesStart.Add(time.Duration(i) * time.Hour),
			Temperature: temp,
		}
	}
	return points
}

func repeat(v float64, n int) []*float64 {
	out := make([]*float64, n)
	for i := range out {
		out[i] = fptr(v)
	}
	return out
}

func TestDetectHeatWaveWarning(t *testing.T) {
	temps := append(repeat(36, 10), fptr(20))
	alerts, err := DetectHeatAlerts("Dakar", hourlySeries(temps...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	a := alerts[0]
	if a.Type != AlertTypeHeatWave {
		t.Errorf("type = %q, want %q", a.Type, AlertTypeHeatWave)
	}
	if a.Severity != SeverityWarning {
		t.Errorf("severity = %q, want %q", a.Severity, SeverityWarning)
	}
	if a.DurationHours != 10 {
		t.Errorf("durationHours = %d, want 10", a.DurationHours)
	}
	if a.PeakTemperature != 36 {
		t.Errorf("peakTemperature = %v, want 36", a.PeakTemperature)
	}
	if a.StartTime == nil || !a.StartTime.Equal(seriesStart) {
		t.Errorf("startTime = %v, want %v", a.StartTime, seriesStart)
	}
}

func TestDetectHeatWaveDangerPeak(t *testing.T) {
	temps := append(repeat(36, 10), fptr(20))
	for i := 4; i < 10; i++ {
		temps[i] = fptr(41)
	}

	alerts, err := DetectHeatAlerts("Matam", hourlySeries(temps...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].PeakTemperature != 41 {
		t.Errorf("peakTemperature = %v, want 41", alerts[0].PeakTemperature)
	}
	if alerts[0].Severity != SeverityDanger {
		t.Errorf("severity = %q, want %q", alerts[0].Severity, SeverityDanger)
	}
}

func TestDetectShortRunEmitsNothing(t *testing.T) {
	temps := append(repeat(37, 5), fptr(25))
	alerts, err := DetectHeatAlerts("Podor", hourlySeries(temps...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts for a 5-hour run, got %d", len(alerts))
	}
}

// A run still open when the series ends closes no window, so no alert is
// produced even if it exceeds the minimum length.
func TestDetectTrailingRunEmitsNothing(t *testing.T) {
	alerts, err := DetectHeatAlerts("Kaolack", hourlySeries(repeat(38, 12)...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts for an open-ended run, got %d", len(alerts))
	}
}

func TestDetectExtremeSpikeFirstPointOnly(t *testing.T) {
	temps := []*float64{fptr(30), fptr(43), fptr(44), fptr(42.5), fptr(28)}
	alerts, err := DetectHeatAlerts("Matam", hourlySeries(temps...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	a := alerts[0]
	if a.Type != AlertTypeExtremeTemperature {
		t.Errorf("type = %q, want %q", a.Type, AlertTypeExtremeTemperature)
	}
	if a.Severity != SeverityDanger {
		t.Errorf("severity = %q, want %q", a.Severity, SeverityDanger)
	}
	if a.PeakTemperature != 43 {
		t.Errorf("temperature = %v, want first qualifying point 43", a.PeakTemperature)
	}
	want := seriesStart.Add(1 * time.Hour)
	if a.ObservedTime == nil || !a.ObservedTime.Equal(want) {
		t.Errorf("observedTime = %v, want %v", a.ObservedTime, want)
	}
}

// A hot window that also crosses 42°C yields both a wave and a spike; the
// passes are independent.
func TestDetectWaveAndSpikeTogether(t *testing.T) {
	temps := append(repeat(43, 8), fptr(20))
	alerts, err := DetectHeatAlerts("Linguère", hourlySeries(temps...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected wave + spike, got %d alerts", len(alerts))
	}
	if alerts[0].Type != AlertTypeHeatWave || alerts[1].Type != AlertTypeExtremeTemperature {
		t.Errorf("unexpected alert types: %q, %q", alerts[0].Type, alerts[1].Type)
	}
}

// Missing temperatures never meet a threshold and break a running streak.
func TestDetectMissingTemperatureBreaksRun(t *testing.T) {
	temps := append(repeat(38, 5), nil)
	temps = append(temps, repeat(38, 5)...)
	temps = append(temps, fptr(20))

	alerts, err := DetectHeatAlerts("Thiès", hourlySeries(temps...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected gap to split runs below the minimum, got %d alerts", len(alerts))
	}
}

func TestDetectEmptySeries(t *testing.T) {
	alerts, err := DetectHeatAlerts("Dakar", nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts for empty series, got %d", len(alerts))
	}
}

func TestDetectWindowTruncation(t *testing.T) {
	// Everything hot sits beyond the 72-hour horizon.
	temps := repeat(25, 72)
	temps = append(temps, repeat(44, 8)...)
	temps = append(temps, fptr(20))

	alerts, err := DetectHeatAlerts("Dakar", hourlySeries(temps...), 72)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts outside the scan horizon, got %d", len(alerts))
	}
}

func TestDetectUnorderedSeries(t *testing.T) {
	points := hourlySeries(repeat(36, 3)...)
	points[1].Time = points[2].Time.Add(time.Hour)

	_, err := DetectHeatAlerts("Dakar", points, 0)
	if !errors.Is(err, ErrUnorderedSeries) {
		t.Fatalf("expected ErrUnorderedSeries, got %v", err)
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	temps := append(repeat(43, 8), fptr(20))
	temps = append(temps, repeat(36, 7)...)
	temps = append(temps, fptr(22))
	points := hourlySeries(temps...)

	first, err := DetectHeatAlerts("Dakar", points, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := DetectHeatAlerts("Dakar", points, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("detection is not deterministic for identical input")
	}
}

// Two separate closed runs both emit alerts.
func TestDetectMultipleWaves(t *testing.T) {
	temps := append(repeat(36, 6), fptr(20))
	temps = append(temps, repeat(41, 7)...)
	temps = append(temps, fptr(21))

	alerts, err := DetectHeatAlerts("Kaffrine", hourlySeries(temps...), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 wave alerts, got %d", len(alerts))
	}
	if alerts[0].Severity != SeverityWarning || alerts[1].Severity != SeverityDanger {
		t.Errorf("unexpected severities: %q, %q", alerts[0].Severity, alerts[1].Severity)
	}
	if alerts[1].DurationHours != 7 {
		t.Errorf("second wave durationHours = %d, want 7", alerts[1].DurationHours)
	}
}
