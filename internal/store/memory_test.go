package store

import (
	"context"
	"testing"
	"time"
)

func alertFixture(city, typ string) *AlertRecord {
	return &AlertRecord{
		Type:      typ,
		Severity:  "warning",
		City:      city,
		Title:     "Vague de chaleur prévue à " + city,
		Message:   "Vague de chaleur prévue à " + city,
		StartTime: time.Date(2026, time.April, 10, 6, 0, 0, 0, time.UTC),
		IsActive:  true,
		Metadata:  AlertMetadata{Temperature: 37, DurationHours: 8, Source: "Open-Meteo API"},
	}
}

func TestUpsertAlertMergesActive(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	first := alertFixture("Dakar", "heat_wave")
	if err := s.UpsertAlert(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID == "" {
		t.Fatal("insert should assign an id")
	}

	second := alertFixture("Dakar", "heat_wave")
	second.Severity = "danger"
	second.Metadata.Temperature = 41
	if err := s.UpsertAlert(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alerts, err := s.ActiveAlerts(ctx, "Dakar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected merge into 1 alert, got %d", len(alerts))
	}
	if alerts[0].ID != first.ID {
		t.Errorf("merged alert id = %q, want original %q", alerts[0].ID, first.ID)
	}
	if alerts[0].Severity != "danger" || alerts[0].Metadata.Temperature != 41 {
		t.Errorf("merge did not refresh fields: %+v", alerts[0])
	}
	if !alerts[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("merge must keep the original createdAt")
	}
}

func TestUpsertAlertSeparatesByType(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	if err := s.UpsertAlert(ctx, alertFixture("Matam", "heat_wave")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpsertAlert(ctx, alertFixture("Matam", "extreme_temperature")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alerts, _ := s.ActiveAlerts(ctx, "Matam")
	if len(alerts) != 2 {
		t.Fatalf("different types must not merge, got %d alerts", len(alerts))
	}
}

func TestActiveAlertsFilterAndOrder(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	if err := s.UpsertAlert(ctx, alertFixture("Dakar", "heat_wave")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.UpsertAlert(ctx, alertFixture("Podor", "heat_wave")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all, err := s.ActiveAlerts(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(all))
	}
	if all[0].City != "Podor" {
		t.Errorf("newest alert should come first, got %q", all[0].City)
	}

	filtered, err := s.ActiveAlerts(ctx, "Dakar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 || filtered[0].City != "Dakar" {
		t.Errorf("city filter failed: %+v", filtered)
	}
}

func snapshotFixture(city string, ts time.Time) *WeatherRecord {
	temp := 34.0
	return &WeatherRecord{
		City:          city,
		Temperature:   &temp,
		HeatRiskLevel: "inconfortable",
		Timestamp:     ts,
	}
}

func TestSaveSnapshotRetentionByCount(t *testing.T) {
	s := NewMemoryStore(3, 0)
	ctx := context.Background()
	base := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		rec := snapshotFixture("Dakar", base.Add(time.Duration(i)*time.Hour))
		if err := s.SaveSnapshot(ctx, rec); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, total, err := s.History(ctx, "Dakar", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Fatalf("retention should cap at 3 snapshots, got %d", total)
	}
	// Oldest two were evicted; the newest survives.
	if !records[0].Timestamp.Equal(base.Add(4 * time.Hour)) {
		t.Errorf("newest snapshot missing after retention: %+v", records[0])
	}
	if !records[len(records)-1].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("wrong snapshots evicted: %+v", records[len(records)-1])
	}
}

func TestHistoryPagination(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()
	base := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		if err := s.SaveSnapshot(ctx, snapshotFixture("Thiès", base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page1, total, err := s.History(ctx, "Thiès", 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 || len(page1) != 3 {
		t.Fatalf("page 1: total=%d len=%d, want 7/3", total, len(page1))
	}
	if !page1[0].Timestamp.Equal(base.Add(6 * time.Hour)) {
		t.Errorf("history should be newest first, got %v", page1[0].Timestamp)
	}

	page3, total, err := s.History(ctx, "Thiès", 3, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 || len(page3) != 1 {
		t.Fatalf("last page: total=%d len=%d, want 7/1", total, len(page3))
	}

	empty, total, err := s.History(ctx, "Thiès", 3, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 || len(empty) != 0 {
		t.Fatalf("out-of-range offset: total=%d len=%d, want 7/0", total, len(empty))
	}
}

func TestHistoryAcrossCities(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()
	base := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	if err := s.SaveSnapshot(ctx, snapshotFixture("Dakar", base)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveSnapshot(ctx, snapshotFixture("Matam", base.Add(time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, total, err := s.History(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(records) != 2 {
		t.Fatalf("expected both cities, got total=%d", total)
	}
	if records[0].City != "Matam" {
		t.Errorf("cross-city history should be newest first, got %q", records[0].City)
	}
}
