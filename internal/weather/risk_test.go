package weather

import "testing"

// TestClassifyHeatRiskBoundaries verifies that boundary temperatures resolve
// to the more severe bracket.
func TestClassifyHeatRiskBoundaries(t *testing.T) {
	tests := []struct {
		temp float64
		want RiskLevel
	}{
		{-10.0, RiskNormal},
		{0.0, RiskNormal},
		{29.9, RiskNormal},
		{30.0, RiskInconfortable},
		{34.9, RiskInconfortable},
		{35.0, RiskTresInconfortable},
		{39.9, RiskTresInconfortable},
		{40.0, RiskDangereux},
		{44.9, RiskDangereux},
		{45.0, RiskTresDangereux},
		{52.0, RiskTresDangereux},
	}

	for _, tt := range tests {
		got := ClassifyHeatRisk(tt.temp)
		if got.Level != tt.want {
			t.Errorf("ClassifyHeatRisk(%v).Level = %v, want %v", tt.temp, got.Level, tt.want)
		}
	}
}

// TestClassifyHeatRiskMetadata checks that every level carries presentation
// data and recommendations.
func TestClassifyHeatRiskMetadata(t *testing.T) {
	for _, temp := range []float64{20, 31, 36, 41, 46} {
		a := ClassifyHeatRisk(temp)
		if a.Label == "" || a.Color == "" || a.Description == "" {
			t.Errorf("ClassifyHeatRisk(%v) has empty metadata: %+v", temp, a)
		}
		if len(a.Recommendations) < 2 || len(a.Recommendations) > 4 {
			t.Errorf("ClassifyHeatRisk(%v) has %d recommendations, want 2-4", temp, len(a.Recommendations))
		}
	}
}

func TestClassifyHeatRiskReading(t *testing.T) {
	temp := 41.0
	apparent := 36.0

	if got := ClassifyHeatRiskReading(&temp, &apparent); got.Level != RiskDangereux {
		t.Errorf("measured temperature should win, got %v", got.Level)
	}
	if got := ClassifyHeatRiskReading(nil, &apparent); got.Level != RiskTresInconfortable {
		t.Errorf("apparent fallback should apply, got %v", got.Level)
	}
	if got := ClassifyHeatRiskReading(nil, nil); got.Level != RiskNormal {
		t.Errorf("missing readings should classify as normal, got %v", got.Level)
	}
}

func TestRiskLevelCodes(t *testing.T) {
	tests := []struct {
		level RiskLevel
		want  string
	}{
		{RiskNormal, "normal"},
		{RiskInconfortable, "inconfortable"},
		{RiskTresInconfortable, "tres_inconfortable"},
		{RiskDangereux, "dangereux"},
		{RiskTresDangereux, "tres_dangereux"},
	}
	for _, tt := range tests {
		if got := tt.level.Code(); got != tt.want {
			t.Errorf("RiskLevel(%d).Code() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

// TestRiskLevelOrdering ensures severity comparisons hold for callers that
// gate behavior on level thresholds.
func TestRiskLevelOrdering(t *testing.T) {
	if !(RiskNormal < RiskInconfortable &&
		RiskInconfortable < RiskTresInconfortable &&
		RiskTresInconfortable < RiskDangereux &&
		RiskDangereux < RiskTresDangereux) {
		t.Fatal("risk levels are not strictly ordered by severity")
	}
}
