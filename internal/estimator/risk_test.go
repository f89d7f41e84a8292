package estimator

import (
	"reflect"
	"testing"

	"github.com/blinkit-analytics/backend/internal/models"
)

func TestClassifyRiskThresholds(t *testing.T) {
	cases := []struct {
		minutes float64
		level   models.RiskLevel
		pct     float64
	}{
		{0, models.RiskLow, 0},
		{15.0, models.RiskLow, 25.0},
		{15.01, models.RiskMedium, 25.02},
		{30.0, models.RiskMedium, 50.0},
		{30.01, models.RiskHigh, 50.02},
		{42.0, models.RiskHigh, 70.0},
	}
	for _, tc := range cases {
		r := ClassifyRisk(tc.minutes)
		if r.RiskLevel != tc.level {
			t.Fatalf("ClassifyRisk(%v): expected %s, got %s", tc.minutes, tc.level, r.RiskLevel)
		}
		if r.RiskPercentage != tc.pct {
			t.Fatalf("ClassifyRisk(%v): expected %.2f%%, got %.2f%%", tc.minutes, tc.pct, r.RiskPercentage)
		}
	}
}

func TestClassifyRiskEarlyDelivery(t *testing.T) {
	r := ClassifyRisk(-10.0)
	if r.DisplayMinutes != 0 {
		t.Fatalf("expected display minutes 0, got %v", r.DisplayMinutes)
	}
	if r.RiskPercentage != 0 {
		t.Fatalf("expected 0%%, got %v", r.RiskPercentage)
	}
	if r.RiskLevel != models.RiskLow {
		t.Fatalf("expected Low, got %s", r.RiskLevel)
	}
	if r.DisplayText != "Before 10.0 minutes" {
		t.Fatalf("unexpected display text: %q", r.DisplayText)
	}
	if r.RawMinutes != -10.0 {
		t.Fatalf("raw minutes must be preserved, got %v", r.RawMinutes)
	}
}

func TestClassifyRiskPercentageSaturates(t *testing.T) {
	r := ClassifyRisk(500.0)
	if r.RiskPercentage != 100.0 {
		t.Fatalf("expected percentage capped at exactly 100, got %v", r.RiskPercentage)
	}
	if r.RiskLevel != models.RiskHigh {
		t.Fatalf("tier must not depend on the clamp, got %s", r.RiskLevel)
	}
}

func TestClassifyRiskDeterministic(t *testing.T) {
	a := ClassifyRisk(23.7)
	b := ClassifyRisk(23.7)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical results for identical input: %+v vs %+v", a, b)
	}
}

func TestActionsPerTier(t *testing.T) {
	high := ClassifyRisk(45.0).Actions
	wantHigh := []string{"Allocate extra riders", "Notify customers", "Prepare contingency plan"}
	if !reflect.DeepEqual(high, wantHigh) {
		t.Fatalf("high actions: got %v", high)
	}

	medium := ClassifyRisk(20.0).Actions
	wantMedium := []string{"Monitor orders closely", "Keep extra riders ready"}
	if !reflect.DeepEqual(medium, wantMedium) {
		t.Fatalf("medium actions: got %v", medium)
	}

	low := ClassifyRisk(5.0).Actions
	if !reflect.DeepEqual(low, []string{"Normal operations"}) {
		t.Fatalf("low actions: got %v", low)
	}
}

func TestActionsForReturnsCopy(t *testing.T) {
	a := ActionsFor(models.RiskHigh)
	a[0] = "mutated"
	if ActionsFor(models.RiskHigh)[0] != "Allocate extra riders" {
		t.Fatalf("ActionsFor must not expose the shared table")
	}
}
