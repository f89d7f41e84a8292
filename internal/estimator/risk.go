package estimator

import (
	"fmt"
	"math"

	"github.com/blinkit-analytics/backend/internal/models"
)

// Delay thresholds in minutes, strict lower bounds. A 30.0-minute delay is
// Medium, not High.
const (
	highDelayMinutes   = 30.0
	mediumDelayMinutes = 15.0
	referenceWindowMin = 60.0
)

var riskActions = map[models.RiskLevel][]string{
	models.RiskHigh:   {"Allocate extra riders", "Notify customers", "Prepare contingency plan"},
	models.RiskMedium: {"Monitor orders closely", "Keep extra riders ready"},
	models.RiskLow:    {"Normal operations"},
}

// ActionsFor returns the recommended actions for a tier, in priority order.
func ActionsFor(level models.RiskLevel) []string {
	return append([]string(nil), riskActions[level]...)
}

// ClassifyRisk turns the model's raw minutes into the operator-facing
// result. An early delivery (negative minutes) counts as zero delay for the
// risk tier and percentage but is still called out in the text, so the
// operator can see the model expects the order ahead of the promise.
func ClassifyRisk(rawMinutes float64) models.PredictionResult {
	displayMinutes := rawMinutes
	displayText := fmt.Sprintf("%.1f minutes", rawMinutes)
	if rawMinutes < 0 {
		displayMinutes = 0
		displayText = fmt.Sprintf("Before %.1f minutes", math.Abs(rawMinutes))
	}

	level := models.RiskLow
	switch {
	case displayMinutes > highDelayMinutes:
		level = models.RiskHigh
	case displayMinutes > mediumDelayMinutes:
		level = models.RiskMedium
	}

	// Percentage saturates at 100 but the tier does not depend on the clamp.
	pct := math.Min(round2(displayMinutes/referenceWindowMin*100), 100)

	return models.PredictionResult{
		RawMinutes:     rawMinutes,
		DisplayMinutes: displayMinutes,
		DisplayText:    displayText,
		RiskPercentage: pct,
		RiskLevel:      level,
		Actions:        ActionsFor(level),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
