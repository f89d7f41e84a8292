package model

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/blinkit-analytics/backend/internal/models"
)

// MockPredictor stands in for the real model service in local runs and
// tests. The output is a pure function of the feature values, so repeated
// requests with the same inputs classify identically.
type MockPredictor struct {
	ModelVersion string
}

func (m MockPredictor) Predict(ctx context.Context, fv models.FeatureVector) (float64, error) {
	if err := ValidateColumns(fv.Columns); err != nil {
		return 0, err
	}

	parts := make([]string, 0, len(fv.Columns))
	for _, c := range fv.Columns {
		parts = append(parts, fmt.Sprint(fv.Values[c]))
	}
	h := fnv.New64a()
	h.Write([]byte(strings.Join(parts, "|")))

	// Spread over [-10.0, 49.9] minutes so every risk tier is reachable.
	return float64(h.Sum64()%600)/10.0 - 10.0, nil
}

func (m MockPredictor) Version() string {
	return m.ModelVersion
}
