package estimator

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blinkit-analytics/backend/internal/dataset"
	"github.com/blinkit-analytics/backend/internal/model"
	"github.com/blinkit-analytics/backend/internal/models"
)

// Inputs are the five values a manager chooses; everything else the model
// needs comes from dataset defaults.
type Inputs struct {
	Area           string
	Pincode        int
	OrderHour      int
	OrderDayName   string
	OrderMonthName string
}

// ValidationError rejects a user value outside its domain before any
// vector is assembled.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var weekdayNames = map[string]struct{}{
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {}, "Sunday": {},
}

var monthNames = map[string]struct{}{
	"January": {}, "February": {}, "March": {}, "April": {},
	"May": {}, "June": {}, "July": {}, "August": {},
	"September": {}, "October": {}, "November": {}, "December": {},
}

func ValidateInputs(in Inputs) error {
	if in.Area == "" {
		return &ValidationError{Field: "area", Message: "must not be empty"}
	}
	if in.Pincode <= 0 {
		return &ValidationError{Field: "pincode", Message: "must be a positive pincode"}
	}
	if in.OrderHour < 0 || in.OrderHour > 23 {
		return &ValidationError{Field: "order_hour", Message: "must be between 0 and 23"}
	}
	if _, ok := weekdayNames[in.OrderDayName]; !ok {
		return &ValidationError{Field: "order_day_name", Message: "must be a weekday name"}
	}
	if _, ok := monthNames[in.OrderMonthName]; !ok {
		return &ValidationError{Field: "order_month_name", Message: "must be a month name"}
	}
	return nil
}

// BuildFeatureVector merges the manager's inputs with the precomputed
// defaults into exactly the column set and order the model expects. A model
// column with no user value and no default fails loudly; silently omitting
// it would shift every later column.
func BuildFeatureVector(in Inputs, defaults dataset.Defaults) (models.FeatureVector, error) {
	user := map[string]any{
		"area":             in.Area,
		"pincode":          in.Pincode,
		"order_hour":       in.OrderHour,
		"order_day_name":   in.OrderDayName,
		"order_month_name": in.OrderMonthName,
	}

	fv := models.FeatureVector{
		Columns: append([]string(nil), model.InputColumns...),
		Values:  make(map[string]any, len(model.InputColumns)),
	}
	for _, col := range fv.Columns {
		if v, ok := user[col]; ok {
			fv.Values[col] = v
			continue
		}
		v, ok := defaults[col]
		if !ok {
			return models.FeatureVector{}, &dataset.SchemaError{Column: col, Reason: "no default computed"}
		}
		fv.Values[col] = v
	}
	return fv, nil
}

// Estimator holds the process-lifetime state of the estimation flow:
// the reference dataset, its defaults, and the model handle. Built once in
// main and passed in explicitly, never a package-level singleton.
type Estimator struct {
	Dataset  *dataset.Dataset
	Defaults dataset.Defaults
	Model    model.Predictor
	Logger   zerolog.Logger
}

// Estimate runs one request through the whole flow: validate, assemble,
// predict, classify. Every error is terminal for the request; the caller
// adjusts inputs and retries the flow, nothing is substituted here.
func (e *Estimator) Estimate(ctx context.Context, in Inputs) (models.PredictionResult, error) {
	if err := ValidateInputs(in); err != nil {
		return models.PredictionResult{}, err
	}

	fv, err := BuildFeatureVector(in, e.Defaults)
	if err != nil {
		return models.PredictionResult{}, err
	}

	minutes, err := e.Model.Predict(ctx, fv)
	if err != nil {
		return models.PredictionResult{}, err
	}

	result := ClassifyRisk(minutes)
	result.ModelVersion = e.Model.Version()
	result.GeneratedAt = time.Now().UTC()

	e.Logger.Info().
		Str("area", in.Area).
		Int("pincode", in.Pincode).
		Int("order_hour", in.OrderHour).
		Float64("raw_minutes", minutes).
		Str("risk_level", string(result.RiskLevel)).
		Msg("estimate")

	return result, nil
}
