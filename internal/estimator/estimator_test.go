package estimator

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/blinkit-analytics/backend/internal/dataset"
	"github.com/blinkit-analytics/backend/internal/model"
	"github.com/blinkit-analytics/backend/internal/models"
)

type stubPredictor struct {
	minutes float64
	err     error
}

func (s stubPredictor) Predict(ctx context.Context, fv models.FeatureVector) (float64, error) {
	return s.minutes, s.err
}

func (s stubPredictor) Version() string { return "stub-v1" }

func referenceRows() []models.Order {
	base := models.Order{
		Area: "Indiranagar", Pincode: 560038, OrderHour: 18,
		OrderDayName: "Friday", OrderMonthName: "July",
		Category: "Snacks", Brand: "Amul", Channel: "APP",
		TargetAudience: "Young Adults", PaymentMethod: "UPI",
		CustomerSegment: "Regular", Sentiment: "Positive",
		DeliveryStatus: "On Time",
		Quantity:       2, Rating: 4.2, TotalOrders: 12, OrderMinutes: 22,
		OrderTotal: 400, AvgOrderValue: 380, Price: 55, ItemTotal: 110, Spend: 1500,
	}
	rows := []models.Order{base, base, base}
	rows[1].OrderTotal = 450
	rows[2].OrderTotal = 500
	rows[2].Channel = "WEB"
	return rows
}

func testDefaults(t *testing.T) dataset.Defaults {
	t.Helper()
	ds := dataset.New(referenceRows(), dataset.AllColumns)
	defaults, err := dataset.ComputeDefaults(ds)
	if err != nil {
		t.Fatalf("compute defaults: %v", err)
	}
	return defaults
}

func TestValidateInputs(t *testing.T) {
	good := Inputs{Area: "Indiranagar", Pincode: 560038, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "July"}
	if err := ValidateInputs(good); err != nil {
		t.Fatalf("expected valid inputs, got %v", err)
	}

	bad := []Inputs{
		{Area: "", Pincode: 560038, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "July"},
		{Area: "Indiranagar", Pincode: 0, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "July"},
		{Area: "Indiranagar", Pincode: 560038, OrderHour: 24, OrderDayName: "Friday", OrderMonthName: "July"},
		{Area: "Indiranagar", Pincode: 560038, OrderHour: -1, OrderDayName: "Friday", OrderMonthName: "July"},
		{Area: "Indiranagar", Pincode: 560038, OrderHour: 18, OrderDayName: "Freitag", OrderMonthName: "July"},
		{Area: "Indiranagar", Pincode: 560038, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "Juli"},
	}
	for i, in := range bad {
		err := ValidateInputs(in)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}
}

func TestBuildFeatureVectorShape(t *testing.T) {
	defaults := testDefaults(t)
	in := Inputs{Area: "Indiranagar", Pincode: 560038, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "July"}

	fv, err := BuildFeatureVector(in, defaults)
	if err != nil {
		t.Fatalf("build feature vector: %v", err)
	}
	if len(fv.Columns) != len(model.UserColumns)+len(defaults) {
		t.Fatalf("expected %d columns, got %d", len(model.UserColumns)+len(defaults), len(fv.Columns))
	}
	seen := map[string]bool{}
	for _, c := range fv.Columns {
		if seen[c] {
			t.Fatalf("duplicate column %q", c)
		}
		seen[c] = true
		if _, ok := fv.Values[c]; !ok {
			t.Fatalf("column %q has no value", c)
		}
	}
	if err := model.ValidateColumns(fv.Columns); err != nil {
		t.Fatalf("vector columns must match model schema: %v", err)
	}
}

func TestBuildFeatureVectorMissingDefault(t *testing.T) {
	defaults := testDefaults(t)
	delete(defaults, "order_total")

	in := Inputs{Area: "Indiranagar", Pincode: 560038, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "July"}
	_, err := BuildFeatureVector(in, defaults)
	var schemaErr *dataset.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "order_total" {
		t.Fatalf("expected the missing column to be named, got %q", schemaErr.Column)
	}
}

func TestEstimateEndToEnd(t *testing.T) {
	ds := dataset.New(referenceRows(), dataset.AllColumns)
	defaults, err := dataset.ComputeDefaults(ds)
	if err != nil {
		t.Fatalf("compute defaults: %v", err)
	}
	if defaults["order_total"] != 450.0 {
		t.Fatalf("expected median order_total 450.0, got %v", defaults["order_total"])
	}
	if defaults["channel"] != "APP" {
		t.Fatalf("expected mode channel APP, got %v", defaults["channel"])
	}

	e := &Estimator{
		Dataset:  ds,
		Defaults: defaults,
		Model:    stubPredictor{minutes: 42.0},
		Logger:   zerolog.Nop(),
	}
	in := Inputs{Area: "Indiranagar", Pincode: 560038, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "July"}

	fv, err := BuildFeatureVector(in, defaults)
	if err != nil {
		t.Fatalf("build feature vector: %v", err)
	}
	if fv.Values["order_total"] != 450.0 {
		t.Fatalf("expected order_total 450.0 in vector, got %v", fv.Values["order_total"])
	}
	if fv.Values["channel"] != "APP" {
		t.Fatalf("expected channel APP in vector, got %v", fv.Values["channel"])
	}
	if fv.Values["order_hour"] != 18 {
		t.Fatalf("expected order_hour 18 in vector, got %v", fv.Values["order_hour"])
	}

	result, err := e.Estimate(context.Background(), in)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if result.RiskLevel != models.RiskHigh {
		t.Fatalf("expected High, got %s", result.RiskLevel)
	}
	if result.RiskPercentage != 70.0 {
		t.Fatalf("expected 70.0%%, got %v", result.RiskPercentage)
	}
	if result.DisplayText != "42.0 minutes" {
		t.Fatalf("unexpected display text %q", result.DisplayText)
	}
	want := []string{"Allocate extra riders", "Notify customers", "Prepare contingency plan"}
	for i, a := range want {
		if result.Actions[i] != a {
			t.Fatalf("action %d: expected %q, got %q", i, a, result.Actions[i])
		}
	}
	if result.ModelVersion != "stub-v1" {
		t.Fatalf("expected model version stub-v1, got %q", result.ModelVersion)
	}
}

func TestEstimatePredictionErrorIsTerminal(t *testing.T) {
	e := &Estimator{
		Dataset:  dataset.New(referenceRows(), dataset.AllColumns),
		Defaults: testDefaults(t),
		Model:    stubPredictor{err: &model.PredictionError{Status: 422, Message: "bad vector"}},
		Logger:   zerolog.Nop(),
	}
	in := Inputs{Area: "Indiranagar", Pincode: 560038, OrderHour: 18, OrderDayName: "Friday", OrderMonthName: "July"}

	_, err := e.Estimate(context.Background(), in)
	var predErr *model.PredictionError
	if !errors.As(err, &predErr) {
		t.Fatalf("expected PredictionError, got %v", err)
	}
}
