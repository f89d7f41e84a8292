package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/blinkit-analytics/backend/internal/models"
)

// InputColumns is the feature schema the delay model was trained with, in
// training order. Changing this list without retraining the model breaks the
// contract checked by ValidateColumns.
var InputColumns = []string{
	"order_hour",
	"order_day_name",
	"order_month_name",
	"area",
	"pincode",
	"delivery_status",
	"order_total",
	"total_orders",
	"avg_order_value",
	"category",
	"brand",
	"quantity",
	"price",
	"item_total",
	"channel",
	"target_audience",
	"spend",
	"payment_method",
	"customer_segment",
	"rating",
	"sentiment",
	"order_minutes",
}

// UserColumns are the features a manager supplies directly; everything else
// in InputColumns is filled from dataset defaults.
var UserColumns = []string{"area", "pincode", "order_hour", "order_day_name", "order_month_name"}

// DefaultColumns returns the columns that must come from defaults, in
// training order.
func DefaultColumns() []string {
	user := make(map[string]struct{}, len(UserColumns))
	for _, c := range UserColumns {
		user[c] = struct{}{}
	}
	out := make([]string, 0, len(InputColumns)-len(UserColumns))
	for _, c := range InputColumns {
		if _, ok := user[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Predictor is the opaque external model: one feature vector in, one delay
// estimate in minutes out. Negative means early delivery.
type Predictor interface {
	Predict(ctx context.Context, fv models.FeatureVector) (float64, error)
	Version() string
}

// SchemaError reports a mismatch between the columns this service produces
// and the columns the model expects.
type SchemaError struct {
	Missing []string
	Extra   []string
	Reason  string
}

func (e *SchemaError) Error() string {
	var parts []string
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected: "+strings.Join(e.Extra, ", "))
	}
	return "model schema mismatch: " + strings.Join(parts, "; ")
}

// PredictionError means the model rejected or failed on a well-formed
// vector. Terminal for the request; never retried.
type PredictionError struct {
	Status  int
	Message string
}

func (e *PredictionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("model prediction failed (status %d): %s", e.Status, e.Message)
	}
	return "model prediction failed: " + e.Message
}

// ValidateColumns compares a produced column list against InputColumns,
// order included. Used at startup against the model's reported schema and
// defensively before each predict call.
func ValidateColumns(got []string) error {
	want := InputColumns
	if len(got) == len(want) {
		same := true
		for i := range want {
			if got[i] != want[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}

	gotSet := make(map[string]struct{}, len(got))
	for _, c := range got {
		gotSet[c] = struct{}{}
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, c := range want {
		wantSet[c] = struct{}{}
	}

	var missing, extra []string
	for _, c := range want {
		if _, ok := gotSet[c]; !ok {
			missing = append(missing, c)
		}
	}
	for _, c := range got {
		if _, ok := wantSet[c]; !ok {
			extra = append(extra, c)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return &SchemaError{Reason: "column order differs"}
	}
	return &SchemaError{Missing: missing, Extra: extra}
}
