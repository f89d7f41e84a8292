package dataset

import (
	"math"
	"sort"

	"github.com/blinkit-analytics/backend/internal/model"
	"github.com/blinkit-analytics/backend/internal/models"
)

// Defaults maps every model input the manager does not supply to a single
// representative value: the most frequent value for categorical columns,
// the median for numeric ones.
type Defaults map[string]any

var categoricalGetters = map[string]func(models.Order) string{
	"category":         func(o models.Order) string { return o.Category },
	"brand":            func(o models.Order) string { return o.Brand },
	"channel":          func(o models.Order) string { return o.Channel },
	"target_audience":  func(o models.Order) string { return o.TargetAudience },
	"payment_method":   func(o models.Order) string { return o.PaymentMethod },
	"customer_segment": func(o models.Order) string { return o.CustomerSegment },
	"sentiment":        func(o models.Order) string { return o.Sentiment },
	"delivery_status":  func(o models.Order) string { return o.DeliveryStatus },
}

var numericGetters = map[string]func(models.Order) float64{
	"quantity":        func(o models.Order) float64 { return o.Quantity },
	"rating":          func(o models.Order) float64 { return o.Rating },
	"total_orders":    func(o models.Order) float64 { return o.TotalOrders },
	"order_minutes":   func(o models.Order) float64 { return o.OrderMinutes },
	"order_total":     func(o models.Order) float64 { return o.OrderTotal },
	"avg_order_value": func(o models.Order) float64 { return o.AvgOrderValue },
	"price":           func(o models.Order) float64 { return o.Price },
	"item_total":      func(o models.Order) float64 { return o.ItemTotal },
	"spend":           func(o models.Order) float64 { return o.Spend },
}

// Count-like columns keep integer medians, matching the trained pipeline's
// input dtypes.
var integerMedians = map[string]bool{
	"quantity":      true,
	"total_orders":  true,
	"order_minutes": true,
}

// ComputeDefaults derives the filler value for every model input outside
// the five manager-supplied fields. Pure; intended to run once at startup
// and be held for the process lifetime. A column the estimator needs but
// the source never carried is a SchemaError, not a silent substitution.
func ComputeDefaults(d *Dataset) (Defaults, error) {
	out := make(Defaults, len(model.InputColumns))
	for _, col := range model.DefaultColumns() {
		if !d.HasColumn(col) {
			return nil, &SchemaError{Column: col}
		}
		if get, ok := categoricalGetters[col]; ok {
			v, err := modeValue(d.Rows, col, get)
			if err != nil {
				return nil, err
			}
			out[col] = v
			continue
		}
		if get, ok := numericGetters[col]; ok {
			v, err := medianValue(d.Rows, col, get)
			if err != nil {
				return nil, err
			}
			if integerMedians[col] {
				out[col] = int(v)
			} else {
				out[col] = v
			}
			continue
		}
		return nil, &SchemaError{Column: col, Reason: "no accessor registered"}
	}
	return out, nil
}

// modeValue returns the most frequent non-empty value. Ties break on the
// first value reaching the max count in row order, which is deterministic
// for a fixed dataset.
func modeValue(rows []models.Order, col string, get func(models.Order) string) (string, error) {
	counts := map[string]int{}
	var order []string
	for _, o := range rows {
		v := get(o)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	if len(order) == 0 {
		return "", &SchemaError{Column: col, Reason: "no observed values"}
	}
	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, nil
}

// medianValue ignores NaN cells. Even-length medians average the middle
// pair.
func medianValue(rows []models.Order, col string, get func(models.Order) float64) (float64, error) {
	var vals []float64
	for _, o := range rows {
		v := get(o)
		if math.IsNaN(v) {
			continue
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return 0, &SchemaError{Column: col, Reason: "no observed values"}
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], nil
	}
	return (vals[mid-1] + vals[mid]) / 2, nil
}
