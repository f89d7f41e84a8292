package models

import "time"

// Order is one historical order row. The estimator uses a fixed subset of
// these columns; the analytics endpoints use the rest. Numeric fields hold
// NaN when the source cell was empty.
type Order struct {
	OrderID          string    `json:"order_id"`
	CustomerName     string    `json:"customer_name"`
	Area             string    `json:"area"`
	Pincode          int       `json:"pincode"`
	OrderHour        int       `json:"order_hour"`
	OrderDayName     string    `json:"order_day_name"`
	OrderMonthName   string    `json:"order_month_name"`
	OrderDate        time.Time `json:"order_day_only"`
	PromisedDate     time.Time `json:"promised_date"`
	Category         string    `json:"category"`
	Brand            string    `json:"brand"`
	Channel          string    `json:"channel"`
	TargetAudience   string    `json:"target_audience"`
	PaymentMethod    string    `json:"payment_method"`
	CustomerSegment  string    `json:"customer_segment"`
	Sentiment        string    `json:"sentiment"`
	DeliveryStatus   string    `json:"delivery_status"`
	CampaignName     string    `json:"campaign_name"`
	FeedbackText     string    `json:"feedback_text"`
	Quantity         float64   `json:"quantity"`
	Rating           float64   `json:"rating"`
	TotalOrders      float64   `json:"total_orders"`
	OrderMinutes     float64   `json:"order_minutes"`
	OrderTotal       float64   `json:"order_total"`
	AvgOrderValue    float64   `json:"avg_order_value"`
	Price            float64   `json:"price"`
	ItemTotal        float64   `json:"item_total"`
	Spend            float64   `json:"spend"`
	RevenueGenerated float64   `json:"revenue_generated"`
	ROAS             float64   `json:"roas"`
	DelayMinutes     float64   `json:"delay_minutes"`
}

// FeatureVector is the single row handed to the predictive model. Columns
// carries the exact order the model was trained with; Values maps each
// column to its value. The two always cover the same column set.
type FeatureVector struct {
	Columns []string       `json:"columns"`
	Values  map[string]any `json:"values"`
}

// Row returns the values in column order.
func (fv FeatureVector) Row() []any {
	out := make([]any, len(fv.Columns))
	for i, c := range fv.Columns {
		out[i] = fv.Values[c]
	}
	return out
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

type PredictionResult struct {
	RawMinutes     float64   `json:"raw_minutes"`
	DisplayMinutes float64   `json:"display_minutes"`
	DisplayText    string    `json:"display_text"`
	RiskPercentage float64   `json:"risk_percentage"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Actions        []string  `json:"actions"`
	ModelVersion   string    `json:"model_version,omitempty"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// EstimateRecord is one logged estimation, kept for operator history.
type EstimateRecord struct {
	ID             string    `json:"id"`
	Area           string    `json:"area"`
	Pincode        int       `json:"pincode"`
	OrderHour      int       `json:"order_hour"`
	OrderDayName   string    `json:"order_day_name"`
	OrderMonthName string    `json:"order_month_name"`
	RawMinutes     float64   `json:"raw_minutes"`
	RiskPercentage float64   `json:"risk_percentage"`
	RiskLevel      RiskLevel `json:"risk_level"`
	ModelVersion   string    `json:"model_version"`
	CreatedAt      time.Time `json:"created_at"`
}
