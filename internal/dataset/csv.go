package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blinkit-analytics/backend/internal/models"
)

// AllColumns is the full source schema, estimator columns plus the
// dashboard-only ones.
var AllColumns = []string{
	"order_id", "customer_name",
	"area", "pincode", "order_hour", "order_day_name", "order_month_name",
	"order_day_only", "promised_date",
	"category", "brand", "channel", "target_audience", "payment_method",
	"customer_segment", "sentiment", "delivery_status", "campaign_name",
	"feedback_text",
	"quantity", "rating", "total_orders", "order_minutes", "order_total",
	"avg_order_value", "price", "item_total", "spend",
	"revenue_generated", "roas", "delay_minutes",
}

// Header aliases seen across the historical exports.
var columnAliases = map[string][]string{
	"order_id":       {"order_id", "order id", "orderid", "id"},
	"customer_name":  {"customer_name", "customer name", "customer"},
	"area":           {"area", "locality"},
	"pincode":        {"pincode", "pin_code", "pin code", "postal_code"},
	"order_hour":     {"order_hour", "hour"},
	"order_day_name": {"order_day_name", "day_name", "order_day"},
	"order_month_name": {"order_month_name", "month_name", "order_month"},
	"order_day_only": {"order_day_only", "order_date", "date"},
	"promised_date":  {"promised_date", "promised date"},
	"category":       {"category"},
	"brand":          {"brand"},
	"channel":        {"channel"},
	"target_audience": {"target_audience", "target audience"},
	"payment_method": {"payment_method", "payment method"},
	"customer_segment": {"customer_segment", "customer segment", "segment"},
	"sentiment":      {"sentiment"},
	"delivery_status": {"delivery_status", "delivery status"},
	"campaign_name":  {"campaign_name", "campaign"},
	"feedback_text":  {"feedback_text", "feedback"},
	"quantity":       {"quantity", "qty"},
	"rating":         {"rating"},
	"total_orders":   {"total_orders", "total orders"},
	"order_minutes":  {"order_minutes", "order minutes"},
	"order_total":    {"order_total", "order total"},
	"avg_order_value": {"avg_order_value", "avg order value", "aov"},
	"price":          {"price", "unit_price"},
	"item_total":     {"item_total", "item total"},
	"spend":          {"spend", "ad_spend"},
	"revenue_generated": {"revenue_generated", "revenue"},
	"roas":           {"roas"},
	"delay_minutes":  {"delay_minutes", "delay"},
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02-01-2006", "01/02/2006"}

// ParseOrders reads an orders CSV. Returns the parsed rows, the canonical
// column names found in the header, and per-row parse errors (a bad row is
// skipped, not fatal).
func ParseOrders(r io.Reader) ([]models.Order, []string, []string) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)

	var present []string
	for _, col := range AllColumns {
		if _, ok := findColumn(index, col); ok {
			present = append(present, col)
		}
	}

	var rows []models.Order
	var parseErrs []string
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			parseErrs = append(parseErrs, err.Error())
			continue
		}

		o := models.Order{
			OrderID:         field(rec, index, "order_id"),
			CustomerName:    field(rec, index, "customer_name"),
			Area:            field(rec, index, "area"),
			OrderDayName:    field(rec, index, "order_day_name"),
			OrderMonthName:  field(rec, index, "order_month_name"),
			Category:        field(rec, index, "category"),
			Brand:           field(rec, index, "brand"),
			Channel:         field(rec, index, "channel"),
			TargetAudience:  field(rec, index, "target_audience"),
			PaymentMethod:   field(rec, index, "payment_method"),
			CustomerSegment: field(rec, index, "customer_segment"),
			Sentiment:       field(rec, index, "sentiment"),
			DeliveryStatus:  field(rec, index, "delivery_status"),
			CampaignName:    field(rec, index, "campaign_name"),
			FeedbackText:    field(rec, index, "feedback_text"),
		}

		o.Pincode, _ = strconv.Atoi(field(rec, index, "pincode"))
		hour, err := strconv.Atoi(field(rec, index, "order_hour"))
		if err != nil || hour < 0 || hour > 23 {
			parseErrs = append(parseErrs, fmt.Sprintf("line %d: bad order_hour", line))
			continue
		}
		o.OrderHour = hour

		o.OrderDate = parseDate(field(rec, index, "order_day_only"))
		o.PromisedDate = parseDate(field(rec, index, "promised_date"))

		o.Quantity = parseNumeric(field(rec, index, "quantity"))
		o.Rating = parseNumeric(field(rec, index, "rating"))
		o.TotalOrders = parseNumeric(field(rec, index, "total_orders"))
		o.OrderMinutes = parseNumeric(field(rec, index, "order_minutes"))
		o.OrderTotal = parseNumeric(field(rec, index, "order_total"))
		o.AvgOrderValue = parseNumeric(field(rec, index, "avg_order_value"))
		o.Price = parseNumeric(field(rec, index, "price"))
		o.ItemTotal = parseNumeric(field(rec, index, "item_total"))
		o.Spend = parseNumeric(field(rec, index, "spend"))
		o.RevenueGenerated = parseNumeric(field(rec, index, "revenue_generated"))
		o.ROAS = parseNumeric(field(rec, index, "roas"))
		o.DelayMinutes = parseNumeric(field(rec, index, "delay_minutes"))

		rows = append(rows, o)
	}
	return rows, present, parseErrs
}

// Load reads the reference dataset from a CSV file. Row-level parse errors
// are tolerated; an unreadable file or empty result is not.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, columns, parseErrs := ParseOrders(f)
	if len(rows) == 0 {
		if len(parseErrs) > 0 {
			return nil, fmt.Errorf("no usable rows in %s: %s", path, parseErrs[0])
		}
		return nil, fmt.Errorf("no rows in %s", path)
	}
	return New(rows, columns), nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	return strings.ToLower(strings.TrimSpace(h))
}

func findColumn(idx map[string]int, canonical string) (int, bool) {
	for _, alias := range columnAliases[canonical] {
		if pos, ok := idx[normalizeHeader(alias)]; ok {
			return pos, true
		}
	}
	return 0, false
}

func field(rec []string, idx map[string]int, canonical string) string {
	pos, ok := findColumn(idx, canonical)
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

// parseNumeric maps an empty or malformed cell to NaN so downstream
// aggregation can skip it the way the source tooling skipped nulls.
func parseNumeric(v string) float64 {
	if v == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
