package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/blinkit-analytics/backend/internal/models"
)

// Summary is the dashboard KPI strip over one window.
type Summary struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalAdSpend    float64 `json:"total_ad_spend"`
	AvgROAS         float64 `json:"avg_roas"`
	AvgDelayMinutes float64 `json:"avg_delay_minutes"`
	Orders          int     `json:"orders"`
}

type DailyPoint struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	Spend   float64   `json:"spend"`
}

type CampaignPerformance struct {
	Campaign string   `json:"campaign_name"`
	Channel  string   `json:"channel"`
	Spend    float64  `json:"total_spend"`
	Revenue  float64  `json:"total_revenue"`
	ROI      *float64 `json:"roi"` // nil when the campaign had no spend
}

type DaySales struct {
	Day     string  `json:"order_day_name"`
	Orders  int     `json:"total_orders"`
	Revenue float64 `json:"total_revenue"`
}

type BrandSales struct {
	Brand   string  `json:"brand"`
	Revenue float64 `json:"revenue"`
}

type HourlyLoad struct {
	Hour    int     `json:"order_hour"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type AreaDemand struct {
	Area    string  `json:"area"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type RatingSales struct {
	Rating  float64 `json:"rating"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type FeedbackPoint struct {
	Date              time.Time `json:"promised_date"`
	NegativeFeedbacks int       `json:"negative_feedbacks"`
}

// Summarize computes the KPI strip. NaN cells (absent in the source) are
// skipped, matching how the exports treated nulls.
func Summarize(rows []models.Order) Summary {
	var s Summary
	var roasSum, delaySum float64
	var roasN, delayN int
	for _, o := range rows {
		s.Orders++
		s.TotalRevenue += nanZero(o.RevenueGenerated)
		s.TotalAdSpend += nanZero(o.Spend)
		if !math.IsNaN(o.ROAS) {
			roasSum += o.ROAS
			roasN++
		}
		if !math.IsNaN(o.DelayMinutes) {
			delaySum += o.DelayMinutes
			delayN++
		}
	}
	if roasN > 0 {
		s.AvgROAS = round2(roasSum / float64(roasN))
	}
	if delayN > 0 {
		s.AvgDelayMinutes = round1(delaySum / float64(delayN))
	}
	return s
}

// Daily groups revenue against ad spend per order date, ascending.
func Daily(rows []models.Order) []DailyPoint {
	byDate := map[time.Time]*DailyPoint{}
	for _, o := range rows {
		if o.OrderDate.IsZero() {
			continue
		}
		p, ok := byDate[o.OrderDate]
		if !ok {
			p = &DailyPoint{Date: o.OrderDate}
			byDate[o.OrderDate] = p
		}
		p.Revenue += nanZero(o.RevenueGenerated)
		p.Spend += nanZero(o.Spend)
	}
	out := make([]DailyPoint, 0, len(byDate))
	for _, p := range byDate {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Campaigns aggregates spend and order revenue per campaign and channel.
// ROI is revenue over spend; campaigns with zero spend get a nil ROI rather
// than an infinity.
func Campaigns(rows []models.Order) []CampaignPerformance {
	type key struct{ campaign, channel string }
	byKey := map[key]*CampaignPerformance{}
	var order []key
	for _, o := range rows {
		if o.CampaignName == "" {
			continue
		}
		k := key{o.CampaignName, o.Channel}
		p, ok := byKey[k]
		if !ok {
			p = &CampaignPerformance{Campaign: k.campaign, Channel: k.channel}
			byKey[k] = p
			order = append(order, k)
		}
		p.Spend += nanZero(o.Spend)
		p.Revenue += nanZero(o.OrderTotal)
	}
	out := make([]CampaignPerformance, 0, len(order))
	for _, k := range order {
		p := byKey[k]
		if p.Spend > 0 {
			roi := round2(p.Revenue / p.Spend)
			p.ROI = &roi
		}
		out = append(out, *p)
	}
	return out
}

var weekdayOrder = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

// SalesByDay counts orders and revenue per weekday, Monday first.
func SalesByDay(rows []models.Order) []DaySales {
	byDay := map[string]*DaySales{}
	for _, o := range rows {
		if o.OrderDayName == "" {
			continue
		}
		p, ok := byDay[o.OrderDayName]
		if !ok {
			p = &DaySales{Day: o.OrderDayName}
			byDay[o.OrderDayName] = p
		}
		p.Orders++
		p.Revenue += nanZero(o.OrderTotal)
	}
	out := make([]DaySales, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return weekdayOrder[out[i].Day] < weekdayOrder[out[j].Day] })
	return out
}

// SalesByBrand returns revenue per brand, highest first.
func SalesByBrand(rows []models.Order) []BrandSales {
	byBrand := map[string]float64{}
	for _, o := range rows {
		if o.Brand == "" {
			continue
		}
		byBrand[o.Brand] += nanZero(o.OrderTotal)
	}
	out := make([]BrandSales, 0, len(byBrand))
	for b, r := range byBrand {
		out = append(out, BrandSales{Brand: b, Revenue: r})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue == out[j].Revenue {
			return out[i].Brand < out[j].Brand
		}
		return out[i].Revenue > out[j].Revenue
	})
	return out
}

// LoadByHour shows the peak-hour profile, hour ascending.
func LoadByHour(rows []models.Order) []HourlyLoad {
	byHour := map[int]*HourlyLoad{}
	for _, o := range rows {
		p, ok := byHour[o.OrderHour]
		if !ok {
			p = &HourlyLoad{Hour: o.OrderHour}
			byHour[o.OrderHour] = p
		}
		p.Orders++
		p.Revenue += nanZero(o.OrderTotal)
	}
	out := make([]HourlyLoad, 0, len(byHour))
	for _, p := range byHour {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// DemandByArea counts orders per area, busiest first.
func DemandByArea(rows []models.Order) []AreaDemand {
	byArea := map[string]*AreaDemand{}
	for _, o := range rows {
		if o.Area == "" {
			continue
		}
		p, ok := byArea[o.Area]
		if !ok {
			p = &AreaDemand{Area: o.Area}
			byArea[o.Area] = p
		}
		p.Orders++
		p.Revenue += nanZero(o.OrderTotal)
	}
	out := make([]AreaDemand, 0, len(byArea))
	for _, p := range byArea {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orders == out[j].Orders {
			return out[i].Area < out[j].Area
		}
		return out[i].Orders > out[j].Orders
	})
	return out
}

// SalesByRating groups orders per rating value, ascending.
func SalesByRating(rows []models.Order) []RatingSales {
	byRating := map[float64]*RatingSales{}
	for _, o := range rows {
		if math.IsNaN(o.Rating) {
			continue
		}
		p, ok := byRating[o.Rating]
		if !ok {
			p = &RatingSales{Rating: o.Rating}
			byRating[o.Rating] = p
		}
		p.Orders++
		p.Revenue += nanZero(o.OrderTotal)
	}
	out := make([]RatingSales, 0, len(byRating))
	for _, p := range byRating {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	return out
}

// NegativeFeedbackTrend counts negative-sentiment orders per promised date,
// newest first. Sentiment matching is case-insensitive.
func NegativeFeedbackTrend(rows []models.Order) []FeedbackPoint {
	byDate := map[time.Time]int{}
	for _, o := range rows {
		if !strings.EqualFold(strings.TrimSpace(o.Sentiment), "negative") {
			continue
		}
		if o.PromisedDate.IsZero() {
			continue
		}
		byDate[o.PromisedDate]++
	}
	out := make([]FeedbackPoint, 0, len(byDate))
	for d, n := range byDate {
		out = append(out, FeedbackPoint{Date: d, NegativeFeedbacks: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// RawRow is the operator-facing raw-table projection of an order. Numeric
// fields are pointers so missing source cells serialize as null instead of
// tripping the JSON encoder on NaN.
type RawRow struct {
	OrderDate        time.Time `json:"order_day_only"`
	CustomerName     string    `json:"customer_name"`
	Area             string    `json:"area"`
	Pincode          int       `json:"pincode"`
	CustomerSegment  string    `json:"customer_segment"`
	CampaignName     string    `json:"campaign_name"`
	Channel          string    `json:"channel"`
	OrderTotal       *float64  `json:"order_total"`
	TotalOrders      *float64  `json:"total_orders"`
	RevenueGenerated *float64  `json:"revenue_generated"`
	Spend            *float64  `json:"spend"`
	ROAS             *float64  `json:"roas"`
	DeliveryStatus   string    `json:"delivery_status"`
	DelayMinutes     *float64  `json:"delay_minutes"`
	Rating           *float64  `json:"rating"`
	Sentiment        string    `json:"sentiment"`
}

func RawRows(rows []models.Order) []RawRow {
	out := make([]RawRow, 0, len(rows))
	for _, o := range rows {
		out = append(out, RawRow{
			OrderDate:        o.OrderDate,
			CustomerName:     o.CustomerName,
			Area:             o.Area,
			Pincode:          o.Pincode,
			CustomerSegment:  o.CustomerSegment,
			CampaignName:     o.CampaignName,
			Channel:          o.Channel,
			OrderTotal:       nilIfNaN(o.OrderTotal),
			TotalOrders:      nilIfNaN(o.TotalOrders),
			RevenueGenerated: nilIfNaN(o.RevenueGenerated),
			Spend:            nilIfNaN(o.Spend),
			ROAS:             nilIfNaN(o.ROAS),
			DeliveryStatus:   o.DeliveryStatus,
			DelayMinutes:     nilIfNaN(o.DelayMinutes),
			Rating:           nilIfNaN(o.Rating),
			Sentiment:        o.Sentiment,
		})
	}
	return out
}

func nilIfNaN(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nanZero(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
