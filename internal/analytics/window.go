package analytics

import (
	"fmt"
	"time"

	"github.com/blinkit-analytics/backend/internal/models"
)

// Window is an inclusive date range over order dates.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ResolveWindow turns a preset ("7d", "30d" or "custom") into a concrete
// range. Presets are anchored to the newest order date in the data, not the
// wall clock, so a stale dataset still shows its last week of activity.
func ResolveWindow(rows []models.Order, preset string, start, end time.Time) (Window, error) {
	switch preset {
	case "", "7d", "30d":
		maxDate := maxOrderDate(rows)
		if maxDate.IsZero() {
			return Window{}, fmt.Errorf("dataset has no order dates")
		}
		days := 7
		if preset == "30d" {
			days = 30
		}
		return Window{Start: maxDate.AddDate(0, 0, -days), End: maxDate}, nil
	case "custom":
		if start.IsZero() || end.IsZero() {
			return Window{}, fmt.Errorf("custom window requires start and end")
		}
		if end.Before(start) {
			return Window{}, fmt.Errorf("window end before start")
		}
		return Window{Start: start, End: end}, nil
	default:
		return Window{}, fmt.Errorf("unknown window preset %q", preset)
	}
}

// Filter keeps rows whose order date falls inside the window, bounds
// included. Rows without a date never match.
func Filter(rows []models.Order, w Window) []models.Order {
	out := make([]models.Order, 0, len(rows))
	for _, o := range rows {
		if o.OrderDate.IsZero() {
			continue
		}
		if o.OrderDate.Before(w.Start) || o.OrderDate.After(w.End) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func maxOrderDate(rows []models.Order) time.Time {
	var max time.Time
	for _, o := range rows {
		if o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}
	return max
}
