package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blinkit-analytics/backend/internal/analytics"
	"github.com/blinkit-analytics/backend/internal/models"
)

// windowedRows resolves the window query params and filters the reference
// rows. Writes the error response itself; callers bail on !ok.
func (h *Handler) windowedRows(c *gin.Context) ([]models.Order, analytics.Window, bool) {
	preset := c.DefaultQuery("window", "7d")

	var start, end time.Time
	if v := c.Query("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "start must be YYYY-MM-DD", nil)
			return nil, analytics.Window{}, false
		}
		start = t
	}
	if v := c.Query("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "end must be YYYY-MM-DD", nil)
			return nil, analytics.Window{}, false
		}
		end = t
	}
	// A preset window with explicit bounds is an operator mistake, not a
	// request to quietly ignore them.
	if preset != "custom" && (!start.IsZero() || !end.IsZero()) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end require window=custom", nil)
		return nil, analytics.Window{}, false
	}

	rows := h.Estimator.Dataset.Rows
	w, err := analytics.ResolveWindow(rows, preset, start, end)
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return nil, analytics.Window{}, false
	}
	return analytics.Filter(rows, w), w, true
}

// @Summary KPI summary for a date window
// @Tags analytics
// @Produce json
// @Param window query string false "7d, 30d or custom" default(7d)
// @Param start query string false "YYYY-MM-DD, custom window only"
// @Param end query string false "YYYY-MM-DD, custom window only"
// @Success 200 {object} map[string]any
// @Router /api/analytics/summary [get]
func (h *Handler) AnalyticsSummary(c *gin.Context) {
	rows, w, ok := h.windowedRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": w, "summary": analytics.Summarize(rows)})
}

// @Summary Daily revenue against ad spend
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/analytics/daily [get]
func (h *Handler) AnalyticsDaily(c *gin.Context) {
	rows, w, ok := h.windowedRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": w, "daily": analytics.Daily(rows)})
}

// @Summary Campaign ROI by channel
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/analytics/campaigns [get]
func (h *Handler) AnalyticsCampaigns(c *gin.Context) {
	rows, w, ok := h.windowedRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": w, "campaigns": analytics.Campaigns(rows)})
}

// @Summary Sales by weekday and brand
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/analytics/sales [get]
func (h *Handler) AnalyticsSales(c *gin.Context) {
	rows, w, ok := h.windowedRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"window":   w,
		"by_day":   analytics.SalesByDay(rows),
		"by_brand": analytics.SalesByBrand(rows),
	})
}

// @Summary Hourly load and area demand
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/analytics/operations [get]
func (h *Handler) AnalyticsOperations(c *gin.Context) {
	rows, w, ok := h.windowedRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"window":  w,
		"by_hour": analytics.LoadByHour(rows),
		"by_area": analytics.DemandByArea(rows),
	})
}

// @Summary Rating distribution and negative feedback trend
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/analytics/feedback [get]
func (h *Handler) AnalyticsFeedback(c *gin.Context) {
	rows, w, ok := h.windowedRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"window":         w,
		"by_rating":      analytics.SalesByRating(rows),
		"negative_trend": analytics.NegativeFeedbackTrend(rows),
	})
}

// @Summary Raw windowed rows
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/analytics/raw [get]
func (h *Handler) AnalyticsRaw(c *gin.Context) {
	rows, w, ok := h.windowedRows(c)
	if !ok {
		return
	}
	limit := h.RawRowsLimit
	if limit <= 0 {
		limit = 500
	}
	truncated := false
	if len(rows) > limit {
		rows = rows[:limit]
		truncated = true
	}
	c.JSON(http.StatusOK, gin.H{
		"window":    w,
		"items":     analytics.RawRows(rows),
		"truncated": truncated,
	})
}
