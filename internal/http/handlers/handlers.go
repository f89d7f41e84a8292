package handlers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/blinkit-analytics/backend/internal/assistant"
	"github.com/blinkit-analytics/backend/internal/dataset"
	"github.com/blinkit-analytics/backend/internal/db"
	"github.com/blinkit-analytics/backend/internal/estimator"
	"github.com/blinkit-analytics/backend/internal/model"
	"github.com/blinkit-analytics/backend/internal/models"
)

type Handler struct {
	Store        *db.Store
	Estimator    *estimator.Estimator
	Assistant    assistant.Assistant
	Retriever    *assistant.Retriever
	Validator    *validator.Validate
	Logger       zerolog.Logger
	AdminKey     string
	RawRowsLimit int
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := h.Store.Ping(ctx); err != nil {
			writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Dropdown domains for the estimation form
// @Tags estimate
// @Produce json
// @Param area query string false "Limit pincodes to one area"
// @Success 200 {object} map[string]any
// @Router /api/options [get]
func (h *Handler) Options(c *gin.Context) {
	ds := h.Estimator.Dataset

	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}

	resp := gin.H{
		"areas":  ds.Areas(),
		"hours":  hours,
		"days":   ds.DayNames(),
		"months": ds.MonthNames(),
	}
	if area := strings.TrimSpace(c.Query("area")); area != "" {
		resp["pincodes"] = ds.Pincodes(area)
	}
	c.JSON(http.StatusOK, resp)
}

type EstimateRequest struct {
	Area           string `json:"area" validate:"required"`
	Pincode        int    `json:"pincode" validate:"required"`
	OrderHour      *int   `json:"order_hour" validate:"required"`
	OrderDayName   string `json:"order_day_name" validate:"required"`
	OrderMonthName string `json:"order_month_name" validate:"required"`
}

// @Summary Estimate delivery delay risk
// @Tags estimate
// @Accept json
// @Produce json
// @Param request body EstimateRequest true "Manager inputs"
// @Success 200 {object} models.PredictionResult
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/estimate [post]
func (h *Handler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	in := estimator.Inputs{
		Area:           req.Area,
		Pincode:        req.Pincode,
		OrderHour:      *req.OrderHour,
		OrderDayName:   req.OrderDayName,
		OrderMonthName: req.OrderMonthName,
	}

	result, err := h.Estimator.Estimate(c.Request.Context(), in)
	if err != nil {
		h.writeEstimateError(c, err)
		return
	}

	if h.Store != nil {
		rec := models.EstimateRecord{
			Area:           in.Area,
			Pincode:        in.Pincode,
			OrderHour:      in.OrderHour,
			OrderDayName:   in.OrderDayName,
			OrderMonthName: in.OrderMonthName,
			RawMinutes:     result.RawMinutes,
			RiskPercentage: result.RiskPercentage,
			RiskLevel:      result.RiskLevel,
			ModelVersion:   result.ModelVersion,
			CreatedAt:      result.GeneratedAt,
		}
		if err := h.Store.LogEstimate(c.Request.Context(), rec); err != nil {
			// History is best effort; the estimate itself already succeeded.
			h.Logger.Warn().Err(err).Msg("failed to log estimate")
		}
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeEstimateError(c *gin.Context, err error) {
	var valErr *estimator.ValidationError
	var schemaErr *dataset.SchemaError
	var modelSchemaErr *model.SchemaError
	var predErr *model.PredictionError

	switch {
	case errors.As(err, &valErr):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", valErr.Error(), gin.H{"field": valErr.Field})
	case errors.As(err, &schemaErr):
		h.Logger.Error().Err(err).Msg("schema error during estimation")
		writeError(c, http.StatusInternalServerError, "SCHEMA_ERROR", schemaErr.Error(), nil)
	case errors.As(err, &modelSchemaErr):
		h.Logger.Error().Err(err).Msg("model rejected feature schema")
		writeError(c, http.StatusInternalServerError, "SCHEMA_ERROR", modelSchemaErr.Error(), nil)
	case errors.As(err, &predErr):
		h.Logger.Error().Err(err).Msg("prediction failed")
		writeError(c, http.StatusBadGateway, "PREDICTION_ERROR", "Model prediction failed", predErr.Error())
	default:
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Estimation failed", err.Error())
	}
}

// @Summary Recent logged estimates
// @Tags estimate
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/estimates [get]
func (h *Handler) EstimatesList(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be an integer", nil)
			return
		}
		limit = n
	}
	if h.Store == nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Estimate history requires a database", nil)
		return
	}
	items, err := h.Store.ListEstimates(c.Request.Context(), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list estimates", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit})
}

type ImportSummary struct {
	Parsed   int      `json:"parsed"`
	Inserted int      `json:"inserted"`
	Errors   []string `json:"errors"`
}

// @Summary Import orders CSV
// @Description Replace the stored orders table with an uploaded CSV
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param orders formData file true "orders.csv"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]any
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	if h.Store == nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Import requires a database", nil)
		return
	}

	fileHeader, err := c.FormFile("orders")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "orders file required", nil)
		return
	}
	if strings.ToLower(filepath.Ext(fileHeader.Filename)) != ".csv" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "orders file must be .csv", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to open upload", err.Error())
		return
	}
	defer f.Close()

	rows, _, parseErrs := dataset.ParseOrders(f)
	summary := ImportSummary{Parsed: len(rows), Errors: parseErrs}
	if summary.Errors == nil {
		summary.Errors = []string{}
	}
	if len(rows) == 0 {
		writeError(c, http.StatusBadRequest, "CSV_PARSE_ERROR", "no usable rows in upload", parseErrs)
		return
	}

	inserted, err := h.Store.ReplaceOrders(c.Request.Context(), rows)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to store orders", err.Error())
		return
	}
	summary.Inserted = int(inserted)

	// The in-memory reference dataset stays as loaded at startup; a restart
	// picks up the new table. Keeping it immutable avoids locking on the
	// estimation path.
	c.JSON(http.StatusOK, summary)
}

type ChatRequest struct {
	Question string                  `json:"question" validate:"required"`
	History  []assistant.ChatMessage `json:"history"`
}

// @Summary Ask the business assistant
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Question with optional history"
// @Success 200 {object} map[string]any
// @Failure 429 {object} map[string]any
// @Router /api/assistant/chat [post]
func (h *Handler) AssistantChat(c *gin.Context) {
	if h.Assistant == nil {
		writeError(c, http.StatusServiceUnavailable, "ASSISTANT_UNAVAILABLE", "Assistant is not configured", nil)
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	docs := h.Retriever.Retrieve(req.Question, assistant.DefaultTopK)
	prompt := assistant.BuildPrompt(docs, req.Question)

	answer, err := h.Assistant.Ask(c.Request.Context(), prompt, req.History)
	if err != nil {
		var rateErr assistant.RateLimitError
		if errors.As(err, &rateErr) {
			details := gin.H{}
			if rateErr.RetryAfter > 0 {
				details["retry_after"] = rateErr.RetryAfter.String()
			}
			writeError(c, http.StatusTooManyRequests, "RATE_LIMITED", "Assistant is rate limited", details)
			return
		}
		writeError(c, http.StatusBadGateway, "ASSISTANT_ERROR", "Assistant request failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":       answer,
		"context_rows": len(docs),
	})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
