package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/blinkit-analytics/backend/internal/models"
)

// HTTPPredictor talks to the model service that serves the trained delay
// pipeline. The artifact itself is opaque to this backend.
type HTTPPredictor struct {
	BaseURL string
	Client  *http.Client

	version string
}

type schemaResponse struct {
	Columns      []string `json:"columns"`
	ModelVersion string   `json:"model_version"`
}

type predictRequest struct {
	Columns []string       `json:"columns"`
	Record  map[string]any `json:"record"`
}

type predictResponse struct {
	DelayMinutes float64 `json:"delay_minutes"`
}

func NewHTTPPredictor(ctx context.Context, baseURL string) (*HTTPPredictor, error) {
	p := &HTTPPredictor{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
	if err := p.checkSchema(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// checkSchema fetches the model's expected input columns and fails fast on
// any difference from what this service will produce.
func (p *HTTPPredictor) checkSchema(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/schema", nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch model schema: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch model schema: status %d", resp.StatusCode)
	}
	var s schemaResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return fmt.Errorf("decode model schema: %w", err)
	}
	if err := ValidateColumns(s.Columns); err != nil {
		return err
	}
	p.version = s.ModelVersion
	return nil
}

func (p *HTTPPredictor) Predict(ctx context.Context, fv models.FeatureVector) (float64, error) {
	if err := ValidateColumns(fv.Columns); err != nil {
		return 0, err
	}

	payload := predictRequest{Columns: fv.Columns, Record: fv.Values}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/predict", bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &PredictionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := errBody.Error
		if msg == "" {
			msg = resp.Status
		}
		return 0, &PredictionError{Status: resp.StatusCode, Message: msg}
	}

	var r predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return 0, &PredictionError{Message: "decode prediction: " + err.Error()}
	}
	return r.DelayMinutes, nil
}

// Version is the model version reported by the schema endpoint at startup.
// The field is never written after NewHTTPPredictor returns, so concurrent
// requests can read it without locking.
func (p *HTTPPredictor) Version() string {
	return p.version
}
