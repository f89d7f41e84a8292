package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chatServer(t *testing.T, calls *int, status int, body any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
}

func TestAskCachesAnswers(t *testing.T) {
	calls := 0
	srv := chatServer(t, &calls, http.StatusOK, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": "Friday evenings are busiest."}},
		},
	})
	defer srv.Close()

	a := &OpenAICompatAssistant{BaseURL: srv.URL, Model: "test-model"}
	for i := 0; i < 3; i++ {
		got, err := a.Ask(context.Background(), "busiest day?", nil)
		if err != nil {
			t.Fatalf("ask: %v", err)
		}
		if got != "Friday evenings are busiest." {
			t.Fatalf("unexpected answer %q", got)
		}
	}
	if calls != 1 {
		t.Fatalf("repeated prompt must be served from cache, got %d upstream calls", calls)
	}
}

func TestAskRateLimited(t *testing.T) {
	calls := 0
	srv := chatServer(t, &calls, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{
			"details": []map[string]any{
				{"@type": "type.googleapis.com/google.rpc.RetryInfo", "retryDelay": "21s"},
			},
		},
	})
	defer srv.Close()

	a := &OpenAICompatAssistant{BaseURL: srv.URL, Model: "test-model"}
	_, err := a.Ask(context.Background(), "busiest day?", nil)
	var rle RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rle.RetryAfter != 21*time.Second {
		t.Fatalf("expected retry-after 21s, got %v", rle.RetryAfter)
	}
}

func TestAskRequiresConfig(t *testing.T) {
	a := &OpenAICompatAssistant{}
	if _, err := a.Ask(context.Background(), "hi", nil); err == nil {
		t.Fatalf("missing base URL must fail")
	}
	a.BaseURL = "http://localhost:0"
	if _, err := a.Ask(context.Background(), "hi", nil); err == nil {
		t.Fatalf("missing model must fail")
	}
}
