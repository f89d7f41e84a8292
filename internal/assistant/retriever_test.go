package assistant

import (
	"strings"
	"testing"

	"github.com/blinkit-analytics/backend/internal/models"
)

func TestCleanText(t *testing.T) {
	in := "Why are HSR Layout orders LATE?? See https://status.example.com/x  now."
	got := CleanText(in)
	want := "why are hsr layout orders late see now"
	if got != want {
		t.Fatalf("CleanText: got %q, want %q", got, want)
	}
}

func TestRenderDocument(t *testing.T) {
	doc := RenderDocument(models.Order{
		OrderID: "ORD-1", Area: "Indiranagar", Brand: "Amul",
		Channel: "APP", FeedbackText: "delivery was late",
		OrderTotal: 450.50,
	})
	if !strings.Contains(doc, "ORD-1") || !strings.Contains(doc, "delivery was late") {
		t.Fatalf("document missing fields: %q", doc)
	}
	if !strings.Contains(doc, "450.5") {
		t.Fatalf("numeric formatting off: %q", doc)
	}
	if !strings.Contains(doc, " | ") {
		t.Fatalf("expected pipe-joined fields: %q", doc)
	}
}

func TestRetrieveRanksByOverlap(t *testing.T) {
	rows := []models.Order{
		{OrderID: "ORD-1", Area: "Indiranagar", Brand: "Amul", FeedbackText: "milk arrived warm"},
		{OrderID: "ORD-2", Area: "HSR Layout", Brand: "Nestle", FeedbackText: "delivery was very late in HSR Layout"},
		{OrderID: "ORD-3", Area: "Whitefield", Brand: "Amul", FeedbackText: "all good"},
	}
	r := NewRetriever(rows)

	got := r.Retrieve("why are deliveries late in HSR Layout", 2)
	if len(got) == 0 {
		t.Fatalf("expected at least one hit")
	}
	if !strings.Contains(got[0], "ORD-2") {
		t.Fatalf("expected the HSR Layout row first, got %q", got[0])
	}
	if len(got) > 2 {
		t.Fatalf("k must cap the result count, got %d", len(got))
	}
}

func TestRetrieveEmptyQuestion(t *testing.T) {
	r := NewRetriever([]models.Order{{OrderID: "ORD-1", Area: "Indiranagar"}})
	if got := r.Retrieve("???", 5); got != nil {
		t.Fatalf("a question with no tokens must retrieve nothing, got %v", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt([]string{"row one", "row two"}, "what is our busiest hour?")
	if !strings.Contains(p, "row one\nrow two") {
		t.Fatalf("context docs not joined into the prompt: %q", p)
	}
	if !strings.Contains(p, "what is our busiest hour?") {
		t.Fatalf("question missing from the prompt: %q", p)
	}
	if !strings.Contains(p, "Maximum 5 lines.") {
		t.Fatalf("persona instructions missing: %q", p)
	}
}
