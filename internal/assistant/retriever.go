package assistant

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/blinkit-analytics/backend/internal/models"
)

// Retriever holds the order rows rendered as flat text documents and
// answers "which rows are most relevant to this question" by token overlap.
// Built once at startup alongside the dataset; read-only afterwards.
type Retriever struct {
	docs   []string
	tokens []map[string]int
}

const DefaultTopK = 5

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	nonLetterRunes = regexp.MustCompile(`[^a-z\s]`)
	spaceRuns      = regexp.MustCompile(`\s+`)
)

// CleanText lowercases, strips URLs and anything outside a-z, and collapses
// whitespace.
func CleanText(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = nonLetterRunes.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// RenderDocument flattens one order row into the pipe-joined form the
// assistant context uses.
func RenderDocument(o models.Order) string {
	parts := []string{
		o.OrderID, o.CustomerName, o.Area, itoa(o.Pincode),
		itoa(o.OrderHour), o.OrderDayName, o.OrderMonthName,
		dateStr(o.OrderDate), dateStr(o.PromisedDate),
		o.Category, o.Brand, o.Channel, o.TargetAudience,
		o.PaymentMethod, o.CustomerSegment, o.Sentiment,
		o.DeliveryStatus, o.CampaignName, o.FeedbackText,
		ftoa(o.Quantity), ftoa(o.Rating), ftoa(o.TotalOrders),
		ftoa(o.OrderMinutes), ftoa(o.OrderTotal), ftoa(o.AvgOrderValue),
		ftoa(o.Price), ftoa(o.ItemTotal), ftoa(o.Spend),
		ftoa(o.RevenueGenerated), ftoa(o.ROAS), ftoa(o.DelayMinutes),
	}
	return strings.Join(parts, " | ")
}

func NewRetriever(rows []models.Order) *Retriever {
	r := &Retriever{
		docs:   make([]string, 0, len(rows)),
		tokens: make([]map[string]int, 0, len(rows)),
	}
	for _, o := range rows {
		doc := RenderDocument(o)
		r.docs = append(r.docs, doc)
		r.tokens = append(r.tokens, tokenize(CleanText(doc)))
	}
	return r
}

// Retrieve returns the k documents with the highest token overlap with the
// question. Ties keep the earlier row, so results are stable for a fixed
// dataset.
func (r *Retriever) Retrieve(question string, k int) []string {
	if k <= 0 {
		k = DefaultTopK
	}
	qTokens := tokenize(CleanText(question))
	if len(qTokens) == 0 {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	var candidates []scored
	for i, docTokens := range r.tokens {
		s := overlapScore(qTokens, docTokens)
		if s > 0 {
			candidates = append(candidates, scored{idx: i, score: s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, r.docs[c.idx])
	}
	return out
}

func tokenize(text string) map[string]int {
	counts := map[string]int{}
	for _, tok := range strings.Fields(text) {
		if len(tok) < 2 {
			continue
		}
		counts[tok]++
	}
	return counts
}

// overlapScore counts question tokens present in the document, weighted by
// document term frequency dampened with log to keep long rows from
// dominating.
func overlapScore(question, doc map[string]int) float64 {
	var score float64
	for tok := range question {
		if n, ok := doc[tok]; ok {
			score += 1 + math.Log(float64(n))
		}
	}
	return score
}

func itoa(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprint(v)
}

func ftoa(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func dateStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
