package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/blinkit-analytics/backend/internal/model"
	"github.com/blinkit-analytics/backend/internal/models"
)

func fixtureRows() []models.Order {
	base := models.Order{
		Area: "Koramangala", Pincode: 560034, OrderHour: 10,
		OrderDayName: "Monday", OrderMonthName: "June",
		Category: "Dairy", Brand: "Nestle", Channel: "APP",
		TargetAudience: "Families", PaymentMethod: "Card",
		CustomerSegment: "Premium", Sentiment: "Neutral",
		DeliveryStatus: "On Time",
		Quantity:       1, Rating: 4.0, TotalOrders: 5, OrderMinutes: 18,
		OrderTotal: 300, AvgOrderValue: 280, Price: 40, ItemTotal: 40, Spend: 1000,
	}
	rows := make([]models.Order, 4)
	for i := range rows {
		rows[i] = base
	}
	rows[1].Channel = "WEB"
	rows[2].Channel = "APP"
	rows[1].Quantity = 3
	rows[2].Quantity = 2
	rows[3].Quantity = 4
	return rows
}

func TestComputeDefaultsCoversAllModelColumns(t *testing.T) {
	ds := New(fixtureRows(), AllColumns)
	defaults, err := ComputeDefaults(ds)
	if err != nil {
		t.Fatalf("compute defaults: %v", err)
	}
	for _, col := range model.DefaultColumns() {
		if _, ok := defaults[col]; !ok {
			t.Fatalf("no default for column %q", col)
		}
	}
	if len(defaults) != len(model.InputColumns)-len(model.UserColumns) {
		t.Fatalf("unexpected defaults size %d", len(defaults))
	}
}

func TestComputeDefaultsModeAndMedian(t *testing.T) {
	ds := New(fixtureRows(), AllColumns)
	defaults, err := ComputeDefaults(ds)
	if err != nil {
		t.Fatalf("compute defaults: %v", err)
	}
	if defaults["channel"] != "APP" {
		t.Fatalf("expected mode APP, got %v", defaults["channel"])
	}
	// Median of 1,2,3,4 is 2.5; count columns truncate to int.
	if defaults["quantity"] != 2 {
		t.Fatalf("expected integer median 2, got %v", defaults["quantity"])
	}
	if defaults["order_total"] != 300.0 {
		t.Fatalf("expected median 300.0, got %v", defaults["order_total"])
	}
}

func TestComputeDefaultsModeTieBreak(t *testing.T) {
	rows := fixtureRows()
	// Two WEB, two APP: the first value reaching the max count wins, and
	// rows[0] is APP.
	rows[3].Channel = "WEB"
	ds := New(rows, AllColumns)
	defaults, err := ComputeDefaults(ds)
	if err != nil {
		t.Fatalf("compute defaults: %v", err)
	}
	if defaults["channel"] != "APP" {
		t.Fatalf("expected first-seen tie-break APP, got %v", defaults["channel"])
	}
}

func TestComputeDefaultsMedianIgnoresMissing(t *testing.T) {
	rows := fixtureRows()
	rows[0].Rating = math.NaN()
	rows[1].Rating = math.NaN()
	rows[2].Rating = 3.0
	rows[3].Rating = 5.0
	ds := New(rows, AllColumns)
	defaults, err := ComputeDefaults(ds)
	if err != nil {
		t.Fatalf("compute defaults: %v", err)
	}
	if defaults["rating"] != 4.0 {
		t.Fatalf("expected median 4.0 over non-missing ratings, got %v", defaults["rating"])
	}
}

func TestComputeDefaultsMissingColumnFails(t *testing.T) {
	var columns []string
	for _, c := range AllColumns {
		if c == "spend" {
			continue
		}
		columns = append(columns, c)
	}
	ds := New(fixtureRows(), columns)

	_, err := ComputeDefaults(ds)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "spend" {
		t.Fatalf("expected the missing column to be named, got %q", schemaErr.Column)
	}
}
