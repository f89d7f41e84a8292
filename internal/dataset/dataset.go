package dataset

import (
	"fmt"
	"sort"

	"github.com/blinkit-analytics/backend/internal/models"
)

// Dataset is the immutable reference table of historical orders. It is
// loaded once at startup and only ever read after that, so it is safe to
// share across requests without locking.
type Dataset struct {
	Rows []models.Order

	columns map[string]struct{}
}

// SchemaError means the reference data is missing a column the estimator
// needs. Surfaced to the operator rather than silently patched.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("dataset column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("dataset is missing required column %q", e.Column)
}

// New builds a dataset from already-parsed rows. columns lists the column
// names actually present in the source; rows loaded from the database carry
// the full schema (AllColumns).
func New(rows []models.Order, columns []string) *Dataset {
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return &Dataset{Rows: rows, columns: set}
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Areas returns the distinct areas in first-seen order.
func (d *Dataset) Areas() []string {
	return d.uniqueStrings(func(o models.Order) string { return o.Area })
}

// Pincodes returns the distinct pincodes observed for an area, ascending.
func (d *Dataset) Pincodes(area string) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, o := range d.Rows {
		if o.Area != area || o.Pincode == 0 {
			continue
		}
		if _, ok := seen[o.Pincode]; ok {
			continue
		}
		seen[o.Pincode] = struct{}{}
		out = append(out, o.Pincode)
	}
	sort.Ints(out)
	return out
}

func (d *Dataset) DayNames() []string {
	return d.uniqueStrings(func(o models.Order) string { return o.OrderDayName })
}

func (d *Dataset) MonthNames() []string {
	return d.uniqueStrings(func(o models.Order) string { return o.OrderMonthName })
}

func (d *Dataset) uniqueStrings(get func(models.Order) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, o := range d.Rows {
		v := get(o)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
