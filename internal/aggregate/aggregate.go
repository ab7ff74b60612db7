// Package aggregate turns collections of RMK entries into grouped totals.
//
// Every function is pure: it reads the entries it is given, never mutates
// them, keeps no state between calls and performs no I/O. Functions are safe
// to call concurrently on the same slice as long as the caller does not
// modify it at the same time.
//
// Months are 1-based (time.January == 1). Entries with an empty category or
// a zero date are malformed and are skipped by every function; see Valid.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmk-dev/rmk/internal/model"
)

// Valid reports whether e can take part in aggregation.
func Valid(e model.Entry) bool {
	return e.Category != "" && !e.Date.IsZero()
}

// Invalid returns the malformed entries of entries, in input order.
func Invalid(entries []model.Entry) []model.Entry {
	var bad []model.Entry
	for _, e := range entries {
		if !Valid(e) {
			bad = append(bad, e)
		}
	}
	return bad
}

// TotalForCategory sums the amounts of entries whose category equals category exactly.
func TotalForCategory(entries []model.Entry, category string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if Valid(e) && e.Category == category {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// GroupTotalsByCategory sums amounts per category. Only categories present
// in entries appear in the result.
func GroupTotalsByCategory(entries []model.Entry) Totals {
	return groupBy(entries, func(model.Entry) bool { return true })
}

// MonthlySummary groups the entries dated in the given month of year by category.
func MonthlySummary(entries []model.Entry, month time.Month, year int) Totals {
	return groupBy(entries, inMonth(month, year))
}

// PeriodSummary groups the entries dated within [start, end] by category.
// A period whose start is after its end is empty.
func PeriodSummary(entries []model.Entry, start, end model.Date) Totals {
	if start.After(end) {
		return Totals{}
	}
	return groupBy(entries, inPeriod(start, end))
}

// OverallTotal sums the amounts of all entries.
func OverallTotal(entries []model.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if Valid(e) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func groupBy(entries []model.Entry, keep func(model.Entry) bool) Totals {
	totals := Totals{}
	for _, e := range entries {
		if !Valid(e) || !keep(e) {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

func inMonth(month time.Month, year int) func(model.Entry) bool {
	return func(e model.Entry) bool {
		return e.Date.Month == month && e.Date.Year == year
	}
}

func inPeriod(start, end model.Date) func(model.Entry) bool {
	return func(e model.Entry) bool {
		return !e.Date.Before(start) && !e.Date.After(end)
	}
}
