package aggregate

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmk-dev/rmk/internal/model"
)

// ByCategory returns the entries whose category equals category exactly.
func ByCategory(entries []model.Entry, category string) []model.Entry {
	return filter(entries, func(e model.Entry) bool { return e.Category == category })
}

// InMonth returns the entries dated in the given month of year.
func InMonth(entries []model.Entry, month time.Month, year int) []model.Entry {
	return filter(entries, inMonth(month, year))
}

// InPeriod returns the entries dated within [start, end].
func InPeriod(entries []model.Entry, start, end model.Date) []model.Entry {
	if start.After(end) {
		return nil
	}
	return filter(entries, inPeriod(start, end))
}

// The result never shares a backing array with entries.
func filter(entries []model.Entry, keep func(model.Entry) bool) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if Valid(e) && keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// CategorySummary holds count, total and average amount of one category.
type CategorySummary struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
	Average  decimal.Decimal `json:"average"`
}

// MarshalJSON writes Total and Average as numbers with two decimal places.
func (s CategorySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category string          `json:"category"`
		Count    int             `json:"count"`
		Total    json.RawMessage `json:"total"`
		Average  json.RawMessage `json:"average"`
	}{
		Category: s.Category,
		Count:    s.Count,
		Total:    json.RawMessage(s.Total.StringFixed(2)),
		Average:  json.RawMessage(s.Average.StringFixed(2)),
	})
}

// Summarize returns one CategorySummary per category, sorted by category.
// Averages are rounded to two decimal places.
func Summarize(entries []model.Entry) []CategorySummary {
	byCat := make(map[string]*CategorySummary)
	for _, e := range entries {
		if !Valid(e) {
			continue
		}
		s, ok := byCat[e.Category]
		if !ok {
			s = &CategorySummary{Category: e.Category, Total: decimal.Zero}
			byCat[e.Category] = s
		}
		s.Count++
		s.Total = s.Total.Add(e.Amount)
	}

	out := make([]CategorySummary, 0, len(byCat))
	for _, s := range byCat {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
