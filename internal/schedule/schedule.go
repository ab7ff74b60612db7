// Package schedule spreads a deferred cost (an RMK item) over the months it
// covers and turns the result into ledger entries.
//
// The first and last months are prorated by the days they cover; the months
// in between carry a flat amount. Rounding differences are absorbed so the
// monthly amounts always add up to the item amount exactly.
package schedule

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rmk-dev/rmk/internal/model"
)

// MonthlyAmounts splits total over months starting at start. It returns an
// empty slice when months is not positive.
func MonthlyAmounts(total decimal.Decimal, start model.Date, months int) []decimal.Decimal {
	if months <= 0 {
		return []decimal.Decimal{}
	}
	if months == 1 {
		return []decimal.Decimal{total}
	}

	firstTotal := decimal.NewFromInt(int64(start.DaysInMonth()))
	firstUsed := decimal.NewFromInt(int64(start.DaysInMonth() - start.Day + 1))

	end := start.AddMonths(months - 1)
	lastTotal := decimal.NewFromInt(int64(end.DaysInMonth()))
	lastUsed := decimal.NewFromInt(int64(end.Day))

	if months == 2 {
		first := total.Mul(firstUsed).Div(firstUsed.Add(lastUsed)).Round(2)
		return []decimal.Decimal{first, total.Sub(first)}
	}

	middle := months - 2
	firstRatio := firstUsed.Div(firstTotal)
	lastRatio := lastUsed.Div(lastTotal)
	full := total.Div(firstRatio.Add(decimal.NewFromInt(int64(middle))).Add(lastRatio))

	amounts := make([]decimal.Decimal, 0, months)
	remaining := total

	first := full.Mul(firstRatio).Round(2)
	amounts = append(amounts, first)
	remaining = remaining.Sub(first)

	flat := full.Round(2)
	for i := 0; i < middle; i++ {
		amt := flat
		if i == middle-1 {
			// Leave exactly the prorated amount for the final month.
			amt = remaining.Sub(full.Mul(lastRatio).Round(2))
		}
		amounts = append(amounts, amt)
		remaining = remaining.Sub(amt)
	}

	return append(amounts, remaining)
}

// Generate returns one entry per month of the item's schedule. Entry IDs are
// left empty; the ledger assigns them.
func Generate(item model.Item) ([]model.Entry, error) {
	if errs := validateItem(item); len(errs) > 0 {
		return nil, fmt.Errorf("invalid item %q: %w", item.ID, errors.Join(errs...))
	}

	amounts := MonthlyAmounts(item.Amount, item.Start, item.Months)
	entries := make([]model.Entry, len(amounts))
	for i, amt := range amounts {
		desc := fmt.Sprintf("%d/%d", i+1, item.Months)
		if item.Invoice != "" {
			desc = item.Invoice + " " + desc
		}
		entries[i] = model.Entry{
			Date:        item.Start.AddMonths(i),
			Category:    item.Category,
			Name:        item.Description,
			Description: desc,
			Amount:      amt,
		}
	}
	return entries, nil
}

// End returns the date of the item's last scheduled month.
func End(item model.Item) model.Date {
	if item.Months <= 0 {
		return item.Start
	}
	return item.Start.AddMonths(item.Months - 1)
}
