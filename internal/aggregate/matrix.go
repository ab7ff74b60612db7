package aggregate

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rmk-dev/rmk/internal/model"
)

// Matrix holds totals per month and category.
type Matrix struct {
	cells map[model.YearMonth]Totals
}

// Breakdown partitions entries by the month of their date and, within each
// month, by category.
func Breakdown(entries []model.Entry) *Matrix {
	m := &Matrix{cells: make(map[model.YearMonth]Totals)}
	for _, e := range entries {
		if !Valid(e) {
			continue
		}
		ym := e.Date.YearMonth()
		row, ok := m.cells[ym]
		if !ok {
			row = Totals{}
			m.cells[ym] = row
		}
		row[e.Category] = row[e.Category].Add(e.Amount)
	}
	return m
}

// Months returns the months present, oldest first.
func (m *Matrix) Months() []model.YearMonth {
	months := make([]model.YearMonth, 0, len(m.cells))
	for ym := range m.cells {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}

// Categories returns every category seen in any month, sorted.
func (m *Matrix) Categories() []string {
	seen := make(map[string]struct{})
	for _, row := range m.cells {
		for c := range row {
			seen[c] = struct{}{}
		}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Cell returns the total for category in month, zero if absent.
func (m *Matrix) Cell(month model.YearMonth, category string) decimal.Decimal {
	return m.cells[month][category].Add(decimal.Zero)
}

// Month returns a copy of the category totals for month.
func (m *Matrix) Month(month model.YearMonth) Totals {
	out := Totals{}
	for c, v := range m.cells[month] {
		out[c] = v
	}
	return out
}

// MonthTotal returns the sum over all categories in month.
func (m *Matrix) MonthTotal(month model.YearMonth) decimal.Decimal {
	return m.cells[month].Sum()
}

// CategoryTotal returns the sum of category over all months.
func (m *Matrix) CategoryTotal(category string) decimal.Decimal {
	total := decimal.Zero
	for _, row := range m.cells {
		total = total.Add(row[category])
	}
	return total
}

// Total returns the sum of every cell.
func (m *Matrix) Total() decimal.Decimal {
	total := decimal.Zero
	for _, row := range m.cells {
		total = total.Add(row.Sum())
	}
	return total
}

// MarshalJSON encodes m as an object of "YYYY-MM" to category totals,
// months in order.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ym := range m.Months() {
		if i > 0 {
			buf.WriteByte(',')
		}
		row, err := m.cells[ym].MarshalJSON()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", ym.String())
		buf.Write(row)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
