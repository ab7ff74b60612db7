package aggregate

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// Totals maps a category to the sum of its amounts.
type Totals map[string]decimal.Decimal

// Categories returns the keys of t sorted in byte order.
func (t Totals) Categories() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sum returns the sum of all values in t.
func (t Totals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t {
		sum = sum.Add(v)
	}
	return sum
}

// Equal reports whether t and o hold the same categories with equal amounts.
func (t Totals) Equal(o Totals) bool {
	if len(t) != len(o) {
		return false
	}
	for k, v := range t {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes t as an object of category to number, keys sorted,
// numbers with two decimal places.
func (t Totals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(t[k].StringFixed(2))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
