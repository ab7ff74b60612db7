package model

import "github.com/shopspring/decimal"

// Entry is a single RMK line item: a dated, categorized, signed amount.
type Entry struct {
	ID          string
	Date        Date
	Category    string          // grouping key, compared byte for byte
	Name        string
	Description string
	Amount      decimal.Decimal // negative for refunds and adjustments
}

// Item is a deferred cost spread over a number of months.
type Item struct {
	ID           string
	Description  string
	Category     string
	Start        Date
	Months       int
	Amount       decimal.Decimal
	CostAccount  int
	RMKAccount   int
	Invoice      string
	Counterparty string
}
