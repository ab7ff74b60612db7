// Package report renders aggregation results as aligned text tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rmk-dev/rmk/internal/aggregate"
	"github.com/rmk-dev/rmk/internal/model"
)

// Formatter renders amounts with the grouping and decimal separator of a locale.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter returns a Formatter for a BCP 47 locale such as "pl" or
// "en-US". An empty locale means English.
func NewFormatter(locale, currency string) (*Formatter, error) {
	tag := language.English
	if locale != "" {
		var err error
		tag, err = language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
		}
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: currency}, nil
}

// Amount formats d with two decimal places.
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func (f *Formatter) amountHeader() string {
	if f.currency == "" {
		return "Amount"
	}
	return "Amount (" + f.currency + ")"
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteAmount writes a single labelled amount.
func (f *Formatter) WriteAmount(w io.Writer, label string, d decimal.Decimal) error {
	_, err := fmt.Fprintf(w, "%s: %s\n", label, f.Amount(d))
	return err
}

// WriteTotals writes one row per category, sorted, followed by the sum.
func (f *Formatter) WriteTotals(w io.Writer, t aggregate.Totals) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Category\t%s\n", f.amountHeader())
	for _, c := range t.Categories() {
		fmt.Fprintf(tw, "%s\t%s\n", c, f.Amount(t[c]))
	}
	fmt.Fprintf(tw, "Total\t%s\n", f.Amount(t.Sum()))
	return tw.Flush()
}

// WriteSummaries writes count, total and average per category.
func (f *Formatter) WriteSummaries(w io.Writer, sums []aggregate.CategorySummary) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Category\tCount\tTotal\tAverage\n")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Category, s.Count, f.Amount(s.Total), f.Amount(s.Average))
	}
	return tw.Flush()
}

// WriteMatrix writes one row per month and one column per category, with
// row and column totals.
func (f *Formatter) WriteMatrix(w io.Writer, m *aggregate.Matrix) error {
	tw := newTable(w)
	cats := m.Categories()

	fmt.Fprint(tw, "Month")
	for _, c := range cats {
		fmt.Fprintf(tw, "\t%s", c)
	}
	fmt.Fprint(tw, "\tTotal\n")

	for _, ym := range m.Months() {
		fmt.Fprint(tw, ym.String())
		for _, c := range cats {
			fmt.Fprintf(tw, "\t%s", f.Amount(m.Cell(ym, c)))
		}
		fmt.Fprintf(tw, "\t%s\n", f.Amount(m.MonthTotal(ym)))
	}

	fmt.Fprint(tw, "Total")
	for _, c := range cats {
		fmt.Fprintf(tw, "\t%s", f.Amount(m.CategoryTotal(c)))
	}
	fmt.Fprintf(tw, "\t%s\n", f.Amount(m.Total()))
	return tw.Flush()
}

// WriteEntries lists entries in the given order. The ID column is left
// blank for entries not yet in the ledger.
func (f *Formatter) WriteEntries(w io.Writer, entries []model.Entry) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID\tDate\tCategory\tName\tDescription\t%s\n", f.amountHeader())
	total := decimal.Zero
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, e.Name, e.Description, f.Amount(e.Amount))
		total = total.Add(e.Amount)
	}
	fmt.Fprintf(tw, "\t\t\t\tTotal\t%s\n", f.Amount(total))
	return tw.Flush()
}

// Number is an amount that marshals to a bare JSON number with two decimals.
type Number decimal.Decimal

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).StringFixed(2)), nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
