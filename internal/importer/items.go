package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rmk-dev/rmk/internal/model"
)

// Item sheet columns, recognised by header name in Polish or English.
const (
	itemColCategory     = "category"
	itemColStart        = "start"
	itemColEnd          = "end"
	itemColMonths       = "months"
	itemColAmount       = "amount"
	itemColCostAccount  = "cost_account"
	itemColRMKAccount   = "rmk_account"
	itemColCounterparty = "counterparty"
	itemColDescription  = "description"
	itemColInvoice      = "invoice"
)

// itemDateFormats are tried in order. A bare "2006-01" means the first of the month.
var itemDateFormats = []string{"2006-01-02", "02.01.2006", "02/01/2006", "02-01-2006", "2006.01.02", "2006-01"}

// ParseItems reads a sheet of deferred-cost items. The header row decides
// which column holds what; start, amount and either end or months are
// required. Blank rows are skipped. Items are numbered from 1 in file order.
func ParseItems(r io.Reader) ([]model.Item, error) {
	cr, err := newSniffingReader(r)
	if err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading item sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := mapItemHeader(records[0])
	if _, ok := cols[itemColStart]; !ok {
		return nil, errors.New("item sheet has no start date column")
	}
	if _, ok := cols[itemColAmount]; !ok {
		return nil, errors.New("item sheet has no amount column")
	}
	_, hasEnd := cols[itemColEnd]
	_, hasMonths := cols[itemColMonths]
	if !hasEnd && !hasMonths {
		return nil, errors.New("item sheet needs an end date or months column")
	}

	var items []model.Item
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		item, err := parseItemRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		item.ID = strconv.Itoa(len(items) + 1)
		items = append(items, item)
	}
	return items, nil
}

func parseItemRow(rec []string, cols map[string]int) (model.Item, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	start, err := parseItemDate(get(itemColStart))
	if err != nil {
		return model.Item{}, err
	}

	amount, err := ParseAmount(get(itemColAmount))
	if err != nil {
		return model.Item{}, err
	}

	var months int
	if s := get(itemColMonths); s != "" {
		if months, err = strconv.Atoi(s); err != nil {
			return model.Item{}, fmt.Errorf("parsing months %q: %w", s, err)
		}
	} else {
		end, err := parseItemDate(get(itemColEnd))
		if err != nil {
			return model.Item{}, err
		}
		months = (end.Year-start.Year)*12 + int(end.Month) - int(start.Month) + 1
	}

	costAccount, err := parseAccount(get(itemColCostAccount))
	if err != nil {
		return model.Item{}, err
	}
	rmkAccount, err := parseAccount(get(itemColRMKAccount))
	if err != nil {
		return model.Item{}, err
	}

	return model.Item{
		Description:  get(itemColDescription),
		Category:     get(itemColCategory),
		Start:        start,
		Months:       months,
		Amount:       amount,
		CostAccount:  costAccount,
		RMKAccount:   rmkAccount,
		Invoice:      get(itemColInvoice),
		Counterparty: get(itemColCounterparty),
	}, nil
}

func parseItemDate(s string) (model.Date, error) {
	if s == "" {
		return model.Date{}, errors.New("date is empty")
	}
	for _, layout := range itemDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(t), nil
		}
	}
	return model.Date{}, fmt.Errorf("parsing date %q: unrecognised format", s)
}

func parseAccount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing account %q: %w", s, err)
	}
	return n, nil
}

// mapItemHeader maps canonical column names to indices. The first matching
// column wins.
func mapItemHeader(header []string) map[string]int {
	cols := make(map[string]int)
	for i, raw := range header {
		name := classifyItemColumn(normalizeHeader(raw))
		if name == "" {
			continue
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}

func classifyItemColumn(h string) string {
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(h, s) {
				return true
			}
		}
		return false
	}

	switch {
	case has("kategori", "category"):
		return itemColCategory
	case has("start", "dataod", "from") || h == "od":
		return itemColStart
	case has("koniec", "datado", "end") || h == "do" || h == "to":
		return itemColEnd
	case has("liczbamies", "months", "miesiecy"):
		return itemColMonths
	case has("kwot", "wartosc", "warto", "amount"):
		return itemColAmount
	case has("kontokoszt", "costaccount"):
		return itemColCostAccount
	case has("rmk"):
		return itemColRMKAccount
	case has("kontrah", "counterparty"):
		return itemColCounterparty
	case has("faktur", "invoice"):
		return itemColInvoice
	case has("opis", "uwag", "description", "name"):
		return itemColDescription
	}
	return ""
}

// normalizeHeader lowercases h, folds Polish letters to ASCII and drops
// everything that is not a letter or digit.
func normalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if f, ok := polishFold[r]; ok {
			r = f
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var polishFold = map[rune]rune{
	'ą': 'a', 'ć': 'c', 'ę': 'e', 'ł': 'l', 'ń': 'n',
	'ó': 'o', 'ś': 's', 'ź': 'z', 'ż': 'z',
}
