package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rmk-dev/rmk/internal/model"
)

// RMKParser parses the plain entry export: date,category,amount[,name[,description]].
// Files may be comma or semicolon separated; amounts may use a decimal comma.
type RMKParser struct{}

const (
	rmkMinFields   = 3
	rmkMaxFields   = 5
	rmkColDate     = 0
	rmkColCategory = 1
	rmkColAmount   = 2
	rmkColName     = 3
	rmkColDesc     = 4
)

// Format returns the parser name.
func (p *RMKParser) Format() string { return "rmk" }

// Parse reads an rmk CSV and returns entries in file order.
func (p *RMKParser) Parse(r io.Reader) ([]model.Entry, error) {
	cr, err := newSniffingReader(r)
	if err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rmk CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.Entry
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		e, err := parseRMKRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseRMKRow(rec []string) (model.Entry, error) {
	if len(rec) < rmkMinFields || len(rec) > rmkMaxFields {
		return model.Entry{}, fmt.Errorf("expected %d to %d fields, got %d", rmkMinFields, rmkMaxFields, len(rec))
	}

	date, err := model.ParseDate(strings.TrimSpace(rec[rmkColDate]))
	if err != nil {
		return model.Entry{}, err
	}

	category := strings.TrimSpace(rec[rmkColCategory])
	if category == "" {
		return model.Entry{}, errors.New("category is empty")
	}

	amount, err := ParseAmount(rec[rmkColAmount])
	if err != nil {
		return model.Entry{}, err
	}

	e := model.Entry{Date: date, Category: category, Amount: amount}
	if len(rec) > rmkColName {
		e.Name = strings.TrimSpace(rec[rmkColName])
	}
	if len(rec) > rmkColDesc {
		e.Description = strings.TrimSpace(rec[rmkColDesc])
	}
	return e, nil
}

// ParseAmount parses amounts with either decimal separator and optional
// grouping: "1234.56", "1 234,56", "1.234,56", "1,234.56".
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	// Whichever separator comes last is the decimal point.
	if comma, dot := strings.LastIndex(clean, ","), strings.LastIndex(clean, "."); comma > dot {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else if comma >= 0 {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// newSniffingReader returns a csv.Reader whose delimiter is ';' when the
// first line contains one and ',' otherwise.
func newSniffingReader(r io.Reader) (*csv.Reader, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(br.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if i := strings.IndexByte(string(first), '\n'); i >= 0 {
		first = first[:i]
	}

	cr := csv.NewReader(br)
	if strings.Contains(string(first), ";") {
		cr.Comma = ';'
	}
	cr.TrimLeadingSpace = true
	return cr, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
