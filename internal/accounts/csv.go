package accounts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rmk-dev/rmk/internal/model"
)

// Header is the CSV header of accounts.csv.
const Header = "account_id,account_name,description"

const (
	colID   = 0
	colName = 1
	colDesc = 2

	// The description column may be left off in hand-edited files.
	minFields = 2
	numFields = 3
)

// ReadAccounts reads accounts.csv. The dictionary is edited by hand as often
// as by rmk, so cells are trimmed, blank rows skipped and a missing trailing
// description column accepted.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); !strings.HasPrefix(Header, got) || len(records[0]) < minFields {
		return nil, fmt.Errorf("unexpected accounts header %q, want %q", got, Header)
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	return []string{strconv.Itoa(acct.ID), acct.Name, acct.Description}
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) < minFields || len(record) > numFields {
		return model.Account{}, fmt.Errorf("expected %d or %d fields, got %d", minFields, numFields, len(record))
	}

	raw := strings.TrimSpace(record[colID])
	id, err := strconv.Atoi(raw)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_id %q: %w", raw, err)
	}

	acct := model.Account{ID: id, Name: strings.TrimSpace(record[colName])}
	if acct.Name == "" {
		return model.Account{}, errors.New("account_name is empty")
	}
	if len(record) > colDesc {
		acct.Description = strings.TrimSpace(record[colDesc])
	}
	return acct, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
