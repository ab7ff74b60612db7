package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rmk-dev/rmk/internal/id"
	"github.com/rmk-dev/rmk/internal/model"
)

// Rules enforced on a month file.
const (
	RuleCategory = iota + 1 // category is non-empty
	RuleMonth               // date falls inside the file's month
	RulePrecision           // amount has at most two decimal places
	RuleID                  // ID is well-formed, belongs to the month and is unique
	RuleSequence            // sequence numbers are contiguous 1..N
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %d [%s]: %s", e.Rule, e.EntryID, e.Description)
}

var hundred = decimal.NewFromInt(100)

// ValidateEntries checks the entries of one month file.
func ValidateEntries(entries []model.Entry, month model.YearMonth) []ValidationError {
	var errs []ValidationError

	seen := make(map[int]string)
	for _, e := range entries {
		if e.Category == "" {
			errs = append(errs, ValidationError{
				Rule:        RuleCategory,
				EntryID:     e.ID,
				Description: "category is empty",
			})
		}

		if e.Date.YearMonth() != month {
			errs = append(errs, ValidationError{
				Rule:        RuleMonth,
				EntryID:     e.ID,
				Description: fmt.Sprintf("date %s not in %s", e.Date, month),
			})
		}

		if scaled := e.Amount.Mul(hundred); !scaled.Equal(scaled.Truncate(0)) {
			errs = append(errs, ValidationError{
				Rule:        RulePrecision,
				EntryID:     e.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", e.Amount),
			})
		}

		ym, seq, err := id.ParseEntryID(e.ID)
		switch {
		case err != nil:
			errs = append(errs, ValidationError{
				Rule:        RuleID,
				EntryID:     e.ID,
				Description: fmt.Sprintf("invalid entry ID: %v", err),
			})
			continue
		case ym != month:
			errs = append(errs, ValidationError{
				Rule:        RuleID,
				EntryID:     e.ID,
				Description: fmt.Sprintf("entry ID does not belong to %s", month),
			})
		}
		if prev, dup := seen[seq]; dup {
			errs = append(errs, ValidationError{
				Rule:        RuleID,
				EntryID:     e.ID,
				Description: fmt.Sprintf("duplicate of %s", prev),
			})
			continue
		}
		seen[seq] = e.ID
	}

	for i := 1; i <= len(seen); i++ {
		if _, ok := seen[i]; !ok {
			errs = append(errs, ValidationError{
				Rule:        RuleSequence,
				EntryID:     fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seen)),
			})
		}
	}

	return errs
}
