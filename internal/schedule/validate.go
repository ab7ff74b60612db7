package schedule

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rmk-dev/rmk/internal/model"
)

// AccountChecker verifies account existence.
type AccountChecker interface {
	Exists(id int) bool
}

var hundred = decimal.NewFromInt(100)

// Validate checks an item before its schedule is booked. A nil accounts skips
// the dictionary checks.
func Validate(item model.Item, accounts AccountChecker) []error {
	errs := validateItem(item)
	if accounts == nil {
		return errs
	}
	if !accounts.Exists(item.CostAccount) {
		errs = append(errs, fmt.Errorf("cost account %d not found", item.CostAccount))
	}
	if !accounts.Exists(item.RMKAccount) {
		errs = append(errs, fmt.Errorf("RMK account %d not found", item.RMKAccount))
	}
	return errs
}

func validateItem(item model.Item) []error {
	var errs []error
	if item.Months < 1 {
		errs = append(errs, fmt.Errorf("months must be at least 1, got %d", item.Months))
	}
	if !item.Amount.IsPositive() {
		errs = append(errs, fmt.Errorf("amount must be positive, got %s", item.Amount))
	} else if scaled := item.Amount.Mul(hundred); !scaled.Equal(scaled.Truncate(0)) {
		errs = append(errs, fmt.Errorf("amount %s has more than 2 decimal places", item.Amount))
	}
	if item.Category == "" {
		errs = append(errs, errors.New("category is empty"))
	}
	if item.Start.IsZero() {
		errs = append(errs, errors.New("start date is missing"))
	}
	return errs
}
