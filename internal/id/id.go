// Package id formats and parses RMK entry identifiers of the form "YYYY-MM-NNN".
package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rmk-dev/rmk/internal/model"
)

// FormatEntryID returns an entry ID like "2023-01-001".
func FormatEntryID(ym model.YearMonth, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", ym.Year, int(ym.Month), seq)
}

// ParseEntryID parses "2023-01-001" into its month and sequence number.
func ParseEntryID(id string) (model.YearMonth, int, error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return model.YearMonth{}, 0, fmt.Errorf("invalid entry ID format: %q", id)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return model.YearMonth{}, 0, fmt.Errorf("invalid year in entry ID %q: %w", id, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return model.YearMonth{}, 0, fmt.Errorf("invalid month in entry ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return model.YearMonth{}, 0, fmt.Errorf("month %d out of range in entry ID %q", month, id)
	}

	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return model.YearMonth{}, 0, fmt.Errorf("invalid sequence in entry ID %q: %w", id, err)
	}
	if seq < 1 {
		return model.YearMonth{}, 0, fmt.Errorf("sequence %d out of range in entry ID %q", seq, id)
	}

	return model.YearMonth{Year: year, Month: time.Month(month)}, seq, nil
}

// NextSeq returns the sequence number following the highest well-formed ID
// in ids. Malformed IDs are ignored.
func NextSeq(ids []string) int {
	maxSeq := 0
	for _, s := range ids {
		_, seq, err := ParseEntryID(s)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}
