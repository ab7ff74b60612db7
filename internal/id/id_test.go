package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmk-dev/rmk/internal/model"
)

func TestFormatEntryID(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		seq   int
		want  string
	}{
		{2023, time.January, 1, "2023-01-001"},
		{2023, time.December, 99, "2023-12-099"},
		{2023, time.January, 123, "2023-01-123"},
		{2023, time.March, 1000, "2023-03-1000"},
	}
	for _, tt := range tests {
		got := FormatEntryID(model.YearMonth{Year: tt.year, Month: tt.month}, tt.seq)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		input     string
		wantYear  int
		wantMonth time.Month
		wantSeq   int
	}{
		{"2023-01-001", 2023, time.January, 1},
		{"2023-12-099", 2023, time.December, 99},
		{"2024-02-1000", 2024, time.February, 1000},
	}
	for _, tt := range tests {
		ym, seq, err := ParseEntryID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantYear, ym.Year)
		assert.Equal(t, tt.wantMonth, ym.Month)
		assert.Equal(t, tt.wantSeq, seq)
	}
}

func TestParseEntryID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"not-valid",
		"2023-01",
		"xxxx-01-001",
		"2023-13-001",
		"2023-00-001",
		"2023-01-000",
		"2023-01-abc",
	}
	for _, input := range badInputs {
		_, _, err := ParseEntryID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestNextSeq(t *testing.T) {
	assert.Equal(t, 1, NextSeq(nil))
	assert.Equal(t, 3, NextSeq([]string{"2023-01-001", "2023-01-002"}))
	assert.Equal(t, 8, NextSeq([]string{"2023-01-007", "garbage", "2023-01-002"}))
}
