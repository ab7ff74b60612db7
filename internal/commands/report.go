package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmk-dev/rmk/internal/aggregate"
	"github.com/rmk-dev/rmk/internal/model"
	"github.com/rmk-dev/rmk/internal/report"
)

type reportFunc func(rc *reportCtx, args []string) error

// reportCtx is what every report subcommand needs.
type reportCtx struct {
	ctx  context.Context
	out  io.Writer
	p    *project
	f    *report.Formatter
	json bool
}

func newReportCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate ledger entries",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	// run wraps a report body with project loading.
	run := func(body reportFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			p, err := a.openProject()
			if err != nil {
				return err
			}
			f, err := p.formatter()
			if err != nil {
				return err
			}
			return body(&reportCtx{ctx: cmd.Context(), out: cmd.OutOrStdout(), p: p, f: f, json: asJSON}, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "total",
			Short: "Sum of all entries",
			Args:  cobra.NoArgs,
			RunE:  run(reportTotal),
		},
		&cobra.Command{
			Use:   "category <name>",
			Short: "Sum of one category (exact match)",
			Args:  cobra.ExactArgs(1),
			RunE:  run(reportCategory),
		},
		&cobra.Command{
			Use:   "categories",
			Short: "Totals per category",
			Args:  cobra.NoArgs,
			RunE:  run(reportCategories),
		},
		&cobra.Command{
			Use:   "month <year> <month>",
			Short: "Totals per category for one calendar month (month 1-12)",
			Args:  cobra.ExactArgs(2),
			RunE:  run(reportMonth),
		},
		&cobra.Command{
			Use:   "period <start> <end>",
			Short: "Totals per category between two dates, both inclusive",
			Args:  cobra.ExactArgs(2),
			RunE:  run(reportPeriod),
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Count, total and average per category",
			Args:  cobra.NoArgs,
			RunE:  run(reportSummary),
		},
		newReportBreakdownCommand(run),
		newReportEntriesCommand(run),
	)

	return cmd
}

func reportTotal(rc *reportCtx, _ []string) error {
	entries, err := rc.p.readEntries(rc.ctx, model.YearMonth{}, model.YearMonth{})
	if err != nil {
		return err
	}
	total := aggregate.OverallTotal(entries)
	if rc.json {
		return report.WriteJSON(rc.out, report.Number(total))
	}
	return rc.f.WriteAmount(rc.out, "Total", total)
}

func reportCategory(rc *reportCtx, args []string) error {
	entries, err := rc.p.readEntries(rc.ctx, model.YearMonth{}, model.YearMonth{})
	if err != nil {
		return err
	}
	total := aggregate.TotalForCategory(entries, args[0])
	if rc.json {
		return report.WriteJSON(rc.out, report.Number(total))
	}
	return rc.f.WriteAmount(rc.out, args[0], total)
}

func reportCategories(rc *reportCtx, _ []string) error {
	entries, err := rc.p.readEntries(rc.ctx, model.YearMonth{}, model.YearMonth{})
	if err != nil {
		return err
	}
	return rc.writeTotals(aggregate.GroupTotalsByCategory(entries))
}

func reportMonth(rc *reportCtx, args []string) error {
	ym, err := parseYearAndMonth(args[0], args[1])
	if err != nil {
		return err
	}
	entries, err := rc.p.readEntries(rc.ctx, ym, ym)
	if err != nil {
		return err
	}
	return rc.writeTotals(aggregate.MonthlySummary(entries, ym.Month, ym.Year))
}

func reportPeriod(rc *reportCtx, args []string) error {
	start, err := model.ParseDate(args[0])
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := model.ParseDate(args[1])
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if start.After(end) {
		rc.p.logger.Warn("period start is after end; result is empty", "start", start.String(), "end", end.String())
		return rc.writeTotals(aggregate.Totals{})
	}

	entries, err := rc.p.readEntries(rc.ctx, start.YearMonth(), end.YearMonth())
	if err != nil {
		return err
	}
	return rc.writeTotals(aggregate.PeriodSummary(entries, start, end))
}

func reportSummary(rc *reportCtx, _ []string) error {
	entries, err := rc.p.readEntries(rc.ctx, model.YearMonth{}, model.YearMonth{})
	if err != nil {
		return err
	}
	sums := aggregate.Summarize(entries)
	if rc.json {
		return report.WriteJSON(rc.out, sums)
	}
	return rc.f.WriteSummaries(rc.out, sums)
}

func newReportBreakdownCommand(run func(reportFunc) func(*cobra.Command, []string) error) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Totals per month and category",
		Args:  cobra.NoArgs,
		RunE: run(func(rc *reportCtx, _ []string) error {
			lo, hi, err := parseMonthRange(from, to)
			if err != nil {
				return err
			}
			entries, err := rc.p.readEntries(rc.ctx, lo, hi)
			if err != nil {
				return err
			}
			m := aggregate.Breakdown(entries)
			if rc.json {
				return report.WriteJSON(rc.out, m)
			}
			return rc.f.WriteMatrix(rc.out, m)
		}),
	}
	cmd.Flags().StringVar(&from, "from", "", "first month, YYYY-MM")
	cmd.Flags().StringVar(&to, "to", "", "last month, YYYY-MM")
	return cmd
}

func newReportEntriesCommand(run func(reportFunc) func(*cobra.Command, []string) error) *cobra.Command {
	var category, month, start, end string

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List entries, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: run(func(rc *reportCtx, _ []string) error {
			entries, err := rc.p.readEntries(rc.ctx, model.YearMonth{}, model.YearMonth{})
			if err != nil {
				return err
			}
			if category != "" {
				entries = aggregate.ByCategory(entries, category)
			}
			if month != "" {
				ym, err := model.ParseYearMonth(month)
				if err != nil {
					return err
				}
				entries = aggregate.InMonth(entries, ym.Month, ym.Year)
			}
			if start != "" || end != "" {
				lo, hi, err := parseDateRange(start, end)
				if err != nil {
					return err
				}
				entries = aggregate.InPeriod(entries, lo, hi)
			}

			if rc.json {
				return report.WriteJSON(rc.out, entryRows(entries))
			}
			return rc.f.WriteEntries(rc.out, entries)
		}),
	}
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().StringVar(&month, "month", "", "only this month, YYYY-MM")
	cmd.Flags().StringVar(&start, "from", "", "only on or after this date, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "to", "", "only on or before this date, YYYY-MM-DD")
	return cmd
}

func (rc *reportCtx) writeTotals(t aggregate.Totals) error {
	if rc.json {
		return report.WriteJSON(rc.out, t)
	}
	return rc.f.WriteTotals(rc.out, t)
}

// parseYearAndMonth validates a four-digit year and a 1-based month.
func parseYearAndMonth(year, month string) (model.YearMonth, error) {
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 || y < 1 {
		return model.YearMonth{}, fmt.Errorf("year must be a four-digit number, got %q", year)
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return model.YearMonth{}, fmt.Errorf("month must be 1-12, got %q", month)
	}
	return model.YearMonth{Year: y, Month: time.Month(m)}, nil
}

// parseMonthRange turns optional YYYY-MM bounds into a range for
// project.readEntries. Both empty means every month.
func parseMonthRange(from, to string) (model.YearMonth, model.YearMonth, error) {
	if from == "" && to == "" {
		return model.YearMonth{}, model.YearMonth{}, nil
	}
	lo := model.YearMonth{Year: 1, Month: time.January}
	hi := model.YearMonth{Year: 9999, Month: time.December}
	var err error
	if from != "" {
		if lo, err = model.ParseYearMonth(from); err != nil {
			return lo, hi, err
		}
	}
	if to != "" {
		if hi, err = model.ParseYearMonth(to); err != nil {
			return lo, hi, err
		}
	}
	return lo, hi, nil
}

func parseDateRange(from, to string) (model.Date, model.Date, error) {
	lo := model.NewDate(1, time.January, 1)
	hi := model.NewDate(9999, time.December, 31)
	var err error
	if from != "" {
		if lo, err = model.ParseDate(from); err != nil {
			return lo, hi, err
		}
	}
	if to != "" {
		if hi, err = model.ParseDate(to); err != nil {
			return lo, hi, err
		}
	}
	return lo, hi, nil
}

// entryRow is the JSON shape of one listed entry.
type entryRow struct {
	ID          string        `json:"id"`
	Date        string        `json:"date"`
	Category    string        `json:"category"`
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	Amount      report.Number `json:"amount"`
}

func entryRows(entries []model.Entry) []entryRow {
	rows := make([]entryRow, len(entries))
	for i, e := range entries {
		rows[i] = entryRow{
			ID:          e.ID,
			Date:        e.Date.String(),
			Category:    e.Category,
			Name:        e.Name,
			Description: e.Description,
			Amount:      report.Number(e.Amount),
		}
	}
	return rows
}
