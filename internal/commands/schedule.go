package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmk-dev/rmk/internal/importer"
	"github.com/rmk-dev/rmk/internal/model"
	"github.com/rmk-dev/rmk/internal/schedule"
)

type scheduleOptions struct {
	file         string
	description  string
	category     string
	start        string
	months       int
	amount       string
	costAccount  int
	rmkAccount   int
	invoice      string
	counterparty string
	dryRun       bool
}

func newScheduleCommand(a *app) *cobra.Command {
	var opts scheduleOptions

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Spread a deferred cost over months and book the monthly entries",
		Long: "Spread a prepaid cost over the months it covers. The first and last months are " +
			"prorated by days; the monthly amounts always add up to the total. Describe one item " +
			"with flags or pass --file with a sheet of items.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openProject()
			if err != nil {
				return err
			}

			items, err := opts.items()
			if err != nil {
				return err
			}

			accts, err := p.accounts()
			if err != nil {
				return err
			}

			var entries []model.Entry
			for _, item := range items {
				if errs := schedule.Validate(item, accts); len(errs) > 0 {
					return fmt.Errorf("item %s: %w", item.ID, joinErrors(errs))
				}
				generated, err := schedule.Generate(item)
				if err != nil {
					return err
				}
				p.logger.Debug("schedule generated", "item", item.ID, "months", len(generated), "end", schedule.End(item).String())
				entries = append(entries, generated...)
			}

			f, err := p.formatter()
			if err != nil {
				return err
			}

			if opts.dryRun {
				return f.WriteEntries(cmd.OutOrStdout(), entries)
			}

			ids, err := p.ledger().AddAll(toParams(entries))
			if err != nil {
				return err
			}
			for i := range entries {
				entries[i].ID = ids[i]
			}

			details := fmt.Sprintf("%d item(s), %s", len(items), summarizeIDs(ids))
			if err := p.record(cmd.Context(), "schedule", details, ids); err != nil {
				return err
			}
			return f.WriteEntries(cmd.OutOrStdout(), entries)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.file, "file", "", "CSV sheet of items (Polish or English headers)")
	fl.StringVar(&opts.description, "description", "", "item description")
	fl.StringVar(&opts.category, "category", "", "category of the generated entries")
	fl.StringVar(&opts.start, "start", "", "first day covered, YYYY-MM-DD")
	fl.IntVar(&opts.months, "months", 0, "number of months covered")
	fl.StringVar(&opts.amount, "amount", "", "total amount")
	fl.IntVar(&opts.costAccount, "cost-account", 0, "cost account from the dictionary")
	fl.IntVar(&opts.rmkAccount, "rmk-account", 0, "RMK account from the dictionary")
	fl.StringVar(&opts.invoice, "invoice", "", "invoice number")
	fl.StringVar(&opts.counterparty, "counterparty", "", "counterparty")
	fl.BoolVar(&opts.dryRun, "dry-run", false, "print the schedule without booking it")
	cmd.MarkFlagsMutuallyExclusive("file", "start")
	cmd.MarkFlagsOneRequired("file", "start")

	return cmd
}

func (o scheduleOptions) items() ([]model.Item, error) {
	if o.file != "" {
		f, err := os.Open(o.file)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", o.file, err)
		}
		defer f.Close()

		items, err := importer.ParseItems(f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", o.file, err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%s contains no items", o.file)
		}
		return items, nil
	}

	start, err := model.ParseDate(o.start)
	if err != nil {
		return nil, err
	}
	amount, err := importer.ParseAmount(o.amount)
	if err != nil {
		return nil, err
	}
	return []model.Item{{
		ID:           "1",
		Description:  o.description,
		Category:     o.category,
		Start:        start,
		Months:       o.months,
		Amount:       amount,
		CostAccount:  o.costAccount,
		RMKAccount:   o.rmkAccount,
		Invoice:      o.invoice,
		Counterparty: o.counterparty,
	}}, nil
}
