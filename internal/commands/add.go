package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmk-dev/rmk/internal/importer"
	"github.com/rmk-dev/rmk/internal/ledger"
	"github.com/rmk-dev/rmk/internal/model"
)

func newAddCommand(a *app) *cobra.Command {
	var date, category, amount, name, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append one entry to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openProject()
			if err != nil {
				return err
			}

			d, err := model.ParseDate(date)
			if err != nil {
				return err
			}
			amt, err := importer.ParseAmount(amount)
			if err != nil {
				return err
			}

			id, err := p.ledger().Add(ledger.AddParams{
				Date:        d,
				Category:    category,
				Name:        name,
				Description: description,
				Amount:      amt,
			})
			if err != nil {
				return err
			}

			if err := p.record(cmd.Context(), "add", fmt.Sprintf("%s %s %s", category, d, amt.StringFixed(2)), []string{id}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&category, "category", "", "category (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "signed amount, e.g. 120.50 or -30 (required)")
	cmd.Flags().StringVar(&name, "name", "", "short name")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	for _, f := range []string{"date", "category", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}
