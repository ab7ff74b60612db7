package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rmk-dev/rmk/internal/model"
)

func newAccountsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the account dictionary",
	}
	cmd.AddCommand(
		newAccountsListCommand(a),
		newAccountsAddCommand(a),
		newAccountsDescribeCommand(a),
	)
	return cmd
}

func newAccountsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openProject()
			if err != nil {
				return err
			}
			svc, err := p.accounts()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tName\tDescription")
			for _, acct := range svc.All() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", acct.ID, acct.Name, acct.Description)
			}
			return tw.Flush()
		},
	}
}

func newAccountsAddCommand(a *app) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			return a.editAccounts(cmd, fmt.Sprintf("add %d %s", id, args[1]), func(p *project) error {
				svc, err := p.accounts()
				if err != nil {
					return err
				}
				if err := svc.Add(model.Account{ID: id, Name: args[1], Description: description}); err != nil {
					return err
				}
				return svc.Save(p.root)
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "optional description")
	return cmd
}

func newAccountsDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <id> <description>",
		Short: "Set the description of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			return a.editAccounts(cmd, fmt.Sprintf("describe %d", id), func(p *project) error {
				svc, err := p.accounts()
				if err != nil {
					return err
				}
				if err := svc.SetDescription(id, args[1]); err != nil {
					return err
				}
				return svc.Save(p.root)
			})
		},
	}
}

func (a *app) editAccounts(cmd *cobra.Command, details string, edit func(*project) error) error {
	p, err := a.openProject()
	if err != nil {
		return err
	}
	if err := edit(p); err != nil {
		return err
	}
	if err := p.record(cmd.Context(), "accounts", details, nil); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "OK")
	return nil
}

func parseAccountID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("account id must be a number, got %q", s)
	}
	return id, nil
}
