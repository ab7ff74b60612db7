package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rmk-dev/rmk/internal/accounts"
	"github.com/rmk-dev/rmk/internal/config"
	"github.com/rmk-dev/rmk/internal/gitops"
	"github.com/rmk-dev/rmk/internal/report"
)

type initOptions struct {
	company  string
	locale   string
	currency string
	noGit    bool
}

func newInitCommand(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new rmk project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.repo
			if len(args) > 0 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return fmt.Errorf("resolving path: %w", err)
				}
				dir = abs
			}
			hash, err := runInit(cmd.Context(), dir, opts)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized rmk project at %s (%s)\n", dir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized rmk project at %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.company, "company", "", "company name (required)")
	_ = cmd.MarkFlagRequired("company")
	cmd.Flags().StringVar(&opts.locale, "locale", "pl", "locale used to format amounts")
	cmd.Flags().StringVar(&opts.currency, "currency", "PLN", "currency shown in reports")
	cmd.Flags().BoolVar(&opts.noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(ctx context.Context, dir string, opts initOptions) (string, error) {
	if _, err := os.Stat(config.Path(dir)); err == nil {
		return "", fmt.Errorf("%s already exists", config.Path(dir))
	}

	// Fail on a bad locale before anything is written.
	if _, err := report.NewFormatter(opts.locale, opts.currency); err != nil {
		return "", err
	}

	dirs := []string{
		"accounts",
		"ledger",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(opts.company)
	cfg.Locale = opts.locale
	cfg.Currency = opts.currency
	if opts.noGit {
		cfg.Git.AutoCommit = false
	}
	if err := config.Save(config.Path(dir), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.NewService(accounts.DefaultDictionary()).Save(dir); err != nil {
		return "", fmt.Errorf("writing account dictionary: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".env\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}
	for _, keep := range []string{"import", "ledger"} {
		if err := os.WriteFile(filepath.Join(dir, keep, ".gitkeep"), []byte{}, 0o644); err != nil {
			return "", fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	if opts.noGit {
		return "", nil
	}
	if _, err := exec.LookPath("git"); err != nil {
		return "", fmt.Errorf("git not found; install it or pass --no-git: %w", err)
	}
	if err := gitops.Init(ctx, dir); err != nil {
		return "", err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+opts.company, author)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
