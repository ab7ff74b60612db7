// Package commands implements the rmk command line.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rmk-dev/rmk/internal/buildinfo"
	"github.com/rmk-dev/rmk/internal/logging"
)

// repoEnv names the environment variable that supplies the default --repo.
const repoEnv = "RMK_REPO"

// app holds state shared by all subcommands of one invocation.
type app struct {
	repo     string
	logLevel string
	logger   *slog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "rmk",
		Short:   "Deferred-cost (RMK) ledger and reports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.repo, "repo", ".", "project directory (default $"+repoEnv+" or .)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or warn)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newAddCommand(a),
		newImportCommand(a),
		newScheduleCommand(a),
		newAccountsCommand(a),
		newReportCommand(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("repo") {
		if env := os.Getenv(repoEnv); env != "" {
			a.repo = env
		}
	}
	abs, err := filepath.Abs(a.repo)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.repo = abs

	// The project's own .env fills in whatever the environment leaves unset.
	if err := godotenv.Load(filepath.Join(a.repo, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", filepath.Join(a.repo, ".env"), err)
	}

	cfg := logging.DefaultConfig()
	if a.logLevel != "" {
		level, err := logging.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		cfg.Level = level
	}
	cfg.Output = cmd.ErrOrStderr()
	a.logger = logging.Setup(cfg)

	a.logger.Debug("starting", "command", cmd.CommandPath(), "repo", a.repo)
	return nil
}
