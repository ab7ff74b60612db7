package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rmk-dev/rmk/internal/importer"
	"github.com/rmk-dev/rmk/internal/model"
)

func newImportCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import entry CSVs",
		Long: "Import entry CSVs into the ledger. Without arguments every *.csv in " +
			"the project's import/ directory is imported and then moved to import/processed/.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.openProject()
			if err != nil {
				return err
			}
			if format == "" {
				format = p.cfg.Import.Format
			}
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q (known: %v)", format, importer.DefaultRegistry().Formats())
			}

			fromInbox := len(args) == 0
			paths := args
			if fromInbox {
				files, err := importer.Scan(p.root)
				if err != nil {
					return err
				}
				for _, f := range files {
					paths = append(paths, f.Path)
				}
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
				return nil
			}

			// Parse everything first so one bad file imports nothing.
			var all []model.Entry
			for _, path := range paths {
				entries, err := parseFile(parser, path)
				if err != nil {
					return err
				}
				p.logger.Info("parsed import file", "file", path, "entries", len(entries))
				all = append(all, entries...)
			}

			ids, err := p.ledger().AddAll(toParams(all))
			if err != nil {
				return err
			}

			if fromInbox {
				for _, path := range paths {
					if err := importer.MarkProcessed(p.root, filepath.Base(path)); err != nil {
						return err
					}
				}
			}

			if err := p.record(cmd.Context(), "import", fmt.Sprintf("%d file(s), %s", len(paths), summarizeIDs(ids)), ids); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries from %d file(s).\n", len(ids), len(paths))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "import format (default from rmk.yaml)")

	return cmd
}

func parseFile(parser importer.Parser, path string) ([]model.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}
