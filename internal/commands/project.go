package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/rmk-dev/rmk/internal/accounts"
	"github.com/rmk-dev/rmk/internal/aggregate"
	"github.com/rmk-dev/rmk/internal/auditlog"
	"github.com/rmk-dev/rmk/internal/config"
	"github.com/rmk-dev/rmk/internal/gitops"
	"github.com/rmk-dev/rmk/internal/ledger"
	"github.com/rmk-dev/rmk/internal/model"
	"github.com/rmk-dev/rmk/internal/report"
)

// project is an opened rmk project directory.
type project struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) openProject() (*project, error) {
	cfg, err := config.Load(config.Path(a.repo))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not an rmk project (no %s); run `rmk init` first", a.repo, config.FileName)
	}
	if err != nil {
		return nil, err
	}
	return &project{root: a.repo, cfg: cfg, logger: a.logger}, nil
}

func (p *project) ledger() *ledger.Service {
	return ledger.NewService(p.root, p.logger)
}

func (p *project) accounts() (*accounts.Service, error) {
	return accounts.Load(p.root)
}

func (p *project) formatter() (*report.Formatter, error) {
	return report.NewFormatter(p.cfg.Locale, p.cfg.Currency)
}

// readEntries loads the months from..to, or every month when from is zero,
// and warns about entries the reports will skip.
func (p *project) readEntries(ctx context.Context, from, to model.YearMonth) ([]model.Entry, error) {
	var (
		entries []model.Entry
		err     error
	)
	if from == (model.YearMonth{}) {
		entries, err = p.ledger().ReadAll(ctx)
	} else {
		entries, err = p.ledger().ReadRange(ctx, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	for _, e := range aggregate.Invalid(entries) {
		p.logger.Warn("skipping malformed entry", "id", e.ID, "category", e.Category, "date", e.Date.String())
	}
	return entries, nil
}

// record commits the change when auto-commit is on and appends a line to the
// activity log.
func (p *project) record(ctx context.Context, command, details string, ids []string) error {
	var hash string
	if p.cfg.Git.AutoCommit && gitops.IsRepo(p.root) {
		msg := command + ": " + details
		var err error
		hash, err = gitops.CommitAll(ctx, p.root, msg, gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail})
		if err != nil {
			return fmt.Errorf("committing: %w", err)
		}
		if hash != "" {
			p.logger.Info("committed", "hash", hash, "message", msg)
		}
	}

	err := auditlog.Append(p.root, auditlog.Entry{
		Timestamp:  time.Now(),
		Command:    command,
		Details:    details,
		EntryIDs:   ids,
		CommitHash: hash,
	})
	if err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	return nil
}

func summarizeIDs(ids []string) string {
	switch len(ids) {
	case 0:
		return "no entries"
	case 1:
		return ids[0]
	default:
		return fmt.Sprintf("%d entries (%s .. %s)", len(ids), ids[0], ids[len(ids)-1])
	}
}

func toParams(entries []model.Entry) []ledger.AddParams {
	params := make([]ledger.AddParams, len(entries))
	for i, e := range entries {
		params[i] = ledger.AddParams{
			Date:        e.Date,
			Category:    e.Category,
			Name:        e.Name,
			Description: e.Description,
			Amount:      e.Amount,
		}
	}
	return params
}

func joinErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return errors.New(strings.Join(msgs, "; "))
}
